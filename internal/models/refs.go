package models

import (
	"reflect"
	"strings"

	"github.com/codr1/leaguedesk/internal/store"
)

var refType = reflect.TypeOf(Ref(""))

// NormalizeRefs returns a copy of data in which every relationship the
// collection defines, nested groups and lists included, holds the bare
// document ID instead of a populated object. Values that are not
// recognisable relationships are left for validation to reject.
func NormalizeRefs(collection string, data store.Data) store.Data {
	factory, ok := registry[collection]
	if !ok || data == nil {
		return data
	}
	return normalizeGroup(reflect.TypeOf(factory()).Elem(), data)
}

func normalizeGroup(t reflect.Type, data store.Data) store.Data {
	out := data.Clone()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := jsonName(field)
		if name == "" {
			continue
		}
		if v, ok := out[name]; ok && v != nil {
			out[name] = normalizeValue(field.Type, v)
		}
	}
	return out
}

func normalizeValue(t reflect.Type, v any) any {
	if t == refType {
		if id := store.RefID(v); id != "" {
			return id
		}
		return v
	}

	switch t.Kind() {
	case reflect.Pointer:
		return normalizeValue(t.Elem(), v)
	case reflect.Struct:
		if group := store.ToData(v); group != nil {
			return normalizeGroup(t, group)
		}
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return v
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = normalizeValue(t.Elem(), item)
		}
		return out
	}
	return v
}

func jsonName(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return field.Name
}
