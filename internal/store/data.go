package store

import (
	"encoding/json"
	"math"
	"strconv"
)

// Data is the JSON object body of a document. Numbers read back from the
// store are float64; the accessors below normalize them.
type Data map[string]any

// Has reports whether key is present, even if its value is null.
func (d Data) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Data) String(key string) string {
	s, _ := d[key].(string)
	return s
}

func (d Data) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Int returns the integer value of key, or 0 when absent or not numeric.
func (d Data) Int(key string) int {
	n, _ := ToInt(d[key])
	return n
}

// Map returns the nested object at key, or nil.
func (d Data) Map(key string) Data {
	return ToData(d[key])
}

// Ref returns the document ID held by a relationship field. Relationship
// values are ID strings, or populated objects carrying an "id".
func (d Data) Ref(key string) string {
	return RefID(d[key])
}

// Clone copies the top level and every nested object. Slices are shared.
func (d Data) Clone() Data {
	if d == nil {
		return Data{}
	}
	out := make(Data, len(d))
	for k, v := range d {
		if nested := ToData(v); nested != nil {
			out[k] = nested.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// Merge returns a copy of d with patch applied. Nested objects present on
// both sides are merged key by key, so a patch naming one field of a group
// keeps the group's other fields. Any other value, lists included, replaces
// the stored one.
func (d Data) Merge(patch Data) Data {
	out := d.Clone()
	for k, v := range patch {
		current, incoming := ToData(out[k]), ToData(v)
		if current != nil && incoming != nil {
			out[k] = current.Merge(incoming)
			continue
		}
		if incoming != nil {
			out[k] = incoming.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

func ToData(v any) Data {
	switch m := v.(type) {
	case Data:
		return m
	case map[string]any:
		return Data(m)
	default:
		return nil
	}
}

func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	default:
		return 0, false
	}
}

func RefID(v any) string {
	switch ref := v.(type) {
	case string:
		return ref
	case map[string]any:
		id, _ := ref["id"].(string)
		return id
	case Data:
		id, _ := ref["id"].(string)
		return id
	default:
		return ""
	}
}
