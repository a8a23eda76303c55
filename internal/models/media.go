package models

import (
	"strings"
	"time"
)

type MediaTag struct {
	Tag string `json:"tag"`
}

type Media struct {
	Alt      string     `json:"alt"`
	Caption  string     `json:"caption,omitempty"`
	Filename string     `json:"filename,omitempty"`
	MimeType string     `json:"mimeType,omitempty"`
	Filesize *float64   `json:"filesize,omitempty"`
	Tags     []MediaTag `json:"tags,omitempty"`
}

func (m *Media) check(c *checker, _ time.Time) {
	c.requiredText("alt", m.Alt)
	if m.MimeType != "" && !strings.HasPrefix(m.MimeType, "image/") && m.MimeType != "application/pdf" {
		c.add("mimeType", "Only images and PDF files are allowed")
	}
	for i, tag := range m.Tags {
		c.requiredText(indexed("tags", i, "tag"), tag.Tag)
	}
}
