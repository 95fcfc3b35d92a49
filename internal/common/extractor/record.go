package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/project-tktt/job-explorer/internal/domain"
)

// Page is one decoded listing response
type Page struct {
	Items []json.RawMessage
	// Next is the URL of the following page, empty when there is none
	Next string
}

// DecodeList accepts either a bare JSON list or an object wrapping the list
// in "data" with an optional "links.next" URL.
func DecodeList(body []byte) (Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Page{}, fmt.Errorf("parse list json: empty body")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page{}, fmt.Errorf("parse list json: %w", err)
		}
		return Page{Items: items}, nil

	case '{':
		var wrapper struct {
			Data  []json.RawMessage `json:"data"`
			Links struct {
				Next *string `json:"next"`
			} `json:"links"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return Page{}, fmt.Errorf("parse list json: %w", err)
		}
		page := Page{Items: wrapper.Data}
		if wrapper.Links.Next != nil {
			page.Next = *wrapper.Links.Next
		}
		return page, nil

	default:
		return Page{}, fmt.Errorf("parse list json: unexpected top-level value")
	}
}

// Record is one upstream entry with its fields left undecoded
type Record map[string]json.RawMessage

// AsRecord decodes item when it is a JSON object
func AsRecord(item json.RawMessage) (Record, bool) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var rec Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, false
	}
	return rec, true
}

// Has reports whether key is present, even with a null value
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the field as a string, or nil when it is absent or not a string
func (r Record) String(key string) *string {
	raw, ok := r[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return &s
}

// Skills classifies the field as a skills value
func (r Record) Skills(key string) domain.Skills {
	s, err := domain.SkillsFromRaw(r[key])
	if err != nil {
		return domain.Skills{}
	}
	return s
}
