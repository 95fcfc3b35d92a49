package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// SkillsKind tells which shape a skills value arrived in
type SkillsKind int

const (
	// SkillsOther covers missing, null, numeric, boolean and object values
	SkillsOther SkillsKind = iota
	// SkillsSequence is a JSON array; elements keep their decoded types
	SkillsSequence
	// SkillsEncoded is a string holding a list literal, e.g. "['python', 'aws']"
	SkillsEncoded
)

func (k SkillsKind) String() string {
	switch k {
	case SkillsSequence:
		return "sequence"
	case SkillsEncoded:
		return "encoded"
	default:
		return "other"
	}
}

// Skills is the raw skills value of a RawJob. The shape is decided once when
// the value is decoded, and the original JSON is written back unchanged.
type Skills struct {
	Kind  SkillsKind
	Items []any
	Text  string

	raw json.RawMessage
}

// SkillsFromList builds a sequence value from plain strings
func SkillsFromList(items ...string) Skills {
	s := Skills{Kind: SkillsSequence, Items: make([]any, len(items))}
	for i, item := range items {
		s.Items[i] = item
	}
	return s
}

// SkillsFromText builds an encoded value
func SkillsFromText(text string) Skills {
	return Skills{Kind: SkillsEncoded, Text: text}
}

// SkillsFromRaw classifies an arbitrary JSON value
func SkillsFromRaw(data json.RawMessage) (Skills, error) {
	var s Skills
	if len(data) == 0 {
		return s, nil
	}
	err := s.UnmarshalJSON(data)
	return s, err
}

func (s *Skills) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*s = Skills{}

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return nil
	case trimmed[0] == '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		if items == nil {
			items = []any{}
		}
		s.Kind = SkillsSequence
		s.Items = items
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		s.Kind = SkillsEncoded
		s.Text = text
	default:
		if !json.Valid(trimmed) {
			return errors.New("invalid skills value")
		}
		s.raw = append(json.RawMessage(nil), trimmed...)
	}
	return nil
}

func (s Skills) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SkillsSequence:
		if s.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.Items)
	case SkillsEncoded:
		return json.Marshal(s.Text)
	default:
		if len(s.raw) == 0 {
			return []byte("null"), nil
		}
		return s.raw, nil
	}
}
