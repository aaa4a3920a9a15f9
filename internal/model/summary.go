package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SummaryGroup holds the distinct surface strings the service found for one label
type SummaryGroup struct {
	Label string
	Texts []string
}

// Summary groups entity surface strings by label. It is produced by the
// analysis service; the order of groups is the key order of the JSON object
// on the wire, so views render labels in the order the service emitted them.
type Summary []SummaryGroup

// Get returns the texts recorded for label
func (s Summary) Get(label string) ([]string, bool) {
	for _, g := range s {
		if g.Label == label {
			return g.Texts, true
		}
	}
	return nil, false
}

// Labels returns the labels in wire order
func (s Summary) Labels() []string {
	labels := make([]string, len(s))
	for i, g := range s {
		labels[i] = g.Label
	}
	return labels
}

// UnmarshalJSON decodes a JSON object keeping its key order.
// A repeated key replaces the earlier group in place.
func (s *Summary) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("summary: expected object, got %v", tok)
	}

	out := Summary{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("summary: unexpected key %v", keyTok)
		}

		var texts []string
		if err := dec.Decode(&texts); err != nil {
			return fmt.Errorf("summary %q: %w", label, err)
		}

		if i, seen := index[label]; seen {
			out[i].Texts = texts
			continue
		}
		index[label] = len(out)
		out = append(out, SummaryGroup{Label: label, Texts: texts})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	*s = out
	return nil
}

// MarshalJSON encodes the summary as a JSON object in group order
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Label)
		if err != nil {
			return nil, err
		}
		texts := g.Texts
		if texts == nil {
			texts = []string{}
		}
		val, err := json.Marshal(texts)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
