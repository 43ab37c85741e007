package parser

import (
	"encoding/json"
	"fmt"

	"github.com/evsheet/go-evsheet/eventtree"
)

// sheet is the JSON document wrapping a top-level event list.
type sheet struct {
	Events []*Record `json:"events"`
}

// ToJSON serializes a top-level event list.
func ToJSON(events []eventtree.Event) ([]byte, error) {
	doc := sheet{}
	for _, ev := range events {
		doc.Events = append(doc.Events, ToRecord(ev))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FromJSON deserializes a top-level event list. A malformed record fails
// the whole load; the error names the offending node.
func FromJSON(data []byte) ([]eventtree.Event, error) {
	var doc sheet
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	var events []eventtree.Event
	for i, rec := range doc.Events {
		ev, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
