// Package parser handles serialization of event trees. The structured
// Record form preserves every variant payload, instruction list and the
// ordered sub-event subtree; JSON is the concrete encoding.
package parser

import (
	"errors"
	"fmt"

	"github.com/evsheet/go-evsheet/eventtree"
	"github.com/evsheet/go-evsheet/expr"
)

var (
	ErrMalformedRecord  = errors.New("parser: malformed serialized record")
	ErrCyclicRecord     = errors.New("parser: serialized record is not a tree")
	ErrUnknownEventType = errors.New("parser: unknown event type id")
)

// Record is the serialized form of one event node.
type Record struct {
	Type     string `json:"type"`
	Disabled bool   `json:"disabled,omitempty"`
	Folded   bool   `json:"folded,omitempty"`

	Conditions      []InstructionRecord `json:"conditions,omitempty"`
	Actions         []InstructionRecord `json:"actions,omitempty"`
	WhileConditions []InstructionRecord `json:"whileConditions,omitempty"`

	SubEvents []*Record `json:"subEvents,omitempty"`

	// Variant payloads.
	Text   string `json:"text,omitempty"`   // comment
	Name   string `json:"name,omitempty"`   // group
	Target string `json:"target,omitempty"` // link
	Count  string `json:"count,omitempty"`  // repeat
	Object string `json:"object,omitempty"` // foreach
	Code   string `json:"code,omitempty"`   // inline code
}

// InstructionRecord is the serialized form of one instruction.
type InstructionRecord struct {
	ID         string   `json:"id"`
	Inverted   bool     `json:"inverted,omitempty"`
	Parameters []string `json:"params,omitempty"`
}

// ToRecord serializes an event and its subtree.
func ToRecord(ev eventtree.Event) *Record {
	rec := &Record{
		Type:     ev.Type(),
		Disabled: ev.Disabled(),
	}

	// Folded is base state and persists for every variant, leaves too.
	switch e := ev.(type) {
	case *eventtree.StandardEvent:
		rec.Folded = e.Folded
		rec.Conditions = instructionsToRecords(e.Conditions)
		rec.Actions = instructionsToRecords(e.Actions)
	case *eventtree.GroupEvent:
		rec.Folded = e.Folded
		rec.Name = e.Name
	case *eventtree.RepeatEvent:
		rec.Folded = e.Folded
		rec.Count = e.Count.Raw()
		rec.Conditions = instructionsToRecords(e.Conditions)
		rec.Actions = instructionsToRecords(e.Actions)
	case *eventtree.WhileEvent:
		rec.Folded = e.Folded
		rec.WhileConditions = instructionsToRecords(e.WhileConditions)
		rec.Conditions = instructionsToRecords(e.Conditions)
		rec.Actions = instructionsToRecords(e.Actions)
	case *eventtree.ForEachEvent:
		rec.Folded = e.Folded
		rec.Object = e.Object.Raw()
		rec.Conditions = instructionsToRecords(e.Conditions)
		rec.Actions = instructionsToRecords(e.Actions)
	case *eventtree.CommentEvent:
		rec.Folded = e.Folded
		rec.Text = e.Text
	case *eventtree.CodeEvent:
		rec.Folded = e.Folded
		rec.Code = e.Code
		rec.Conditions = instructionsToRecords(e.Conditions)
	case *eventtree.LinkEvent:
		rec.Folded = e.Folded
		rec.Target = e.Target
	}

	for _, sub := range ev.SubEvents() {
		rec.SubEvents = append(rec.SubEvents, ToRecord(sub))
	}
	return rec
}

// FromRecord deserializes an event subtree. Records that alias the same
// node twice would construct a non-tree and are rejected with
// ErrCyclicRecord; unknown event type ids fail with ErrUnknownEventType.
// Errors surface to the caller, which decides whether to abort the load.
func FromRecord(rec *Record) (eventtree.Event, error) {
	return fromRecord(rec, make(map[*Record]bool))
}

func fromRecord(rec *Record, visited map[*Record]bool) (eventtree.Event, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", ErrMalformedRecord)
	}
	if visited[rec] {
		return nil, fmt.Errorf("%w: record for type %q reachable twice", ErrCyclicRecord, rec.Type)
	}
	visited[rec] = true

	var ev eventtree.Event
	switch rec.Type {
	case eventtree.TypeStandard:
		e := eventtree.NewStandardEvent()
		e.Folded = rec.Folded
		e.Conditions = recordsToInstructions(rec.Conditions)
		e.Actions = recordsToInstructions(rec.Actions)
		ev = e
	case eventtree.TypeGroup:
		e := eventtree.NewGroupEvent(rec.Name)
		e.Folded = rec.Folded
		ev = e
	case eventtree.TypeRepeat:
		e := eventtree.NewRepeatEvent(rec.Count)
		e.Folded = rec.Folded
		e.Conditions = recordsToInstructions(rec.Conditions)
		e.Actions = recordsToInstructions(rec.Actions)
		ev = e
	case eventtree.TypeWhile:
		e := eventtree.NewWhileEvent()
		e.Folded = rec.Folded
		e.WhileConditions = recordsToInstructions(rec.WhileConditions)
		e.Conditions = recordsToInstructions(rec.Conditions)
		e.Actions = recordsToInstructions(rec.Actions)
		ev = e
	case eventtree.TypeForEach:
		e := eventtree.NewForEachEvent(rec.Object)
		e.Folded = rec.Folded
		e.Conditions = recordsToInstructions(rec.Conditions)
		e.Actions = recordsToInstructions(rec.Actions)
		ev = e
	case eventtree.TypeComment:
		e := eventtree.NewCommentEvent(rec.Text)
		e.Folded = rec.Folded
		ev = e
	case eventtree.TypeCode:
		e := eventtree.NewCodeEvent(rec.Code)
		e.Folded = rec.Folded
		e.Conditions = recordsToInstructions(rec.Conditions)
		ev = e
	case eventtree.TypeLink:
		e := eventtree.NewLinkEvent(rec.Target)
		e.Folded = rec.Folded
		ev = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, rec.Type)
	}

	ev.SetDisabled(rec.Disabled)

	if len(rec.SubEvents) > 0 && !ev.CanHaveSubEvents() {
		return nil, fmt.Errorf("%w: event type %q cannot carry sub-events", ErrMalformedRecord, rec.Type)
	}
	for _, subRec := range rec.SubEvents {
		sub, err := fromRecord(subRec, visited)
		if err != nil {
			return nil, err
		}
		ev.SetSubEvents(append(ev.SubEvents(), sub))
	}
	return ev, nil
}

func instructionsToRecords(items []*eventtree.Instruction) []InstructionRecord {
	var out []InstructionRecord
	for _, ins := range items {
		rec := InstructionRecord{ID: ins.TypeID, Inverted: ins.Inverted}
		for _, p := range ins.Parameters {
			rec.Parameters = append(rec.Parameters, p.Raw())
		}
		out = append(out, rec)
	}
	return out
}

func recordsToInstructions(records []InstructionRecord) []*eventtree.Instruction {
	var out []*eventtree.Instruction
	for _, rec := range records {
		ins := &eventtree.Instruction{TypeID: rec.ID, Inverted: rec.Inverted}
		for _, p := range rec.Parameters {
			ins.Parameters = append(ins.Parameters, expr.New(p))
		}
		out = append(out, ins)
	}
	return out
}
