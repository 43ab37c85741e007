// Package eventtree models the event sheet: a tree of polymorphic event
// nodes carrying condition/action instructions and sub-events. The variant
// set is closed; new behavior is added by adding a variant, not by
// overriding defaults.
package eventtree

import (
	"time"

	"github.com/evsheet/go-evsheet/expr"
)

// Event type ids. The id identifies the variant an event was created from
// and is immutable after creation.
const (
	TypeStandard = "standard"
	TypeGroup    = "group"
	TypeRepeat   = "repeat"
	TypeWhile    = "while"
	TypeForEach  = "foreach"
	TypeComment  = "comment"
	TypeCode     = "code"
	TypeLink     = "link"
)

// Event is one node of the event tree. All variants live in this package;
// the unexported base method keeps the set closed.
type Event interface {
	// Type returns the variant id the event was created from.
	Type() string

	// IsExecutable reports whether the generator should emit code for
	// this event. Comments and unexpanded links are not executable.
	IsExecutable() bool

	// CanHaveSubEvents reports whether the variant owns child events.
	CanHaveSubEvents() bool

	// SubEvents returns the ordered, exclusively owned children.
	// Variants without sub-events return nil.
	SubEvents() []Event

	// SetSubEvents replaces the children. Callers adding single nodes
	// should prefer AddSubEvent, which enforces the tree invariant.
	SetSubEvents(children []Event)

	// ConditionLists returns every condition sequence of the event, in
	// evaluation order. Used by rewrite passes and the generator.
	ConditionLists() []*InstructionList

	// ActionLists returns every action sequence of the event.
	ActionLists() []*InstructionList

	// AllExpressions returns every expression reachable from this
	// event's instructions and variant payloads, as rewritable handles.
	// It does not recurse into sub-events.
	AllExpressions() []*expr.Expression

	// Clone returns a fully independent deep copy of the event and its
	// descendants. The copy's back-reference is cleared.
	Clone() Event

	Disabled() bool
	SetDisabled(bool)

	base() *BaseEvent
}

// BaseEvent carries the state shared by every variant.
type BaseEvent struct {
	disabled bool

	// Folded is editor state: a folded event hides its sub-events in the
	// sheet. Persisted, never consulted during compilation.
	Folded bool

	// Profiling results, written only by the runtime collaborator.
	totalTime time.Duration
	percent   float64

	// Non-owning back-reference to the event this one was cloned from.
	// Read through Arena.Resolve only.
	originalRef Handle
}

func (b *BaseEvent) base() *BaseEvent { return b }

func (b *BaseEvent) Disabled() bool     { return b.disabled }
func (b *BaseEvent) SetDisabled(d bool) { b.disabled = d }

// SetProfile stores the runtime-measured execution time and
// percentage-of-session for this event. The core never computes these.
func (b *BaseEvent) SetProfile(total time.Duration, percent float64) {
	b.totalTime = total
	b.percent = percent
}

// ProfileTime returns the cumulative execution time from the last session.
func (b *BaseEvent) ProfileTime() time.Duration { return b.totalTime }

// ProfilePercent returns the percentage-of-session from the last session.
func (b *BaseEvent) ProfilePercent() float64 { return b.percent }

// OriginalRef returns the back-reference handle set by
// Arena.CloneRememberingOriginal. The zero handle resolves to absent.
func (b *BaseEvent) OriginalRef() Handle { return b.originalRef }

// AddSubEvent appends child to parent's sub-events, enforcing the tree
// invariant: the child subtree must not contain the parent.
func AddSubEvent(parent, child Event) error {
	if !parent.CanHaveSubEvents() {
		return ErrNotContainer
	}
	if parent == child || Contains(child, parent) {
		return ErrCyclicTree
	}
	parent.SetSubEvents(append(parent.SubEvents(), child))
	return nil
}

// Contains reports whether target is root or one of its descendants.
func Contains(root, target Event) bool {
	if root == target {
		return true
	}
	for _, sub := range root.SubEvents() {
		if Contains(sub, target) {
			return true
		}
	}
	return false
}

// Walk visits every event of the trees in pre-order, depth-first.
// The visitor returning false prunes the subtree.
func Walk(events []Event, visit func(Event) bool) {
	for _, ev := range events {
		if !visit(ev) {
			continue
		}
		Walk(ev.SubEvents(), visit)
	}
}

// TreeExpressions returns every expression reachable from the trees,
// recursing into sub-events. Used for global rewrite passes such as
// renaming a referenced object across a whole document.
func TreeExpressions(events []Event) []*expr.Expression {
	var out []*expr.Expression
	Walk(events, func(ev Event) bool {
		out = append(out, ev.AllExpressions()...)
		return true
	})
	return out
}
