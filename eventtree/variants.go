package eventtree

import "github.com/evsheet/go-evsheet/expr"

// cloneBase copies the shared state for a deep clone. The back-reference
// is cleared: a plain clone does not remember its source.
func (b *BaseEvent) cloneBase() BaseEvent {
	return BaseEvent{
		disabled:  b.disabled,
		Folded:    b.Folded,
		totalTime: b.totalTime,
		percent:   b.percent,
	}
}

// StandardEvent is the plain condition/action event: when every condition
// holds, actions run in order, then sub-events.
type StandardEvent struct {
	BaseEvent
	Conditions []*Instruction
	Actions    []*Instruction
	Subs       []Event
}

// NewStandardEvent creates an empty standard event.
func NewStandardEvent() *StandardEvent { return &StandardEvent{} }

func (e *StandardEvent) Type() string              { return TypeStandard }
func (e *StandardEvent) IsExecutable() bool        { return true }
func (e *StandardEvent) CanHaveSubEvents() bool    { return true }
func (e *StandardEvent) SubEvents() []Event        { return e.Subs }
func (e *StandardEvent) SetSubEvents(subs []Event) { e.Subs = subs }

func (e *StandardEvent) ConditionLists() []*InstructionList {
	return []*InstructionList{{Name: "conditions", Items: e.Conditions}}
}

func (e *StandardEvent) ActionLists() []*InstructionList {
	return []*InstructionList{{Name: "actions", Items: e.Actions}}
}

func (e *StandardEvent) AllExpressions() []*expr.Expression {
	out := instructionExpressions(e.Conditions)
	return append(out, instructionExpressions(e.Actions)...)
}

func (e *StandardEvent) Clone() Event {
	return &StandardEvent{
		BaseEvent:  e.cloneBase(),
		Conditions: cloneInstructions(e.Conditions),
		Actions:    cloneInstructions(e.Actions),
		Subs:       CloneEventList(e.Subs),
	}
}

// GroupEvent is a named organizational container. It carries no
// instructions of its own; its sub-events compile as if inlined. Groups
// are also the expansion targets of LinkEvent.
type GroupEvent struct {
	BaseEvent
	Name string
	Subs []Event
}

// NewGroupEvent creates an empty group with the given name.
func NewGroupEvent(name string) *GroupEvent { return &GroupEvent{Name: name} }

func (e *GroupEvent) Type() string              { return TypeGroup }
func (e *GroupEvent) IsExecutable() bool        { return true }
func (e *GroupEvent) CanHaveSubEvents() bool    { return true }
func (e *GroupEvent) SubEvents() []Event        { return e.Subs }
func (e *GroupEvent) SetSubEvents(subs []Event) { e.Subs = subs }

func (e *GroupEvent) ConditionLists() []*InstructionList { return nil }
func (e *GroupEvent) ActionLists() []*InstructionList    { return nil }
func (e *GroupEvent) AllExpressions() []*expr.Expression { return nil }

func (e *GroupEvent) Clone() Event {
	return &GroupEvent{
		BaseEvent: e.cloneBase(),
		Name:      e.Name,
		Subs:      CloneEventList(e.Subs),
	}
}

// RepeatEvent runs its guarded block a fixed number of times. The count
// is an expression evaluated once, before the first iteration.
type RepeatEvent struct {
	BaseEvent
	Count      *expr.Expression
	Conditions []*Instruction
	Actions    []*Instruction
	Subs       []Event
}

// NewRepeatEvent creates a repeat event with the given count expression.
func NewRepeatEvent(count string) *RepeatEvent {
	return &RepeatEvent{Count: expr.New(count)}
}

func (e *RepeatEvent) Type() string              { return TypeRepeat }
func (e *RepeatEvent) IsExecutable() bool        { return true }
func (e *RepeatEvent) CanHaveSubEvents() bool    { return true }
func (e *RepeatEvent) SubEvents() []Event        { return e.Subs }
func (e *RepeatEvent) SetSubEvents(subs []Event) { e.Subs = subs }

func (e *RepeatEvent) ConditionLists() []*InstructionList {
	return []*InstructionList{{Name: "conditions", Items: e.Conditions}}
}

func (e *RepeatEvent) ActionLists() []*InstructionList {
	return []*InstructionList{{Name: "actions", Items: e.Actions}}
}

func (e *RepeatEvent) AllExpressions() []*expr.Expression {
	out := []*expr.Expression{e.Count}
	out = append(out, instructionExpressions(e.Conditions)...)
	return append(out, instructionExpressions(e.Actions)...)
}

func (e *RepeatEvent) Clone() Event {
	return &RepeatEvent{
		BaseEvent:  e.cloneBase(),
		Count:      e.Count.Clone(),
		Conditions: cloneInstructions(e.Conditions),
		Actions:    cloneInstructions(e.Actions),
		Subs:       CloneEventList(e.Subs),
	}
}

// WhileEvent repeats its guarded block while the while-conditions hold.
// The regular conditions are re-evaluated inside every iteration.
type WhileEvent struct {
	BaseEvent
	WhileConditions []*Instruction
	Conditions      []*Instruction
	Actions         []*Instruction
	Subs            []Event
}

// NewWhileEvent creates an empty while event.
func NewWhileEvent() *WhileEvent { return &WhileEvent{} }

func (e *WhileEvent) Type() string              { return TypeWhile }
func (e *WhileEvent) IsExecutable() bool        { return true }
func (e *WhileEvent) CanHaveSubEvents() bool    { return true }
func (e *WhileEvent) SubEvents() []Event        { return e.Subs }
func (e *WhileEvent) SetSubEvents(subs []Event) { e.Subs = subs }

func (e *WhileEvent) ConditionLists() []*InstructionList {
	return []*InstructionList{
		{Name: "whileConditions", Items: e.WhileConditions},
		{Name: "conditions", Items: e.Conditions},
	}
}

func (e *WhileEvent) ActionLists() []*InstructionList {
	return []*InstructionList{{Name: "actions", Items: e.Actions}}
}

func (e *WhileEvent) AllExpressions() []*expr.Expression {
	out := instructionExpressions(e.WhileConditions)
	out = append(out, instructionExpressions(e.Conditions)...)
	return append(out, instructionExpressions(e.Actions)...)
}

func (e *WhileEvent) Clone() Event {
	return &WhileEvent{
		BaseEvent:       e.cloneBase(),
		WhileConditions: cloneInstructions(e.WhileConditions),
		Conditions:      cloneInstructions(e.Conditions),
		Actions:         cloneInstructions(e.Actions),
		Subs:            CloneEventList(e.Subs),
	}
}

// ForEachEvent runs its guarded block once per object named by the
// object expression.
type ForEachEvent struct {
	BaseEvent
	Object     *expr.Expression
	Conditions []*Instruction
	Actions    []*Instruction
	Subs       []Event
}

// NewForEachEvent creates a for-each event over the given object expression.
func NewForEachEvent(object string) *ForEachEvent {
	return &ForEachEvent{Object: expr.New(object)}
}

func (e *ForEachEvent) Type() string              { return TypeForEach }
func (e *ForEachEvent) IsExecutable() bool        { return true }
func (e *ForEachEvent) CanHaveSubEvents() bool    { return true }
func (e *ForEachEvent) SubEvents() []Event        { return e.Subs }
func (e *ForEachEvent) SetSubEvents(subs []Event) { e.Subs = subs }

func (e *ForEachEvent) ConditionLists() []*InstructionList {
	return []*InstructionList{{Name: "conditions", Items: e.Conditions}}
}

func (e *ForEachEvent) ActionLists() []*InstructionList {
	return []*InstructionList{{Name: "actions", Items: e.Actions}}
}

func (e *ForEachEvent) AllExpressions() []*expr.Expression {
	out := []*expr.Expression{e.Object}
	out = append(out, instructionExpressions(e.Conditions)...)
	return append(out, instructionExpressions(e.Actions)...)
}

func (e *ForEachEvent) Clone() Event {
	return &ForEachEvent{
		BaseEvent:  e.cloneBase(),
		Object:     e.Object.Clone(),
		Conditions: cloneInstructions(e.Conditions),
		Actions:    cloneInstructions(e.Actions),
		Subs:       CloneEventList(e.Subs),
	}
}

// CommentEvent is documentation in the sheet. Never executable, never
// emits code, regardless of the disabled flag.
type CommentEvent struct {
	BaseEvent
	Text string
}

// NewCommentEvent creates a comment with the given text.
func NewCommentEvent(text string) *CommentEvent { return &CommentEvent{Text: text} }

func (e *CommentEvent) Type() string              { return TypeComment }
func (e *CommentEvent) IsExecutable() bool        { return false }
func (e *CommentEvent) CanHaveSubEvents() bool    { return false }
func (e *CommentEvent) SubEvents() []Event        { return nil }
func (e *CommentEvent) SetSubEvents(subs []Event) {}

func (e *CommentEvent) ConditionLists() []*InstructionList { return nil }
func (e *CommentEvent) ActionLists() []*InstructionList    { return nil }
func (e *CommentEvent) AllExpressions() []*expr.Expression { return nil }

func (e *CommentEvent) Clone() Event {
	return &CommentEvent{BaseEvent: e.cloneBase(), Text: e.Text}
}

// CodeEvent pastes raw backend code into the output, guarded by its own
// condition list.
type CodeEvent struct {
	BaseEvent
	Code       string
	Conditions []*Instruction
}

// NewCodeEvent creates an inline-code event.
func NewCodeEvent(code string) *CodeEvent { return &CodeEvent{Code: code} }

func (e *CodeEvent) Type() string              { return TypeCode }
func (e *CodeEvent) IsExecutable() bool        { return true }
func (e *CodeEvent) CanHaveSubEvents() bool    { return false }
func (e *CodeEvent) SubEvents() []Event        { return nil }
func (e *CodeEvent) SetSubEvents(subs []Event) {}

func (e *CodeEvent) ConditionLists() []*InstructionList {
	return []*InstructionList{{Name: "conditions", Items: e.Conditions}}
}

func (e *CodeEvent) ActionLists() []*InstructionList { return nil }

func (e *CodeEvent) AllExpressions() []*expr.Expression {
	return instructionExpressions(e.Conditions)
}

func (e *CodeEvent) Clone() Event {
	return &CodeEvent{
		BaseEvent:  e.cloneBase(),
		Code:       e.Code,
		Conditions: cloneInstructions(e.Conditions),
	}
}

// LinkEvent is a pseudo-event referencing a GroupEvent by name. The
// preprocessor replaces it with clones of the group's children; an
// unexpanded link contributes no code.
type LinkEvent struct {
	BaseEvent
	Target string
}

// NewLinkEvent creates a link to the named group.
func NewLinkEvent(target string) *LinkEvent { return &LinkEvent{Target: target} }

func (e *LinkEvent) Type() string              { return TypeLink }
func (e *LinkEvent) IsExecutable() bool        { return false }
func (e *LinkEvent) CanHaveSubEvents() bool    { return false }
func (e *LinkEvent) SubEvents() []Event        { return nil }
func (e *LinkEvent) SetSubEvents(subs []Event) {}

func (e *LinkEvent) ConditionLists() []*InstructionList { return nil }
func (e *LinkEvent) ActionLists() []*InstructionList    { return nil }
func (e *LinkEvent) AllExpressions() []*expr.Expression { return nil }

func (e *LinkEvent) Clone() Event {
	return &LinkEvent{BaseEvent: e.cloneBase(), Target: e.Target}
}

// Resolve finds the group this link targets among the given events.
// Later-declared siblings are visible. Returns nil when absent.
func (e *LinkEvent) Resolve(events []Event) *GroupEvent {
	for _, ev := range events {
		if g, ok := ev.(*GroupEvent); ok && g.Name == e.Target {
			return g
		}
	}
	return nil
}
