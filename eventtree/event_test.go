package eventtree

import (
	"testing"
)

func TestAddSubEventRejectsCycles(t *testing.T) {
	parent := NewStandardEvent()
	child := NewStandardEvent()

	if err := AddSubEvent(parent, child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := AddSubEvent(child, parent); err != ErrCyclicTree {
		t.Errorf("got %v, want ErrCyclicTree", err)
	}
	if err := AddSubEvent(parent, parent); err != ErrCyclicTree {
		t.Errorf("self-insert: got %v, want ErrCyclicTree", err)
	}
}

func TestAddSubEventRejectsNonContainers(t *testing.T) {
	comment := NewCommentEvent("note")
	if err := AddSubEvent(comment, NewStandardEvent()); err != ErrNotContainer {
		t.Errorf("got %v, want ErrNotContainer", err)
	}
}

func TestWalkOrderAndPrune(t *testing.T) {
	//  group
	//    a
	//      b
	//    c
	a := NewStandardEvent()
	b := NewStandardEvent()
	c := NewCommentEvent("c")
	a.Subs = []Event{b}
	group := NewGroupEvent("g")
	group.Subs = []Event{a, c}

	var order []Event
	Walk([]Event{group}, func(ev Event) bool {
		order = append(order, ev)
		return true
	})
	want := []Event{group, a, b, c}
	if len(order) != len(want) {
		t.Fatalf("visited %d events, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("visit %d: got %v, want %v", i, order[i].Type(), want[i].Type())
		}
	}

	// Pruning at a skips b but not c.
	var pruned []Event
	Walk([]Event{group}, func(ev Event) bool {
		pruned = append(pruned, ev)
		return ev != a
	})
	if len(pruned) != 3 {
		t.Errorf("pruned walk visited %d events, want 3", len(pruned))
	}
}

func TestCloneIsDeepAndIndependent(t *testing.T) {
	ev := NewStandardEvent()
	ev.SetDisabled(true)
	ev.Folded = true
	ev.Conditions = []*Instruction{NewInstruction("cmp", "x > 1")}
	ev.Actions = []*Instruction{NewInstruction("set", "x", "0")}
	sub := NewCommentEvent("doc")
	ev.Subs = []Event{sub}

	clone := ev.Clone().(*StandardEvent)

	if !clone.Disabled() || !clone.Folded {
		t.Error("clone should carry disabled and folded flags")
	}
	if clone.Subs[0] == sub {
		t.Error("clone shares a sub-event with its source")
	}
	if clone.Conditions[0] == ev.Conditions[0] {
		t.Error("clone shares an instruction with its source")
	}

	// Mutating the clone must not leak into the source.
	clone.Conditions[0].TypeID = "other"
	clone.Conditions[0].Parameters[0].SetRaw("y")
	clone.Subs[0].(*CommentEvent).Text = "changed"

	if ev.Conditions[0].TypeID != "cmp" {
		t.Error("instruction id mutation leaked into source")
	}
	if ev.Conditions[0].Parameters[0].Raw() != "x > 1" {
		t.Error("parameter mutation leaked into source")
	}
	if sub.Text != "doc" {
		t.Error("sub-event mutation leaked into source")
	}
}

func TestCloneClearsBackReference(t *testing.T) {
	arena := NewArena()
	src := NewStandardEvent()

	remembered := arena.CloneRememberingOriginal(src)
	plain := remembered.Clone()

	if plain.base().OriginalRef() != (Handle{}) {
		t.Error("plain clone should not inherit the back-reference")
	}
	if remembered.base().OriginalRef().IsZero() {
		t.Error("remembering clone lost its back-reference")
	}
}

func TestWhileEventConditionLists(t *testing.T) {
	ev := NewWhileEvent()
	ev.WhileConditions = []*Instruction{NewInstruction("alive")}
	ev.Conditions = []*Instruction{NewInstruction("visible")}

	lists := ev.ConditionLists()
	if len(lists) != 2 {
		t.Fatalf("got %d condition lists, want 2", len(lists))
	}
	if lists[0].Name != "whileConditions" || lists[1].Name != "conditions" {
		t.Errorf("unexpected list order: %s, %s", lists[0].Name, lists[1].Name)
	}
}

func TestTreeExpressionsRecurses(t *testing.T) {
	repeat := NewRepeatEvent("3 + 1")
	inner := NewStandardEvent()
	inner.Actions = []*Instruction{NewInstruction("set", "score", "score + 1")}
	repeat.Subs = []Event{inner}

	exprs := TreeExpressions([]Event{repeat})
	// count expression plus two action parameters
	if len(exprs) != 3 {
		t.Fatalf("got %d expressions, want 3", len(exprs))
	}
}

func TestLinkResolveSeesLaterSiblings(t *testing.T) {
	link := NewLinkEvent("shared")
	group := NewGroupEvent("shared")
	siblings := []Event{link, NewCommentEvent("x"), group}

	if got := link.Resolve(siblings); got != group {
		t.Errorf("got %v, want the later-declared group", got)
	}
	if got := link.Resolve(siblings[:2]); got != nil {
		t.Errorf("expected nil for absent group, got %v", got)
	}
}
