package eventtree

import "testing"

func TestArenaRegisterIsIdempotent(t *testing.T) {
	arena := NewArena()
	ev := NewStandardEvent()

	h1 := arena.Register(ev)
	h2 := arena.Register(ev)
	if h1 != h2 {
		t.Errorf("registering twice returned different handles: %v, %v", h1, h2)
	}
	if arena.Len() != 1 {
		t.Errorf("arena length = %d, want 1", arena.Len())
	}
}

func TestArenaResolveAfterRelease(t *testing.T) {
	arena := NewArena()
	ev := NewStandardEvent()
	h := arena.Register(ev)

	if got, ok := arena.Resolve(h); !ok || got != ev {
		t.Fatalf("Resolve before release = (%v, %v), want the event", got, ok)
	}

	arena.Release(ev)
	if _, ok := arena.Resolve(h); ok {
		t.Error("handle resolved after release")
	}
}

func TestArenaSlotReuseInvalidatesOldHandles(t *testing.T) {
	arena := NewArena()
	first := NewStandardEvent()
	stale := arena.Register(first)
	arena.Release(first)

	// The freed slot is reused with a bumped generation.
	second := NewCommentEvent("new tenant")
	fresh := arena.Register(second)

	if _, ok := arena.Resolve(stale); ok {
		t.Error("stale handle resolved to the slot's new tenant")
	}
	if got, ok := arena.Resolve(fresh); !ok || got != second {
		t.Errorf("fresh handle = (%v, %v), want the new event", got, ok)
	}
}

func TestArenaZeroHandle(t *testing.T) {
	arena := NewArena()
	if _, ok := arena.Resolve(Handle{}); ok {
		t.Error("zero handle should resolve to absent")
	}
}

func TestCloneRememberingOriginal(t *testing.T) {
	arena := NewArena()
	src := NewStandardEvent()
	src.Actions = []*Instruction{NewInstruction("set", "x", "1")}

	clone := arena.CloneRememberingOriginal(src)
	if clone == src {
		t.Fatal("clone is the source itself")
	}

	orig, ok := arena.Original(clone)
	if !ok || orig != src {
		t.Fatalf("Original = (%v, %v), want the source event", orig, ok)
	}

	// Removing the source leaves the clone with an absent reference,
	// never a dangling one.
	arena.Release(src)
	if _, ok := arena.Original(clone); ok {
		t.Error("back-reference resolved after the source was released")
	}
}

func TestOriginalOfPlainEvent(t *testing.T) {
	arena := NewArena()
	if _, ok := arena.Original(NewStandardEvent()); ok {
		t.Error("plain event should have no original")
	}
}
