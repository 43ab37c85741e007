package eventtree

// Handle is a generation-checked reference into an Arena. The zero Handle
// always resolves to absent. Handles never keep their target alive: after
// Release, Resolve reports absence instead of a dangling event.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the null handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

type arenaSlot struct {
	ev  Event
	gen uint32
}

// Arena registers the events of one document and hands out handles for
// non-owning back-references. It does not own the events; ownership stays
// with the tree.
type Arena struct {
	slots []arenaSlot
	free  []uint32
	byEv  map[Event]Handle
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{byEv: make(map[Event]Handle)}
}

// Register records ev and returns its handle. Registering the same event
// twice returns the same handle.
func (a *Arena) Register(ev Event) Handle {
	if h, ok := a.byEv[ev]; ok {
		return h
	}
	var h Handle
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].ev = ev
		a.slots[idx].gen++
		h = Handle{index: idx, gen: a.slots[idx].gen}
	} else {
		a.slots = append(a.slots, arenaSlot{ev: ev, gen: 1})
		h = Handle{index: uint32(len(a.slots) - 1), gen: 1}
	}
	a.byEv[ev] = h
	return h
}

// Release invalidates the handle for ev, typically when it is removed
// from its owning parent or the document is torn down. Existing handles
// to it resolve to absent from now on.
func (a *Arena) Release(ev Event) {
	h, ok := a.byEv[ev]
	if !ok {
		return
	}
	delete(a.byEv, ev)
	a.slots[h.index].ev = nil
	a.free = append(a.free, h.index)
}

// Resolve returns the event behind h while it is alive. After the target
// was released, or for the zero handle, it returns (nil, false).
func (a *Arena) Resolve(h Handle) (Event, bool) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	slot := a.slots[h.index]
	if slot.ev == nil || slot.gen != h.gen {
		return nil, false
	}
	return slot.ev, true
}

// Len returns the number of live registrations.
func (a *Arena) Len() int { return len(a.byEv) }

// CloneRememberingOriginal deep-clones ev and sets the clone's
// back-reference to ev's handle, registering ev if needed. Used when the
// same logical event is duplicated for profiling without mutating the
// edited tree.
func (a *Arena) CloneRememberingOriginal(ev Event) Event {
	h := a.Register(ev)
	clone := ev.Clone()
	clone.base().originalRef = h
	return clone
}

// Original resolves ev's back-reference. The second result is false when
// ev was not cloned from another event or the source is gone.
func (a *Arena) Original(ev Event) (Event, bool) {
	return a.Resolve(ev.base().OriginalRef())
}
