package eventtree

// CloneEventList deep-clones a slice of events. The result shares no
// state with the input.
func CloneEventList(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	for i, ev := range events {
		out[i] = ev.Clone()
	}
	return out
}
