package eventtree

import "errors"

var (
	ErrNotContainer = errors.New("eventtree: event cannot have sub-events")
	ErrCyclicTree   = errors.New("eventtree: insertion would make a node its own descendant")
)
