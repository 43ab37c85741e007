// Package layout supports the external editor: a pure per-variant sizing
// function and a side cache for rendered heights. The cache is keyed by
// node so the core model stays free of rendering state; the editor
// invalidates entries when it edits a node.
package layout

import (
	"strings"
	"sync"

	"github.com/evsheet/go-evsheet/eventtree"
)

// Measurer computes the rendered height of one event at a given width.
// It must be pure: no drawing, no mutation.
type Measurer func(ev eventtree.Event, width int) int

// HeightCache memoizes Measurer results keyed by (node, width).
type HeightCache struct {
	mu      sync.RWMutex
	measure Measurer
	heights map[heightKey]int
}

type heightKey struct {
	ev    eventtree.Event
	width int
}

// NewHeightCache creates a cache around the given measurer, defaulting
// to DefaultMeasurer.
func NewHeightCache(m Measurer) *HeightCache {
	if m == nil {
		m = DefaultMeasurer
	}
	return &HeightCache{
		measure: m,
		heights: make(map[heightKey]int),
	}
}

// RenderedHeight returns the cached height for ev at width, measuring on
// first use.
func (c *HeightCache) RenderedHeight(ev eventtree.Event, width int) int {
	key := heightKey{ev: ev, width: width}

	c.mu.RLock()
	h, ok := c.heights[key]
	c.mu.RUnlock()
	if ok {
		return h
	}

	h = c.measure(ev, width)
	c.mu.Lock()
	c.heights[key] = h
	c.mu.Unlock()
	return h
}

// Invalidate drops every cached height for ev, at any width. Called by
// the editor after modifying the node.
func (c *HeightCache) Invalidate(ev eventtree.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.heights {
		if key.ev == ev {
			delete(c.heights, key)
		}
	}
}

// InvalidateAll clears the cache, e.g. after a theme or zoom change.
func (c *HeightCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.heights = make(map[heightKey]int)
}

const lineHeight = 18

// DefaultMeasurer estimates heights from instruction and text line
// counts. It ignores width except for comments, which wrap.
func DefaultMeasurer(ev eventtree.Event, width int) int {
	switch e := ev.(type) {
	case *eventtree.CommentEvent:
		cols := width / 8
		if cols < 1 {
			cols = 1
		}
		lines := 0
		for _, line := range strings.Split(e.Text, "\n") {
			lines += len(line)/cols + 1
		}
		return lines * lineHeight

	case *eventtree.CodeEvent:
		return (strings.Count(e.Code, "\n") + 2) * lineHeight

	case *eventtree.LinkEvent, *eventtree.GroupEvent:
		return lineHeight

	default:
		rows := 0
		for _, list := range ev.ConditionLists() {
			rows += len(list.Items)
		}
		for _, list := range ev.ActionLists() {
			rows += len(list.Items)
		}
		if rows == 0 {
			rows = 1
		}
		return rows * lineHeight
	}
}
