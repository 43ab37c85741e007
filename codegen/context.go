package codegen

import "fmt"

// Context is the per-scope generation state: a shared uniqueness counter
// for temporary names, the nesting depth, and the object bindings already
// declared and reachable at this scope. Child contexts see their parents'
// declarations but never leak their own upward, so temporaries cannot
// collide across sibling or ancestor scopes.
type Context struct {
	parent   *Context
	depth    int
	counter  *int
	declared map[string]string
}

// NewContext creates the root context of one compile.
func NewContext() *Context {
	counter := 0
	return &Context{
		counter:  &counter,
		declared: make(map[string]string),
	}
}

// Child opens a nested scope. The uniqueness counter is shared with the
// whole compile; declarations are scoped.
func (c *Context) Child() *Context {
	return &Context{
		parent:   c,
		depth:    c.depth + 1,
		counter:  c.counter,
		declared: make(map[string]string),
	}
}

// Depth returns the nesting depth, zero at the root.
func (c *Context) Depth() int { return c.depth }

// FreshVar returns a compile-unique temporary name with the given prefix.
func (c *Context) FreshVar(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, *c.counter)
	*c.counter++
	return name
}

// Declare binds a runtime object key to the variable holding it in this
// scope.
func (c *Context) Declare(key, varName string) {
	c.declared[key] = varName
}

// Declared looks the key up through this scope and its ancestors.
// Nested events reuse the binding instead of re-declaring it.
func (c *Context) Declared(key string) (string, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.declared[key]; ok {
			return v, true
		}
	}
	return "", false
}
