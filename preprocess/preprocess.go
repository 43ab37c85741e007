// Package preprocess rewrites an event tree before compilation: link
// events expand into the events of their target group and deprecated
// instruction ids are replaced. The pass is a single forward, pre-order
// walk; a node may only rewrite its own content or replace itself, never
// mutate its siblings. Running the pass twice is a no-op.
package preprocess

import (
	"github.com/rs/zerolog"

	"github.com/evsheet/go-evsheet/diag"
	"github.com/evsheet/go-evsheet/eventtree"
	"github.com/evsheet/go-evsheet/registry"
)

// maxExpansions bounds link expansion per run, so mutually linked groups
// terminate with a diagnostic instead of growing forever.
const maxExpansions = 10000

// Options configures a Preprocessor.
type Options struct {
	// Registry resolves deprecated instruction ids. Required.
	Registry registry.Registry

	// Logger receives structured logs. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Preprocessor runs the pre-compile rewrite pass.
type Preprocessor struct {
	reg registry.Registry
	log zerolog.Logger
}

// New creates a preprocessor.
func New(opts Options) *Preprocessor {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Preprocessor{reg: opts.Registry, log: log}
}

// Run preprocesses the document's top-level event list and returns the
// rewritten list. The input slice is not reused; instruction content is
// rewritten in place.
func (p *Preprocessor) Run(events []eventtree.Event) ([]eventtree.Event, []diag.Diagnostic) {
	run := &pass{reg: p.reg, log: p.log, diags: &diag.List{}, root: events}
	out := run.processList(events)
	p.log.Debug().
		Int("expansions", run.expansions).
		Int("diagnostics", run.diags.Len()).
		Msg("preprocess finished")
	return out, run.diags.Items()
}

type pass struct {
	reg        registry.Registry
	log        zerolog.Logger
	diags      *diag.List
	root       []eventtree.Event
	expansions int
}

// processList walks one sibling list in document order. Each node is
// handled before its following siblings, but link resolution sees the
// whole current list, so links may target later-declared groups.
func (p *pass) processList(list []eventtree.Event) []eventtree.Event {
	out := append([]eventtree.Event(nil), list...)
	for i := 0; i < len(out); i++ {
		if link, ok := out[i].(*eventtree.LinkEvent); ok {
			replacements := p.expandLink(link, out)
			out = append(out[:i:i], append(replacements, out[i+1:]...)...)
			// Inserted clones are processed next, so nested links and
			// deprecated ids inside the group are handled too.
			i--
			continue
		}

		p.rewriteInstructions(out[i])
		ev := out[i]
		if ev.CanHaveSubEvents() {
			ev.SetSubEvents(p.processList(ev.SubEvents()))
		}
	}
	return out
}

// expandLink returns deep clones of the target group's children, or
// nothing when the link is disabled or unresolved.
func (p *pass) expandLink(link *eventtree.LinkEvent, siblings []eventtree.Event) []eventtree.Event {
	if link.Disabled() {
		return nil
	}
	if p.expansions >= maxExpansions {
		p.diags.Addf(diag.UnresolvedLinkTarget,
			"link expansion limit reached at %q, likely mutually linked groups", link.Target)
		return nil
	}

	// Siblings first, then the document's top-level list, so a nested
	// link can target a root group.
	group := link.Resolve(siblings)
	if group == nil {
		group = link.Resolve(p.root)
	}
	if group == nil {
		p.diags.Add(diag.Diagnostic{
			Code:      diag.UnresolvedLinkTarget,
			Message:   "no group named " + link.Target,
			EventType: link.Type(),
		})
		p.log.Warn().Str("target", link.Target).Msg("dropping unresolved link")
		return nil
	}

	p.expansions++
	return eventtree.CloneEventList(group.SubEvents())
}

// rewriteInstructions replaces deprecated instruction ids in the node's
// own instruction lists. Renames are followed transitively, with a
// visited set so a rename cycle cannot loop.
func (p *pass) rewriteInstructions(ev eventtree.Event) {
	lists := append(ev.ConditionLists(), ev.ActionLists()...)
	for _, list := range lists {
		for _, ins := range list.Items {
			if id, ok := p.resolveRename(ins.TypeID); ok {
				p.log.Debug().Str("from", ins.TypeID).Str("to", id).Msg("rewriting deprecated instruction id")
				ins.TypeID = id
			}
		}
	}
}

func (p *pass) resolveRename(id string) (string, bool) {
	seen := map[string]bool{id: true}
	current, renamed := id, false
	for {
		next, ok := p.reg.Renamed(current)
		if !ok || seen[next] {
			return current, renamed
		}
		seen[next] = true
		current = next
		renamed = true
	}
}
