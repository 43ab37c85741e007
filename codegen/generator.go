// Package codegen walks a preprocessed event tree depth-first and emits
// runtime script code. Generation is best-effort: unknown instruction or
// event type ids degrade to diagnostics, never abort the compile.
package codegen

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/evsheet/go-evsheet/diag"
	"github.com/evsheet/go-evsheet/eventtree"
	"github.com/evsheet/go-evsheet/expr"
	"github.com/evsheet/go-evsheet/registry"
)

// Options configures a Generator.
type Options struct {
	// Registry resolves instruction metadata by id. Required.
	Registry registry.Registry

	// Logger receives per-compile structured logs. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger
}

// Generator produces runtime script code from event trees. A Generator is
// stateless across compiles; per-compile state lives in Context.
type Generator struct {
	reg registry.Registry
	log zerolog.Logger
}

// New creates a generator.
func New(opts Options) *Generator {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Generator{reg: opts.Registry, log: log}
}

// Result is the output of one compile.
type Result struct {
	// CompileID tags this compile's diagnostics and logs.
	CompileID string

	// Code is the best-effort generated program for the whole tree.
	Code string

	// Diagnostics lists the ids and expressions that could not be
	// resolved. The caller decides whether they are acceptable.
	Diagnostics []diag.Diagnostic
}

// Generate compiles the top-level event list. The tree must already be
// preprocessed and must not be mutated while the compile runs.
func (g *Generator) Generate(events []eventtree.Event) Result {
	compileID := uuid.New().String()
	var b strings.Builder
	var diags diag.List

	ctx := NewContext()
	g.generateList(&b, events, ctx, &diags)

	g.log.Info().
		Str("compile_id", compileID).
		Int("diagnostics", diags.Len()).
		Msg("compile finished")

	return Result{
		CompileID:   compileID,
		Code:        b.String(),
		Diagnostics: diags.Items(),
	}
}

// generateList emits the events of one list in document order. Disabled
// and non-executable nodes are skipped here, wholesale: neither their
// code nor their subtrees nor any context mutation happens. The variants
// are not trusted to self-enforce this.
func (g *Generator) generateList(b *strings.Builder, events []eventtree.Event, ctx *Context, diags *diag.List) {
	for _, ev := range events {
		if ev.Disabled() || !ev.IsExecutable() {
			continue
		}
		g.generateEvent(b, ev, ctx, diags)
	}
}

func (g *Generator) generateEvent(b *strings.Builder, ev eventtree.Event, ctx *Context, diags *diag.List) {
	switch e := ev.(type) {
	case *eventtree.StandardEvent:
		g.generateStandard(b, e, ctx, diags)
	case *eventtree.GroupEvent:
		// Organizational only: children compile as if inlined, each in
		// its own scope.
		g.generateSubEvents(b, e.Subs, ctx, diags)
	case *eventtree.RepeatEvent:
		g.generateRepeat(b, e, ctx, diags)
	case *eventtree.WhileEvent:
		g.generateWhile(b, e, ctx, diags)
	case *eventtree.ForEachEvent:
		g.generateForEach(b, e, ctx, diags)
	case *eventtree.CodeEvent:
		g.generateCode(b, e, ctx, diags)
	default:
		diags.Add(diag.Diagnostic{
			Code:      diag.UnresolvedEventTypeID,
			Message:   "no code generation for event type",
			EventType: ev.Type(),
		})
		g.log.Warn().Str("event_type", ev.Type()).Msg("skipping unknown event type")
	}
}

func (g *Generator) generateStandard(b *strings.Builder, e *eventtree.StandardEvent, ctx *Context, diags *diag.List) {
	guard := g.generateConditions(b, e.Conditions, e.Type(), ctx, diags)
	g.openGuard(b, guard, ctx)
	inner := ctx.Child()
	g.generateActions(b, e.Actions, e.Type(), inner, diags)
	g.generateSubEvents(b, e.Subs, inner, diags)
	g.closeBlock(b, ctx)
}

func (g *Generator) generateRepeat(b *strings.Builder, e *eventtree.RepeatEvent, ctx *Context, diags *diag.List) {
	countCode, ok := g.parameterCode(e.Count, e.Type(), "", diags)
	if !ok {
		return
	}
	countVar := ctx.FreshVar("repeatCount")
	indexVar := ctx.FreshVar("repeatIndex")
	g.writeLine(b, ctx, "let "+countVar+" = "+countCode+";")
	g.writeLine(b, ctx, "for (let "+indexVar+" = 0; "+indexVar+" < "+countVar+"; "+indexVar+"++) {")

	loop := ctx.Child()
	guard := g.generateConditions(b, e.Conditions, e.Type(), loop, diags)
	g.openGuard(b, guard, loop)
	inner := loop.Child()
	g.generateActions(b, e.Actions, e.Type(), inner, diags)
	g.generateSubEvents(b, e.Subs, inner, diags)
	g.closeBlock(b, loop)
	g.closeBlock(b, ctx)
}

func (g *Generator) generateWhile(b *strings.Builder, e *eventtree.WhileEvent, ctx *Context, diags *diag.List) {
	// While-conditions are re-evaluated each iteration, so their
	// temporaries live inside the loop body.
	g.writeLine(b, ctx, "while (true) {")
	loop := ctx.Child()
	whileGuard := g.generateConditions(b, e.WhileConditions, e.Type(), loop, diags)
	g.writeLine(b, loop, "if (!("+whileGuard+")) { break; }")

	guard := g.generateConditions(b, e.Conditions, e.Type(), loop, diags)
	g.openGuard(b, guard, loop)
	inner := loop.Child()
	g.generateActions(b, e.Actions, e.Type(), inner, diags)
	g.generateSubEvents(b, e.Subs, inner, diags)
	g.closeBlock(b, loop)
	g.closeBlock(b, ctx)
}

func (g *Generator) generateForEach(b *strings.Builder, e *eventtree.ForEachEvent, ctx *Context, diags *diag.List) {
	objCode, ok := g.parameterCode(e.Object, e.Type(), "", diags)
	if !ok {
		return
	}

	// An enclosing scope may already hold a binding for this object
	// list; re-declaring it would shadow the picked instance.
	objVar, declared := ctx.Declared(objCode)
	if declared {
		g.writeLine(b, ctx, "for ("+objVar+" of runtime.objects("+objCode+")) {")
	} else {
		objVar = ctx.FreshVar("obj")
		g.writeLine(b, ctx, "for (let "+objVar+" of runtime.objects("+objCode+")) {")
	}

	loop := ctx.Child()
	if !declared {
		loop.Declare(objCode, objVar)
	}
	guard := g.generateConditions(b, e.Conditions, e.Type(), loop, diags)
	g.openGuard(b, guard, loop)
	inner := loop.Child()
	g.generateActions(b, e.Actions, e.Type(), inner, diags)
	g.generateSubEvents(b, e.Subs, inner, diags)
	g.closeBlock(b, loop)
	g.closeBlock(b, ctx)
}

func (g *Generator) generateCode(b *strings.Builder, e *eventtree.CodeEvent, ctx *Context, diags *diag.List) {
	guard := g.generateConditions(b, e.Conditions, e.Type(), ctx, diags)
	g.openGuard(b, guard, ctx)
	inner := ctx.Child()
	for _, line := range strings.Split(strings.TrimRight(e.Code, "\n"), "\n") {
		g.writeLine(b, inner, line)
	}
	g.closeBlock(b, ctx)
}

// generateConditions emits one boolean temporary per resolvable condition
// and returns the combined guard expression. Inversion wraps the single
// condition before the AND combination. An empty or fully unresolvable
// list yields "true": unconditional execution.
func (g *Generator) generateConditions(b *strings.Builder, conditions []*eventtree.Instruction, eventType string, ctx *Context, diags *diag.List) string {
	var names []string
	for _, ins := range conditions {
		def, ok := g.reg.Instruction(ins.TypeID)
		if !ok || def.Kind != registry.KindCondition {
			diags.Add(diag.Diagnostic{
				Code:          diag.UnresolvedInstructionID,
				Message:       "unknown condition",
				EventType:     eventType,
				InstructionID: ins.TypeID,
			})
			continue
		}

		params, ok := g.parameterList(ins, eventType, diags)
		if !ok {
			continue
		}
		code, err := def.Expand(params)
		if err != nil {
			diags.Add(diag.Diagnostic{
				Code:          diag.UnresolvedInstructionID,
				Message:       err.Error(),
				EventType:     eventType,
				InstructionID: ins.TypeID,
			})
			continue
		}

		name := ctx.FreshVar("cond")
		if ins.Inverted {
			g.writeLine(b, ctx, "let "+name+" = !("+code+");")
		} else {
			g.writeLine(b, ctx, "let "+name+" = "+code+";")
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return "true"
	}
	return strings.Join(names, " && ")
}

func (g *Generator) generateActions(b *strings.Builder, actions []*eventtree.Instruction, eventType string, ctx *Context, diags *diag.List) {
	for _, ins := range actions {
		def, ok := g.reg.Instruction(ins.TypeID)
		if !ok || def.Kind != registry.KindAction {
			diags.Add(diag.Diagnostic{
				Code:          diag.UnresolvedInstructionID,
				Message:       "unknown action",
				EventType:     eventType,
				InstructionID: ins.TypeID,
			})
			continue
		}

		params, ok := g.parameterList(ins, eventType, diags)
		if !ok {
			continue
		}
		code, err := def.Expand(params)
		if err != nil {
			diags.Add(diag.Diagnostic{
				Code:          diag.UnresolvedInstructionID,
				Message:       err.Error(),
				EventType:     eventType,
				InstructionID: ins.TypeID,
			})
			continue
		}
		g.writeLine(b, ctx, code+";")
	}
}

// generateSubEvents recurses into children, each wrapped in its own
// nested scope so temporaries cannot collide across siblings.
func (g *Generator) generateSubEvents(b *strings.Builder, subs []eventtree.Event, ctx *Context, diags *diag.List) {
	for _, sub := range subs {
		if sub.Disabled() || !sub.IsExecutable() {
			continue
		}
		g.generateBlock(b, []eventtree.Event{sub}, ctx, diags)
	}
}

func (g *Generator) generateBlock(b *strings.Builder, events []eventtree.Event, ctx *Context, diags *diag.List) {
	g.writeLine(b, ctx, "{")
	g.generateList(b, events, ctx.Child(), diags)
	g.writeLine(b, ctx, "}")
}

// parameterList renders every parameter of an instruction, reporting the
// first parse failure and skipping the whole instruction.
func (g *Generator) parameterList(ins *eventtree.Instruction, eventType string, diags *diag.List) ([]string, bool) {
	params := make([]string, 0, len(ins.Parameters))
	for _, p := range ins.Parameters {
		code, ok := g.parameterCode(p, eventType, ins.TypeID, diags)
		if !ok {
			return nil, false
		}
		params = append(params, code)
	}
	return params, true
}

// parameterCode parses one expression, folds its constant subtrees and
// renders it as code.
func (g *Generator) parameterCode(e *expr.Expression, eventType, instructionID string, diags *diag.List) (string, bool) {
	node, err := e.Parse()
	if err != nil {
		diags.Add(diag.Diagnostic{
			Code:          diag.ExpressionParseFailure,
			Message:       err.Error(),
			EventType:     eventType,
			InstructionID: instructionID,
		})
		return "", false
	}
	return expr.Fold(node).String(), true
}

func (g *Generator) openGuard(b *strings.Builder, guard string, ctx *Context) {
	if guard == "true" {
		g.writeLine(b, ctx, "{")
		return
	}
	g.writeLine(b, ctx, "if ("+guard+") {")
}

func (g *Generator) closeBlock(b *strings.Builder, ctx *Context) {
	g.writeLine(b, ctx, "}")
}

func (g *Generator) writeLine(b *strings.Builder, ctx *Context, line string) {
	for i := 0; i < ctx.Depth(); i++ {
		b.WriteString("  ")
	}
	b.WriteString(line)
	b.WriteString("\n")
}
