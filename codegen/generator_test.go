package codegen

import (
	"strings"
	"testing"

	"github.com/evsheet/go-evsheet/diag"
	"github.com/evsheet/go-evsheet/eventtree"
	"github.com/evsheet/go-evsheet/registry"
)

func testRegistry() *registry.MapRegistry {
	reg := registry.NewMapRegistry()
	reg.Add(registry.InstructionDef{
		ID: "KeyPressed", Kind: registry.KindCondition, Arity: 1,
		Template: "runtime.keyPressed({{index .Params 0}})",
	})
	reg.Add(registry.InstructionDef{
		ID: "Collides", Kind: registry.KindCondition, Arity: 2,
		Template: "runtime.collides({{index .Params 0}}, {{index .Params 1}})",
	})
	reg.Add(registry.InstructionDef{
		ID: "SetVariable", Kind: registry.KindAction, Arity: 2,
		Template: "runtime.setVariable({{index .Params 0}}, {{index .Params 1}})",
	})
	reg.Add(registry.InstructionDef{
		ID: "PlaySound", Kind: registry.KindAction, Arity: 1,
		Template: "runtime.playSound({{index .Params 0}})",
	})
	return reg
}

func generate(t *testing.T, events []eventtree.Event) Result {
	t.Helper()
	return New(Options{Registry: testRegistry()}).Generate(events)
}

func TestGenerateStandardEvent(t *testing.T) {
	ev := eventtree.NewStandardEvent()
	ev.Conditions = []*eventtree.Instruction{
		eventtree.NewInstruction("KeyPressed", `"Space"`),
	}
	ev.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"jump"`),
	}

	result := generate(t, []eventtree.Event{ev})
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if result.CompileID == "" {
		t.Error("missing compile id")
	}

	code := result.Code
	for _, want := range []string{
		`let cond0 = runtime.keyPressed("Space");`,
		"if (cond0) {",
		`runtime.playSound("jump");`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code missing %q:\n%s", want, code)
		}
	}
}

func TestConditionsCombineWithAnd(t *testing.T) {
	ev := eventtree.NewStandardEvent()
	ev.Conditions = []*eventtree.Instruction{
		eventtree.NewInstruction("KeyPressed", `"Space"`),
		eventtree.NewInstruction("Collides", "player", "wall"),
	}

	result := generate(t, []eventtree.Event{ev})
	if !strings.Contains(result.Code, "if (cond0 && cond1) {") {
		t.Errorf("conditions not AND-combined:\n%s", result.Code)
	}
}

func TestInvertedConditionWrapsBeforeCombining(t *testing.T) {
	inverted := eventtree.NewInstruction("KeyPressed", `"Space"`)
	inverted.Inverted = true
	ev := eventtree.NewStandardEvent()
	ev.Conditions = []*eventtree.Instruction{inverted}

	result := generate(t, []eventtree.Event{ev})
	if !strings.Contains(result.Code, `let cond0 = !(runtime.keyPressed("Space"));`) {
		t.Errorf("inversion should wrap the single condition:\n%s", result.Code)
	}
}

func TestEmptyConditionsRunUnconditionally(t *testing.T) {
	ev := eventtree.NewStandardEvent()
	ev.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"tick"`),
	}

	result := generate(t, []eventtree.Event{ev})
	if strings.Contains(result.Code, "if (") {
		t.Errorf("no conditions should mean no guard:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, `runtime.playSound("tick");`) {
		t.Errorf("action missing:\n%s", result.Code)
	}
}

func TestDisabledSubtreeContributesNothing(t *testing.T) {
	disabled := eventtree.NewStandardEvent()
	disabled.SetDisabled(true)
	disabled.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"hidden"`),
	}
	child := eventtree.NewStandardEvent()
	child.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"nested"`),
	}
	disabled.Subs = []eventtree.Event{child}

	enabled := eventtree.NewStandardEvent()
	enabled.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"visible"`),
	}

	result := generate(t, []eventtree.Event{disabled, enabled})
	if strings.Contains(result.Code, "hidden") || strings.Contains(result.Code, "nested") {
		t.Errorf("disabled subtree leaked into output:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, "visible") {
		t.Errorf("enabled sibling missing:\n%s", result.Code)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("disabled events should not produce diagnostics: %v", result.Diagnostics)
	}
}

func TestUnknownInstructionDegrades(t *testing.T) {
	ev := eventtree.NewStandardEvent()
	ev.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("NoSuchAction"),
		eventtree.NewInstruction("PlaySound", `"still-works"`),
	}

	result := generate(t, []eventtree.Event{ev})
	if len(result.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(result.Diagnostics), result.Diagnostics)
	}
	d := result.Diagnostics[0]
	if d.Code != diag.UnresolvedInstructionID || d.InstructionID != "NoSuchAction" {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
	if !strings.Contains(result.Code, "still-works") {
		t.Errorf("sibling instruction should still compile:\n%s", result.Code)
	}
}

func TestExpressionParseFailureDegrades(t *testing.T) {
	ev := eventtree.NewStandardEvent()
	ev.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `1 +`),
	}

	result := generate(t, []eventtree.Event{ev})
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Code != diag.ExpressionParseFailure {
		t.Fatalf("got %v, want one ExpressionParseFailure", result.Diagnostics)
	}
}

func TestSubEventsNestInsideParentGuard(t *testing.T) {
	child := eventtree.NewStandardEvent()
	child.Conditions = []*eventtree.Instruction{
		eventtree.NewInstruction("Collides", "player", "coin"),
	}
	child.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("SetVariable", `"score"`, "(score + 1)"),
	}

	parent := eventtree.NewStandardEvent()
	parent.Conditions = []*eventtree.Instruction{
		eventtree.NewInstruction("KeyPressed", `"Space"`),
	}
	parent.Subs = []eventtree.Event{child}

	result := generate(t, []eventtree.Event{parent})
	code := result.Code

	parentGuard := strings.Index(code, "if (cond0) {")
	childCond := strings.Index(code, "runtime.collides(player, coin)")
	if parentGuard < 0 || childCond < 0 || childCond < parentGuard {
		t.Fatalf("child must compile inside the parent guard:\n%s", code)
	}

	// Sibling scopes restart naming; nested scopes never collide because
	// the counter is shared across the compile.
	if strings.Count(code, "let cond0 =") != 1 {
		t.Errorf("temporary names collide:\n%s", code)
	}
}

func TestGroupCompilesAsInlinedChildren(t *testing.T) {
	child := eventtree.NewStandardEvent()
	child.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"grouped"`),
	}
	group := eventtree.NewGroupEvent("sounds")
	group.Subs = []eventtree.Event{child}

	result := generate(t, []eventtree.Event{group})
	if !strings.Contains(result.Code, "grouped") {
		t.Errorf("group children missing:\n%s", result.Code)
	}
}

func TestGenerateRepeat(t *testing.T) {
	ev := eventtree.NewRepeatEvent("waveCount * 2")
	ev.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"spawn"`),
	}

	result := generate(t, []eventtree.Event{ev})
	code := result.Code
	for _, want := range []string{
		"let repeatCount0 = (waveCount * 2);",
		"for (let repeatIndex1 = 0; repeatIndex1 < repeatCount0; repeatIndex1++) {",
		`runtime.playSound("spawn");`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("missing %q:\n%s", want, code)
		}
	}
}

func TestGenerateWhileChecksGuardEachIteration(t *testing.T) {
	ev := eventtree.NewWhileEvent()
	ev.WhileConditions = []*eventtree.Instruction{
		eventtree.NewInstruction("KeyPressed", `"Down"`),
	}
	ev.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"step"`),
	}

	result := generate(t, []eventtree.Event{ev})
	code := result.Code
	if !strings.Contains(code, "while (true) {") {
		t.Fatalf("missing loop header:\n%s", code)
	}
	breakAt := strings.Index(code, "{ break; }")
	condAt := strings.Index(code, `runtime.keyPressed("Down")`)
	if condAt < 0 || breakAt < 0 || condAt > breakAt {
		t.Errorf("while-condition must be re-evaluated before the break check:\n%s", code)
	}
}

func TestGenerateForEachReusesEnclosingBinding(t *testing.T) {
	inner := eventtree.NewForEachEvent(`"Enemy"`)
	inner.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("PlaySound", `"hit"`),
	}
	outer := eventtree.NewForEachEvent(`"Enemy"`)
	outer.Subs = []eventtree.Event{inner}

	result := generate(t, []eventtree.Event{outer})
	code := result.Code

	if strings.Count(code, "let obj") != 1 {
		t.Errorf("nested loop over the same objects should reuse the binding:\n%s", code)
	}
	if !strings.Contains(code, `of runtime.objects("Enemy")`) {
		t.Errorf("missing object iteration:\n%s", code)
	}
}

func TestGenerateCodeEvent(t *testing.T) {
	ev := eventtree.NewCodeEvent("custom();\nmore();")
	ev.Conditions = []*eventtree.Instruction{
		eventtree.NewInstruction("KeyPressed", `"X"`),
	}

	result := generate(t, []eventtree.Event{ev})
	code := result.Code
	if !strings.Contains(code, "custom();") || !strings.Contains(code, "more();") {
		t.Errorf("inline code missing:\n%s", code)
	}
	guardAt := strings.Index(code, "if (cond0) {")
	customAt := strings.Index(code, "custom();")
	if guardAt < 0 || customAt < guardAt {
		t.Errorf("inline code must be guarded:\n%s", code)
	}
}

func TestUnknownEventTypeDiagnostic(t *testing.T) {
	// Links survive to the generator only when preprocessing was skipped;
	// comments are simply not executable.
	result := generate(t, []eventtree.Event{
		eventtree.NewCommentEvent("ignored"),
		eventtree.NewLinkEvent("dangling"),
	})

	if result.Code != "" {
		t.Errorf("expected no code, got:\n%s", result.Code)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("non-executable events should be skipped silently: %v", result.Diagnostics)
	}
}

func TestConstantParametersFold(t *testing.T) {
	ev := eventtree.NewStandardEvent()
	ev.Actions = []*eventtree.Instruction{
		eventtree.NewInstruction("SetVariable", `"score"`, "2 * 3 + 1"),
		eventtree.NewInstruction("SetVariable", `"hp"`, "base + 2 * 5"),
	}

	result := generate(t, []eventtree.Event{ev})
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if !strings.Contains(result.Code, `runtime.setVariable("score", 7);`) {
		t.Errorf("constant parameter not folded:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, `runtime.setVariable("hp", (base + 10));`) {
		t.Errorf("constant subtree not folded inside runtime expression:\n%s", result.Code)
	}
}

func TestGenerateIsDeterministicApartFromCompileID(t *testing.T) {
	build := func() []eventtree.Event {
		ev := eventtree.NewStandardEvent()
		ev.Conditions = []*eventtree.Instruction{
			eventtree.NewInstruction("KeyPressed", `"Space"`),
		}
		ev.Actions = []*eventtree.Instruction{
			eventtree.NewInstruction("SetVariable", `"score"`, "score + 1"),
		}
		return []eventtree.Event{ev}
	}

	first := generate(t, build())
	second := generate(t, build())
	if first.Code != second.Code {
		t.Error("identical trees should compile to identical code")
	}
	if first.CompileID == second.CompileID {
		t.Error("compiles should get distinct ids")
	}
}
