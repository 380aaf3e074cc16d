package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"typedid/internal/attr"
	"typedid/internal/catalog"
	"typedid/internal/diag"
	"typedid/internal/extract"
	"typedid/internal/model"
	"typedid/internal/observ"
	"typedid/internal/resolve"
	"typedid/internal/source"
	"typedid/internal/testkit"
)

func decl(name string, args ...attr.Argument) extract.Declaration {
	loc := source.Location{Path: "Ids.cs", Span: source.Span{Start: uint32(len(name)), End: uint32(len(name) + 5)}}
	return extract.Declaration{
		Name:      name,
		Modifiers: []string{"public", "partial"},
		Ancestors: []extract.Scope{{Kind: extract.ScopeNamespace, Name: "App"}},
		Attributes: []attr.Application{{
			Name:       attr.MarkerName,
			Positional: args,
			Location:   loc,
		}},
		Location: loc,
	}
}

func defaultsApp(line uint32, args ...attr.Argument) attr.Application {
	return attr.Application{
		Name:       attr.DefaultsName,
		Positional: args,
		Location:   source.Location{Path: "AssemblyInfo.cs", Start: source.LineCol{Line: line, Col: 1}},
	}
}

func sampleInput() Input {
	return Input{
		Declarations: []extract.Declaration{
			decl("OrderId", attr.Enum("Int")),
			decl("UserId"),
			decl("Missing", attr.String("nope")),
			decl("CustomId", attr.String("custom")),
		},
		Defaults: []attr.Application{defaultsApp(1, attr.Enum("Long"))},
		Templates: model.NewNamedTemplates(
			model.NamedTemplate{Name: "custom", Content: "struct PLACEHOLDERID {}", HasContent: true},
		),
	}
}

func keys(res *Result) []string {
	out := make([]string, len(res.Outputs))
	for i, o := range res.Outputs {
		out[i] = o.Key
	}
	return out
}

func TestRunOrdering(t *testing.T) {
	res, err := Run(context.Background(), sampleInput(), Options{Jobs: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		catalog.MarkerKey,
		catalog.DefaultsKey,
		"App.OrderId.g.cs",
		"App.UserId.g.cs",
		"App.CustomId.g.cs",
	}
	if diff := cmp.Diff(want, keys(res)); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.UnknownTemplate {
		t.Fatalf("diagnostics = %+v", res.Diagnostics)
	}
	if !res.HasErrors() {
		t.Fatalf("unknown template must be an error")
	}
	if res.Targets[1].Layer != resolve.LayerDefaults || res.Targets[2].Outcome != resolve.Skip {
		t.Fatalf("reports = %+v", res.Targets)
	}
	if !strings.Contains(res.Outputs[3].Text, "public long Value") {
		t.Fatalf("UserId must use the defaults template")
	}
	for i, name := range []string{"OrderId", "UserId", "CustomId"} {
		if err := testkit.CheckGenerated(res.Outputs[2+i].Text, name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRunDefaultsDiagnosticsFirst(t *testing.T) {
	in := sampleInput()
	in.Defaults = append(in.Defaults, defaultsApp(2, attr.Enum("Int")))
	res, err := Run(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Diagnostics[0].Code != diag.MultipleAssemblyDefaults {
		t.Fatalf("first diagnostic = %+v", res.Diagnostics[0])
	}
	// UserId опирается на defaults и должен быть пропущен без новой диагностики
	if res.Targets[1].Outcome != resolve.Skip {
		t.Fatalf("UserId report = %+v", res.Targets[1])
	}
	if len(res.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %+v", res.Diagnostics)
	}
}

func TestRunIndependentOfParallelism(t *testing.T) {
	in := sampleInput()
	for i := range 40 {
		in.Declarations = append(in.Declarations, decl(fmt.Sprintf("Id%02d", i), attr.Enum("Guid")))
	}
	serial, err := Run(context.Background(), in, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := Run(context.Background(), in, Options{Jobs: 16})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if diff := cmp.Diff(serial.Outputs, parallel.Outputs); diff != "" {
		t.Fatalf("outputs depend on scheduling:\n%s", diff)
	}
	if !diag.EqualAll(serial.Diagnostics, parallel.Diagnostics) {
		t.Fatalf("diagnostics depend on scheduling")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, sampleInput(), Options{})
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Fatalf("Run = %v, %v; want nil, context.Canceled", res, err)
	}
}

func TestRunCancelledMidPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var once sync.Once
	sink := SinkFunc(func(ev Event) {
		if ev.Stage == StageResolve {
			once.Do(cancel)
		}
	})
	in := sampleInput()
	for i := range 20 {
		in.Declarations = append(in.Declarations, decl(fmt.Sprintf("Id%02d", i)))
	}
	res, err := Run(ctx, in, Options{Jobs: 1, Progress: sink})
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Fatalf("Run = %v, %v; want nil, context.Canceled", res, err)
	}
}

func TestRunEmptyInputStillEmitsArtifacts(t *testing.T) {
	res, err := Run(context.Background(), Input{}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]string{catalog.MarkerKey, catalog.DefaultsKey}, keys(res)); diff != "" {
		t.Fatalf("keys mismatch:\n%s", diff)
	}
	if res.Defaults.Valid || len(res.Diagnostics) != 0 {
		t.Fatalf("absent defaults must be silent: %+v", res)
	}
}

func TestRunProgressAndTimer(t *testing.T) {
	ch := make(chan Event, 256)
	timer := observ.NewTimer()
	if _, err := Run(context.Background(), sampleInput(), Options{Progress: ChannelSink{Ch: ch}, Timer: timer}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(ch)
	counts := map[Status]int{}
	for ev := range ch {
		if ev.Stage == StageEmit {
			counts[ev.Status]++
		}
	}
	// три цели сгенерированы, одна пропущена
	if counts[StatusDone] != 3 || counts[StatusSkipped] != 1 {
		t.Fatalf("emit events = %v", counts)
	}
	if rep := timer.Report(); len(rep.Phases) != 2 || rep.Phases[0].Name != "defaults" {
		t.Fatalf("timer = %+v", rep)
	}
}
