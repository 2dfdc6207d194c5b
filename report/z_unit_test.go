package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/zintix-labs/drawlab/catalog"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/games"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/report"
	"github.com/zintix-labs/drawlab/ruleset"
	"github.com/zintix-labs/drawlab/validator"
)

func melate(t *testing.T) *ruleset.Ruleset {
	t.Helper()
	c, err := catalog.Load(games.FS)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, err := c.GetEnabled("melate")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	return r
}

func build(t *testing.T, raw []any, draws []history.Draw) *report.DiagnosticReport {
	t.Helper()
	rs := melate(t)
	v := validator.Validate(raw, rs)
	var a *history.Analysis
	if v.OK {
		a = history.Match(v.Numbers, draws, rs)
	}
	return report.Assemble(rs, raw, v, a)
}

func sampleDraws() []history.Draw {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sets := [][]int{
		{5, 12, 25, 1, 2, 3},
		{5, 12, 25, 9, 9, 9},
		{7, 8, 10, 11, 13, 14},
		{5, 12, 25, 38, 1, 2},
		{5, 12, 25, 40, 41, 42},
	}
	out := make([]history.Draw, len(sets))
	for i, s := range sets {
		out[i] = history.Draw{Date: base.AddDate(0, 0, 3*i), Numbers: s}
	}
	return out
}

var ticket = []any{5, 12, 25, 38, 45, 55}

func TestAssembleInvalidEchoesInputOnly(t *testing.T) {
	raw := []any{12, 5, 25, 38, 45, 55}
	r := build(t, raw, sampleDraws())
	if r.Valid || r.ErrorKind != errs.KindOrder || !strings.Contains(r.Error, "ascending") {
		t.Fatalf("unexpected report: %+v", r)
	}
	if r.Stats != nil || r.History != nil || r.Theory != nil || r.Summary != nil || r.Numbers != nil {
		t.Fatalf("invalid input must not carry statistics")
	}

	var buf bytes.Buffer
	if err := (&report.JsonRender{}).Write(&buf, r); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"stats", "history", "theory", "summary", "numbers"} {
		if _, ok := m[k]; ok {
			t.Fatalf("invalid report must not contain %q", k)
		}
	}
	if m["error_kind"] != "UnorderedInput" {
		t.Fatalf("error_kind got %v", m["error_kind"])
	}
	if in, _ := m["input"].([]any); len(in) != 6 || in[0] != float64(12) {
		t.Fatalf("input must be echoed, got %v", m["input"])
	}
}

func TestAssembleEmptyHistoryKeepsSchema(t *testing.T) {
	r := build(t, ticket, nil)
	if !r.Valid {
		t.Fatalf("expected valid: %s", r.Error)
	}
	if r.Summary.HistoricalDraws != 0 || r.Summary.Window != 0 {
		t.Fatalf("unexpected summary: %+v", r.Summary)
	}
	if len(r.History.Groups) != 4 || len(r.Theory.Groups) != 4 {
		t.Fatalf("groups must always be present")
	}
	for _, g := range r.Theory.Groups {
		if g.Observed != 0 || g.Expected != 0 {
			t.Fatalf("empty history must not observe anything: %+v", g)
		}
	}

	var buf bytes.Buffer
	if err := (&report.JsonRender{}).Write(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, frag := range []string{`"hot":[]`, `"cold":[]`, `"records":[]`, `"frequency":{}`, `"historical_draws":0`} {
		if !strings.Contains(out, frag) {
			t.Fatalf("json missing %s: %s", frag, out)
		}
	}
}

func TestAssembleStatsAndIdeal(t *testing.T) {
	r := build(t, ticket, sampleDraws())
	if r.Stats.Sum != 180 || r.Stats.Even != 2 || r.Stats.Odd != 4 || r.Stats.Primes != 1 {
		t.Fatalf("unexpected stats: %+v", r.Stats)
	}
	if !r.Ideal.InGreenZone || r.Ideal.SumDelta != 9 || r.Ideal.IdealEven || r.Ideal.IdealPrimes {
		t.Fatalf("unexpected ideal flags: %+v", r.Ideal)
	}
	if r.Summary.HistoricalDraws != 5 || r.Summary.ValidDraws != 4 || r.Summary.SkippedDraws != 1 {
		t.Fatalf("unexpected summary: %+v", r.Summary)
	}
}

func TestAssembleTheory(t *testing.T) {
	r := build(t, ticket, sampleDraws())
	g3 := r.Theory.Groups[0]
	if g3.Hits != 3 || g3.Observed != 2 {
		t.Fatalf("3-hit group got %+v", g3)
	}
	if g3.Probability <= 0 || g3.OneIn <= 1 || g3.Tail <= 0 || g3.Tail > 1 {
		t.Fatalf("3-hit odds malformed: %+v", g3)
	}
	if r.Theory.Groups[1].Observed != 1 {
		t.Fatalf("4-hit observed got %d", r.Theory.Groups[1].Observed)
	}
	if len(r.Theory.Frequency) != 6 {
		t.Fatalf("frequency estimates for each ticket number, got %d", len(r.Theory.Frequency))
	}
	f5 := r.Theory.Frequency[0]
	if f5.Number != 5 || f5.Hits != 3 || f5.Draws != 4 {
		t.Fatalf("unexpected estimate: %+v", f5)
	}
}

func TestAssembleIsByteIdentical(t *testing.T) {
	var a, b bytes.Buffer
	if err := (&report.JsonRender{}).Write(&a, build(t, ticket, sampleDraws())); err != nil {
		t.Fatal(err)
	}
	if err := (&report.JsonRender{}).Write(&b, build(t, ticket, sampleDraws())); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("reports differ between identical runs")
	}
}

func TestRenders(t *testing.T) {
	r := build(t, ticket, sampleDraws())

	var y bytes.Buffer
	if err := (&report.YAMLRender{}).Write(&y, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(y.String(), "numbers: [5, 12, 25, 38, 45, 55]") {
		t.Fatalf("yaml must render number sets in flow style:\n%s", y.String())
	}

	var tb bytes.Buffer
	if err := (&report.TableRender{}).Write(&tb, r); err != nil {
		t.Fatal(err)
	}
	out := tb.String()
	for _, frag := range []string{"Melate (México)", "05 12 25 38 45 55", "3 hits", "6+ hits", "Match History"} {
		if !strings.Contains(out, frag) {
			t.Fatalf("table missing %q:\n%s", frag, out)
		}
	}

	tb.Reset()
	if err := (&report.TableRender{}).Write(&tb, build(t, []any{1, 2}, nil)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tb.String(), "CountMismatch") {
		t.Fatalf("invalid table must show error kind:\n%s", tb.String())
	}

	for _, f := range []string{"json", "yaml", "table", ""} {
		if _, err := report.RenderFor(f); err != nil {
			t.Fatalf("RenderFor(%q): %v", f, err)
		}
	}
	if _, err := report.RenderFor("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestFmtTableWidths(t *testing.T) {
	out := report.FmtTable("T", []string{"a", "號碼"}, map[string]string{"a": "1", "號碼": "22"})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := runewidth.StringWidth(lines[0])
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w != want {
			t.Fatalf("line %q width %d want %d", l, w, want)
		}
	}
}
