package recorder_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/drawlab/recorder"
)

func TestHitRecorderMerge(t *testing.T) {
	a, err := recorder.NewHitRecorder("melate", "smart", 6)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := recorder.NewHitRecorder("melate", "smart", 6)
	a.Record(3, 150, true, false)
	a.Record(0, 100, false, true)
	b.Record(4, 200, true, false)
	b.Record(9, 170, true, false) // clamped to positions

	m, err := recorder.MergeHitRecorder([]*recorder.HitRecorder{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if m.Basic.Tickets != 4 || m.Basic.InZone != 3 || m.Basic.Fallbacks != 1 {
		t.Fatalf("unexpected basic record: %+v", m.Basic)
	}
	if m.BestHits[0] != 1 || m.BestHits[3] != 1 || m.BestHits[4] != 1 || m.BestHits[6] != 1 {
		t.Fatalf("unexpected best hits: %v", m.BestHits)
	}

	rep := m.Done(56, 10, 3)
	if len(rep.Rows) != 4 || rep.Rows[0].Hits != 3 {
		t.Fatalf("unexpected rows: %+v", rep.Rows)
	}
	if rep.Rows[0].Tickets != 3 || rep.Rows[0].Rate != 0.75 {
		t.Fatalf(">=3 row got %+v", rep.Rows[0])
	}
	if rep.Rows[3].Tickets != 1 {
		t.Fatalf(">=6 row got %+v", rep.Rows[3])
	}
	for i := 1; i < len(rep.Rows); i++ {
		if rep.Rows[i].Expected > rep.Rows[i-1].Expected {
			t.Fatalf("theoretical rate must not increase with hits")
		}
	}
	if rep.MeanSum != 155 || rep.ZoneRate != 0.75 {
		t.Fatalf("unexpected summary: mean %v zone %v", rep.MeanSum, rep.ZoneRate)
	}
	if want := math.Round(math.Sqrt(1325)*100) / 100; rep.StdSum != want {
		t.Fatalf("std got %v want %v", rep.StdSum, want)
	}
}

func TestMergeRejectsMixedRecorders(t *testing.T) {
	a, _ := recorder.NewHitRecorder("melate", "smart", 6)
	b, _ := recorder.NewHitRecorder("melate", "plain", 6)
	if _, err := recorder.MergeHitRecorder([]*recorder.HitRecorder{a, b}); err == nil {
		t.Fatalf("expected error merging different modes")
	}
	if _, err := recorder.MergeHitRecorder(nil); err == nil {
		t.Fatalf("expected error merging nothing")
	}
	if _, err := recorder.NewHitRecorder("x", "plain", 0); err == nil {
		t.Fatalf("expected error for zero positions")
	}
}

func TestBacktestReportWrite(t *testing.T) {
	r, _ := recorder.NewHitRecorder("chispazo", "plain", 5)
	r.Record(3, 70, true, false)
	rep := r.Done(28, 100, 3)

	var buf bytes.Buffer
	if err := rep.Write(&buf, "table"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ">= 3 hits") || !strings.Contains(buf.String(), "Backtest") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
	buf.Reset()
	if err := rep.Write(&buf, "yaml"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "best_hits: [0, 0, 0, 1, 0, 0]") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
	buf.Reset()
	if err := rep.Write(&buf, "json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"game":"chispazo"`) {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}
