package svrcfg_test

import (
	"testing"
	"time"

	"github.com/zintix-labs/drawlab"
	"github.com/zintix-labs/drawlab/server/logger"
	"github.com/zintix-labs/drawlab/server/svrcfg"
)

func TestParseEnvDefaults(t *testing.T) {
	e, err := svrcfg.ParseEnv()
	if err != nil {
		t.Fatal(err)
	}
	if e.Addr != ":5808" || e.LogMode != "ModeDev" || e.DBPath != "data/drawlab.db" {
		t.Fatalf("unexpected defaults %+v", e)
	}
	if e.RateLimit != 20 || e.RateBurst != 40 {
		t.Fatalf("unexpected rate defaults %+v", e)
	}
	if e.ShutdownTimeout != 5*time.Second {
		t.Fatalf("shutdown timeout got %v", e.ShutdownTimeout)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("DRAWLAB_ADDR", ":9000")
	t.Setenv("DRAWLAB_LOG_MODE", "ModeProd")
	t.Setenv("DRAWLAB_SEED", "42")
	t.Setenv("DRAWLAB_RATE_LIMIT", "0")
	t.Setenv("DRAWLAB_SHUTDOWN_TIMEOUT", "250ms")
	e, err := svrcfg.ParseEnv()
	if err != nil {
		t.Fatal(err)
	}
	if e.Addr != ":9000" || e.Seed != 42 || e.RateLimit != 0 || e.ShutdownTimeout != 250*time.Millisecond {
		t.Fatalf("overrides not applied %+v", e)
	}
	if svrcfg.LogModeOf(e.LogMode) != logger.ModeProd {
		t.Fatalf("log mode")
	}

	t.Setenv("DRAWLAB_SEED", "abc")
	if _, err := svrcfg.ParseEnv(); err == nil {
		t.Fatalf("expected parse error for bad seed")
	}
}

func TestLogModeOf(t *testing.T) {
	cases := map[string]logger.LogMode{
		"ModeDev":     logger.ModeDev,
		"prod":        logger.ModeProd,
		"ModeSilence": logger.ModeSilence,
		"whatever":    logger.ModeDev,
	}
	for in, want := range cases {
		if got := svrcfg.LogModeOf(in); got != want {
			t.Fatalf("%s: got %d want %d", in, got, want)
		}
	}
}

func TestVaild(t *testing.T) {
	sc := &svrcfg.SvrCfg{}
	if err := sc.Vaild(); err == nil {
		t.Fatalf("lab is required")
	}
	if sc.Log == nil {
		t.Fatalf("a default logger must be filled in")
	}

	lab, err := drawlab.NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	sc = &svrcfg.SvrCfg{Lab: lab, RateLimit: 5}
	if err := sc.Vaild(); err != nil {
		t.Fatal(err)
	}
	if sc.RateBurst != 1 {
		t.Fatalf("burst must be raised to 1, got %d", sc.RateBurst)
	}
}
