// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package generator_test

import (
	"slices"
	"testing"

	"github.com/zintix-labs/drawlab/catalog"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/games"
	"github.com/zintix-labs/drawlab/generator"
	"github.com/zintix-labs/drawlab/ruleset"
	"github.com/zintix-labs/drawlab/sdk/core"
	"github.com/zintix-labs/drawlab/validator"
)

func enabled(t *testing.T) []*ruleset.Ruleset {
	t.Helper()
	c, err := catalog.Load(games.FS)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	var out []*ruleset.Ruleset
	for _, s := range c.Summaries() {
		r, err := c.GetEnabled(s.ID)
		if err != nil {
			t.Fatalf("get %s: %v", s.ID, err)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		t.Fatalf("no enabled games")
	}
	return out
}

func TestGeneratedSetsAlwaysValidate(t *testing.T) {
	c := core.NewWithSeed(2024)
	for _, rs := range enabled(t) {
		for _, mode := range generator.Modes {
			for i := 0; i < 300; i++ {
				res, err := generator.Generate(rs, mode, c)
				if err != nil {
					t.Fatalf("%s/%s: %v", rs.ID, mode, err)
				}
				if v := validator.ValidateInts(res.Numbers, rs); !v.OK {
					t.Fatalf("%s/%s generated invalid set %v: %s", rs.ID, mode, res.Numbers, v.Error)
				}
				if res.Sum < rs.MinSum || res.Sum > rs.MaxSum {
					t.Fatalf("%s sum %d outside [%d,%d]", rs.ID, res.Sum, rs.MinSum, rs.MaxSum)
				}
			}
		}
	}
}

func TestSmartPrefersZone(t *testing.T) {
	c := core.NewWithSeed(99)
	for _, rs := range enabled(t) {
		for i := 0; i < 200; i++ {
			res, err := generator.Generate(rs, generator.Smart, c)
			if err != nil {
				t.Fatal(err)
			}
			if !res.InZone && !res.Fallback {
				t.Fatalf("%s: smart result neither in zone nor fallback: %+v", rs.ID, res)
			}
			if res.InZone && !rs.InZone(res.Sum) {
				t.Fatalf("%s: InZone flag disagrees with sum %d", rs.ID, res.Sum)
			}
			if res.Attempts < 1 || res.Attempts > generator.MaxAttempts {
				t.Fatalf("attempts out of bounds: %d", res.Attempts)
			}
		}
	}
}

func TestSmartFallsBackToLastCandidate(t *testing.T) {
	rs := enabled(t)[0].Clone()
	rs.ZoneMin, rs.ZoneMax = 10_000, 10_001

	res, err := generator.Generate(rs, generator.Omega, core.NewWithSeed(5))
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if !res.Fallback || res.InZone || res.Attempts != generator.MaxAttempts {
		t.Fatalf("unexpected fallback result: %+v", res)
	}
	if v := validator.ValidateInts(res.Numbers, rs); !v.OK {
		t.Fatalf("fallback candidate must still be valid: %s", v.Error)
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	rs := enabled(t)[0]
	a, _ := generator.Generate(rs, generator.Smart, core.NewWithSeed(7))
	b, _ := generator.Generate(rs, generator.Smart, core.NewWithSeed(7))
	if !slices.Equal(a.Numbers, b.Numbers) || a.Attempts != b.Attempts {
		t.Fatalf("same seed must give same result: %v vs %v", a, b)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]generator.Mode{
		"":       generator.Plain,
		"plain":  generator.Plain,
		" SMART": generator.Smart,
		"Omega":  generator.Omega,
	} {
		got, err := generator.ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := generator.ParseMode("lucky"); !errs.IsKind(err, errs.KindUnknownMode) {
		t.Fatalf("expected unknown mode, got %v", err)
	}
	if _, err := generator.Generate(enabled(t)[0], generator.Mode("lucky"), core.NewWithSeed(1)); !errs.IsKind(err, errs.KindUnknownMode) {
		t.Fatalf("expected unknown mode from Generate, got %v", err)
	}
}

func TestGenerateRejectsBadArguments(t *testing.T) {
	if _, err := generator.Generate(nil, generator.Plain, core.NewWithSeed(1)); !errs.IsKind(err, errs.KindInvalidArgument) {
		t.Fatalf("nil ruleset must be rejected")
	}
	rs := enabled(t)[0].Clone()
	rs.MaxNumber = rs.MinNumber + 1
	if _, err := generator.Generate(rs, generator.Plain, core.NewWithSeed(1)); !errs.IsKind(err, errs.KindInvalidArgument) {
		t.Fatalf("impossible ruleset must be rejected")
	}
}
