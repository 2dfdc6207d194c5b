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

package errs_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/zintix-labs/drawlab/errs"
)

func TestWrapKeepsLevelAndKind(t *testing.T) {
	base := errs.Kindf(errs.KindDuplicate, "duplicate %d", 5)
	w := errs.Wrap(base, "validate")
	if w.ErrLv != errs.Warn {
		t.Fatalf("expected warn level, got %s", errs.ErrLv(w.ErrLv))
	}
	if w.Kind != errs.KindDuplicate {
		t.Fatalf("expected duplicate kind, got %s", w.Kind)
	}
	if !errors.Is(w, base) {
		t.Fatalf("expected wrapped error to unwrap to base")
	}
}

func TestWrapForeignErrorIsFatal(t *testing.T) {
	w := errs.Wrap(fmt.Errorf("disk gone"), "store")
	if w.ErrLv != errs.Fatal {
		t.Fatalf("foreign cause should be fatal")
	}
	if w.Kind != errs.KindNone {
		t.Fatalf("foreign cause should carry no kind")
	}
}

func TestIsKind(t *testing.T) {
	inner := errs.Kindf(errs.KindUnknownGame, "unknown game: %q", "lotto")
	outer := errs.WrapWithExtra(fmt.Errorf("ctx: %w", inner), "analyze", "http")
	if !errs.IsKind(outer, errs.KindUnknownGame) {
		t.Fatalf("expected IsKind to find unknown game")
	}
	if errs.IsKind(outer, errs.KindRange) {
		t.Fatalf("unexpected range kind")
	}
	if errs.IsKind(fmt.Errorf("plain"), errs.KindRange) {
		t.Fatalf("plain error has no kind")
	}
}

func TestKindCategory(t *testing.T) {
	cases := map[errs.Kind]string{
		errs.KindDisabledGame:    "ConfigError",
		errs.KindOrder:           "ValidationError",
		errs.KindType:            "ValidationError",
		errs.KindDivisionByZero:  "ComputationError",
		errs.KindInvalidArgument: "ComputationError",
		errs.KindNone:            "",
	}
	for k, want := range cases {
		if got := k.Category(); got != want {
			t.Fatalf("%s category got %q want %q", k, got, want)
		}
	}
}

func TestErrorString(t *testing.T) {
	e := errs.Kindf(errs.KindCount, "want 6 numbers, got 5")
	s := e.Error()
	if !strings.Contains(s, "kind=CountMismatch") || !strings.Contains(s, "errlv=warn") {
		t.Fatalf("unexpected error string: %s", s)
	}
}
