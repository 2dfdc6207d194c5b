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

package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/drawlab/catalog"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/games"
)

func TestLoadEmbeddedGames(t *testing.T) {
	c, err := catalog.Load(games.FS)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.IsFrozen() {
		t.Fatalf("catalog should be frozen after load")
	}
	ids := c.IDs()
	want := []string{"chispazo", "gato", "melate", "retro", "tris"}
	if len(ids) != len(want) {
		t.Fatalf("ids got %v want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids got %v want %v", ids, want)
		}
	}

	sums := c.Summaries()
	if len(sums) != 3 {
		t.Fatalf("expected 3 enabled games, got %d", len(sums))
	}
	for _, s := range sums {
		if s.ID == "tris" || s.ID == "gato" {
			t.Fatalf("disabled game %s listed", s.ID)
		}
	}
}

func TestGetAndDisabled(t *testing.T) {
	c, err := catalog.Load(games.FS)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, err := c.Get("Melate")
	if err != nil {
		t.Fatalf("get melate: %v", err)
	}
	if m.Positions != 6 || m.MaxNumber != 56 || m.ZoneMin != 120 || m.ZoneMax != 220 {
		t.Fatalf("unexpected melate ruleset: %+v", m)
	}
	ch, _ := c.Get("chispazo")
	if ch.Positions != 5 || !ch.IsIdealEven(2) {
		t.Fatalf("unexpected chispazo ruleset: %+v", ch)
	}

	tris, err := c.Get("tris")
	if err != nil {
		t.Fatalf("disabled game must be retrievable: %v", err)
	}
	if tris.Enabled {
		t.Fatalf("tris should be disabled")
	}
	if _, err := c.GetEnabled("gato"); !errs.IsKind(err, errs.KindDisabledGame) {
		t.Fatalf("expected disabled game error, got %v", err)
	}
	if _, err := c.Get("powerball"); !errs.IsKind(err, errs.KindUnknownGame) {
		t.Fatalf("expected unknown game error, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c, _ := catalog.Load(games.FS)
	m, _ := c.Get("melate")
	m.MaxNumber = 99
	m.IdealEvenCounts[0] = 0
	again, _ := c.Get("melate")
	if again.MaxNumber != 56 || again.IdealEvenCounts[0] != 3 {
		t.Fatalf("catalog entry mutated through returned pointer")
	}
}

func TestFrozenRejectsRegister(t *testing.T) {
	c, _ := catalog.Load(games.FS)
	m, _ := c.Get("melate")
	m.ID = "melate2"
	m.Name = "Melate2"
	if err := c.Register(m); err == nil {
		t.Fatalf("expected error registering on frozen catalog")
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	dup := fstest.MapFS{
		"a.yaml": {Data: []byte("id: x\nname: X\npositions: 1\nmin_number: 1\nmax_number: 2\n")},
		"b.yaml": {Data: []byte("id: x\nname: Y\npositions: 1\nmin_number: 1\nmax_number: 2\n")},
	}
	if _, err := catalog.Load(dup); err == nil {
		t.Fatalf("expected duplicate id error")
	}

	nested := fstest.MapFS{
		"sub/a.yaml": {Data: []byte("id: x\nname: X\npositions: 1\nmax_number: 2\n")},
	}
	if _, err := catalog.Load(nested); err == nil {
		t.Fatalf("expected flat fs error")
	}

	badSums := fstest.MapFS{
		"a.yaml": {Data: []byte("id: x\nname: X\npositions: 2\nmin_number: 1\nmax_number: 5\nmin_sum: 4\nmax_sum: 9\nzone_min: 4\nzone_max: 9\nenabled: true\n")},
	}
	if _, err := catalog.Load(badSums); err == nil {
		t.Fatalf("expected sum bound error (1+2=3 < min_sum 4)")
	}

	ok := fstest.MapFS{
		"a.json":    {Data: []byte(`{"id":"pick2","name":"Pick2","positions":2,"min_number":1,"max_number":5,"min_sum":3,"max_sum":9,"zone_min":4,"zone_max":8,"enabled":true}`)},
		"notes.txt": {Data: []byte("ignored")},
	}
	c, err := catalog.Load(ok)
	if err != nil {
		t.Fatalf("expected json ruleset to load: %v", err)
	}
	if _, err := c.GetEnabled("pick2"); err != nil {
		t.Fatalf("get pick2: %v", err)
	}
}
