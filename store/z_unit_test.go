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

package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/store"
)

func open(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "data", "draws.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample() []history.Draw {
	b := 7
	return []history.Draw{
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Numbers: []int{5, 12, 25, 38, 45, 55}, Bonus: &b},
		{Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Numbers: []int{55, 1, 2, 3, 4, 9}},
		{Numbers: []int{1, 1, 1}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	require.NoError(t, s.Save(ctx, " Melate ", "hist.csv", sample()))
	got, err := s.Load(ctx, "melate")
	require.NoError(t, err)
	require.Equal(t, sample(), got, "order, raw numbers and bonus are preserved")

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	require.EqualValues(t, 2, v)
}

func TestSaveReplacesAndAppendExtends(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	require.NoError(t, s.Save(ctx, "retro", "a.csv", sample()))
	require.NoError(t, s.Save(ctx, "retro", "b.csv", sample()[:1]))
	got, err := s.Load(ctx, "retro")
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, s.Append(ctx, "retro", sample()[1:2]))
	got, err = s.Load(ctx, "retro")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, []int{55, 1, 2, 3, 4, 9}, got[1].Numbers)

	games, err := s.Games(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "retro", games[0].GameID)
	require.Equal(t, 2, games[0].Draws)
	require.Equal(t, "b.csv", games[0].Source)
	require.False(t, games[0].UpdatedAt.IsZero())
}

func TestLoadUnknownIsEmpty(t *testing.T) {
	s := open(t)
	got, err := s.Load(context.Background(), "chispazo")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	_, err = s.Load(context.Background(), "  ")
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.Save(ctx, "melate", "", sample()))
	require.NoError(t, s.Save(ctx, "retro", "", sample()[:1]))

	n, err := s.Delete(ctx, "melate")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	games, err := s.Games(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "retro", games[0].GameID)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "draws.db")

	s, err := store.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "melate", "", sample()))
	require.NoError(t, s.Close())

	s, err = store.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx, "melate")
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestMemory(t *testing.T) {
	s, err := store.Open(context.Background(), store.Memory)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Append(context.Background(), "melate", sample()))
}

func TestAppendWithoutImportRecord(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	require.NoError(t, s.Append(ctx, "Melate", sample()))
	require.NoError(t, s.Append(ctx, "melate", sample()[:1]))

	games, err := s.Games(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "melate", games[0].GameID)
	require.Equal(t, len(sample())+1, games[0].Draws)
	require.Empty(t, games[0].Source)
}
