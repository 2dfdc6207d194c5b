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

package recorder

import (
	"fmt"
	"math"
	"time"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/stats"
)

// HitRecorder 回測紀錄員
//
// 每個 worker 持有一個 HitRecorder，紀錄產生的彩券在歷史中的最佳命中數，
// 結束後以 MergeHitRecorder 合併，再透過 Done 輸出報表。
type HitRecorder struct {
	GameID    string
	Mode      string
	Positions int
	Basic     *BasicRecord
	BestHits  []int // index = 最佳命中數，value = 彩券張數
}

// BasicRecord 基本紀錄
type BasicRecord struct {
	Tickets   int
	InZone    int
	Fallbacks int
	SumTotal  int
	SumSqSum  int // 平方和
}

func NewHitRecorder(gameID string, mode string, positions int) (*HitRecorder, error) {
	if positions <= 0 {
		return nil, errs.NewFatal(fmt.Sprintf("positions must > 0, got: %d", positions))
	}
	return &HitRecorder{
		GameID:    gameID,
		Mode:      mode,
		Positions: positions,
		Basic:     new(BasicRecord),
		BestHits:  make([]int, positions+1),
	}, nil
}

// Record 紀錄一張彩券
func (r *HitRecorder) Record(best int, sum int, inZone bool, fallback bool) {
	best = min(max(best, 0), r.Positions)
	r.BestHits[best]++
	r.Basic.Tickets++
	r.Basic.SumTotal += sum
	r.Basic.SumSqSum += sum * sum
	if inZone {
		r.Basic.InZone++
	}
	if fallback {
		r.Basic.Fallbacks++
	}
}

func MergeHitRecorder(rs []*HitRecorder) (*HitRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge hit record err : nothing to merge")
	}
	r0 := rs[0]
	m, err := NewHitRecorder(r0.GameID, r0.Mode, r0.Positions)
	if err != nil {
		return nil, err
	}
	for _, v := range rs {
		if v.GameID != r0.GameID {
			return nil, errs.NewFatal("merge hit record err : different game")
		}
		if v.Mode != r0.Mode {
			return nil, errs.NewFatal("merge hit record err : different mode")
		}
		if v.Positions != r0.Positions {
			return nil, errs.NewFatal("merge hit record err : different positions")
		}
		m.Basic.Tickets += v.Basic.Tickets
		m.Basic.InZone += v.Basic.InZone
		m.Basic.Fallbacks += v.Basic.Fallbacks
		m.Basic.SumTotal += v.Basic.SumTotal
		m.Basic.SumSqSum += v.Basic.SumSqSum
		for i, c := range v.BestHits {
			m.BestHits[i] += c
		}
	}
	return m, nil
}

// BacktestRow 命中數 >= Hits 的彩券比例，與隨機彩券的理論比例
type BacktestRow struct {
	Hits     int     `json:"hits"     yaml:"hits"`
	Tickets  int     `json:"tickets"  yaml:"tickets"`
	Rate     float64 `json:"rate"     yaml:"rate"`
	Expected float64 `json:"expected" yaml:"expected"`
}

// BacktestReport 回測報表
type BacktestReport struct {
	Game      string        `json:"game"       yaml:"game"`
	Mode      string        `json:"mode"       yaml:"mode"`
	Seed      int64         `json:"seed"       yaml:"seed"`
	Tickets   int           `json:"tickets"    yaml:"tickets"`
	Draws     int           `json:"draws"      yaml:"draws"`
	ZoneRate  float64       `json:"zone_rate"  yaml:"zone_rate"`
	Fallbacks int           `json:"fallbacks"  yaml:"fallbacks"`
	MeanSum   float64       `json:"mean_sum"   yaml:"mean_sum"`
	StdSum    float64       `json:"std_sum"    yaml:"std_sum"`
	BestHits  []int         `json:"best_hits"  yaml:"best_hits"`
	Rows      []BacktestRow `json:"rows"       yaml:"rows"`
	Used      time.Duration `json:"used"       yaml:"used"`
}

// Done 輸出報表。span 為號碼個數，draws 為比對的有效開獎數，
// 理論值為隨機彩券在 draws 次開獎中至少一次命中 >= m 的機率。
func (r *HitRecorder) Done(span int, draws int, from int) *BacktestReport {
	b := r.Basic
	rep := &BacktestReport{
		Game:      r.GameID,
		Mode:      r.Mode,
		Tickets:   b.Tickets,
		Draws:     draws,
		Fallbacks: b.Fallbacks,
		BestHits:  append([]int(nil), r.BestHits...),
		Rows:      make([]BacktestRow, 0, r.Positions),
	}
	if b.Tickets > 0 {
		n := float64(b.Tickets)
		rep.ZoneRate = round(float64(b.InZone)/n, 4)
		mean := float64(b.SumTotal) / n
		rep.MeanSum = round(mean, 2)
		rep.StdSum = round(math.Sqrt(math.Max(float64(b.SumSqSum)/n-mean*mean, 0)), 2)
	}

	for m := max(from, 1); m <= r.Positions; m++ {
		atLeast := 0
		for h := m; h <= r.Positions; h++ {
			atLeast += r.BestHits[h]
		}
		perDraw := 0.0
		for h := m; h <= r.Positions; h++ {
			perDraw += stats.HitProbability(span, r.Positions, h)
		}
		row := BacktestRow{
			Hits:     m,
			Tickets:  atLeast,
			Expected: round(1-math.Pow(1-perDraw, float64(draws)), 6),
		}
		if b.Tickets > 0 {
			row.Rate = round(float64(atLeast)/float64(b.Tickets), 6)
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
