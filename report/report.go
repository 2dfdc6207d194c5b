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

// Package report 將驗證、統計核心與歷史比對的結果組合成固定結構的診斷報告。
//
// 驗證失敗時報告只包含錯誤與原始輸入；驗證成功但沒有歷史資料時，
// 各區塊仍然存在（空集合 / 零值），讓輸出結構保持穩定。
package report

import (
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/ruleset"
	"github.com/zintix-labs/drawlab/stats"
	"github.com/zintix-labs/drawlab/validator"
)

// Confidence 號碼頻率區間估計的信賴水準
const Confidence = 0.95

// DiagnosticReport 單次分析的完整輸出
type DiagnosticReport struct {
	Game      string    `json:"game"                 yaml:"game"`
	GameName  string    `json:"game_name,omitempty"  yaml:"game_name,omitempty"`
	Input     []any     `json:"input"                yaml:"input"`
	Valid     bool      `json:"valid"                yaml:"valid"`
	Error     string    `json:"error,omitempty"      yaml:"error,omitempty"`
	ErrorKind errs.Kind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	Numbers []int             `json:"numbers,omitempty" yaml:"numbers,omitempty"`
	Stats   *Stats            `json:"stats,omitempty"   yaml:"stats,omitempty"`
	Ideal   *Ideal            `json:"ideal,omitempty"   yaml:"ideal,omitempty"`
	History *history.Analysis `json:"history,omitempty" yaml:"history,omitempty"`
	Theory  *Theory           `json:"theory,omitempty"  yaml:"theory,omitempty"`
	Summary *Summary          `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Stats 統計核心輸出
type Stats struct {
	Sum    int `json:"sum"    yaml:"sum"`
	Even   int `json:"even"   yaml:"even"`
	Odd    int `json:"odd"    yaml:"odd"`
	Primes int `json:"primes" yaml:"primes"`
}

// Ideal 與彩種理想值的比較
type Ideal struct {
	InGreenZone bool    `json:"in_green_zone" yaml:"in_green_zone"`
	ZoneMin     int     `json:"zone_min"      yaml:"zone_min"`
	ZoneMax     int     `json:"zone_max"      yaml:"zone_max"`
	IdealSum    float64 `json:"ideal_sum"     yaml:"ideal_sum"`
	SumDelta    float64 `json:"sum_delta"     yaml:"sum_delta"`
	IdealEven   bool    `json:"ideal_even"    yaml:"ideal_even"`
	IdealPrimes bool    `json:"ideal_primes"  yaml:"ideal_primes"`
}

// GroupOdds 單一命中分組的理論值與觀察值
type GroupOdds struct {
	Hits        int     `json:"hits"        yaml:"hits"`
	Probability float64 `json:"probability" yaml:"probability"`
	OneIn       float64 `json:"one_in"      yaml:"one_in"`
	Expected    float64 `json:"expected"    yaml:"expected"`
	Observed    int     `json:"observed"    yaml:"observed"`
	Tail        float64 `json:"tail"        yaml:"tail"` // P(X >= Observed)
}

// Theory 理論機率區塊
type Theory struct {
	Groups    []GroupOdds               `json:"groups"    yaml:"groups"`
	Frequency []stats.FrequencyEstimate `json:"frequency" yaml:"frequency"`
}

// Summary 報表摘要
type Summary struct {
	HistoricalDraws int `json:"historical_draws" yaml:"historical_draws"`
	ValidDraws      int `json:"valid_draws"      yaml:"valid_draws"`
	SkippedDraws    int `json:"skipped_draws"    yaml:"skipped_draws"`
	Window          int `json:"window"           yaml:"window"`
}

// Assemble 組合報告。v 不通過時只回傳錯誤與原始輸入，忽略 a；
// v 通過時 a 不可為 nil（由 history.Match 產生）。
func Assemble(rs *ruleset.Ruleset, raw []any, v validator.Result, a *history.Analysis) *DiagnosticReport {
	r := &DiagnosticReport{
		Game:     rs.ID,
		GameName: rs.DisplayName,
		Input:    raw,
		Valid:    v.OK,
	}
	if !v.OK {
		r.Error = v.Error
		r.ErrorKind = v.Kind
		return r
	}

	ns := v.Numbers
	r.Numbers = ns
	r.Stats = &Stats{
		Sum:    stats.Sum(ns),
		Even:   stats.CountEven(ns),
		Odd:    stats.CountOdd(ns),
		Primes: stats.CountPrime(ns),
	}
	r.Ideal = &Ideal{
		InGreenZone: rs.InZone(r.Stats.Sum),
		ZoneMin:     rs.ZoneMin,
		ZoneMax:     rs.ZoneMax,
		IdealSum:    rs.IdealSum,
		SumDelta:    float64(r.Stats.Sum) - rs.IdealSum,
		IdealEven:   rs.IsIdealEven(r.Stats.Even),
		IdealPrimes: r.Stats.Primes == rs.IdealPrimes,
	}
	r.History = a
	r.Theory = theory(rs, ns, a)
	r.Summary = &Summary{
		HistoricalDraws: a.Total,
		ValidDraws:      a.Valid,
		SkippedDraws:    a.Skipped,
		Window:          a.Window,
	}
	return r
}

func theory(rs *ruleset.Ruleset, ns []int, a *history.Analysis) *Theory {
	k, span := rs.Positions, rs.Span()
	t := &Theory{
		Groups:    make([]GroupOdds, 0, len(a.Groups)),
		Frequency: []stats.FrequencyEstimate{},
	}
	last := history.GroupSizes[len(history.GroupSizes)-1]
	for _, g := range a.Groups {
		p := stats.HitProbability(span, k, g.Hits)
		if g.Hits == last {
			for m := last + 1; m <= k; m++ {
				p += stats.HitProbability(span, k, m)
			}
		}
		observed := 0
		for _, rec := range g.Records {
			observed += rec.Count
		}
		o := GroupOdds{
			Hits:        g.Hits,
			Probability: p,
			Expected:    stats.ExpectedHits(p, a.Valid),
			Observed:    observed,
			Tail:        stats.TailProbability(p, a.Valid, observed),
		}
		if p > 0 {
			o.OneIn = roundTo(1/p, 2)
		}
		o.Expected = roundTo(o.Expected, 4)
		t.Groups = append(t.Groups, o)
	}

	if a.Valid == 0 {
		return t
	}
	for _, n := range ns {
		t.Frequency = append(t.Frequency, stats.EstimateFrequency(n, a.Frequency[n], a.Valid, k, span, Confidence))
	}
	return t
}
