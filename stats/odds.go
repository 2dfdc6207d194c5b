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

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// MatchOdds 單張彩券在一次開獎中恰好命中 Hits 個號碼的理論機率
type MatchOdds struct {
	Hits        int     `json:"hits"        yaml:"hits"`
	Probability float64 `json:"probability" yaml:"probability"`
	OneIn       float64 `json:"one_in"      yaml:"one_in"` // 1 / Probability，0 代表不可能
}

// HitProbability 回傳超幾何分佈 P(X = m)：
// 從 span 個號碼抽出 k 個，彩券選 k 個，恰好命中 m 個的機率。
//
//	C(k,m) * C(span-k, k-m) / C(span, k)
func HitProbability(span int, k int, m int) float64 {
	if span < 1 || k < 1 || k > span || m < 0 || m > k || k-m > span-k {
		return 0
	}
	num := float64(combin.Binomial(k, m)) * float64(combin.Binomial(span-k, k-m))
	den := float64(combin.Binomial(span, k))
	return num / den
}

// TicketOdds 回傳 from..k 個命中的理論機率表
func TicketOdds(span int, k int, from int) []MatchOdds {
	out := make([]MatchOdds, 0, k)
	for m := max(from, 0); m <= k; m++ {
		p := HitProbability(span, k, m)
		o := MatchOdds{Hits: m, Probability: p}
		if p > 0 {
			o.OneIn = math.Round(1/p*100) / 100
		}
		out = append(out, o)
	}
	return out
}

// ExpectedHits 在 n 次獨立開獎中，單次機率 p 事件的期望次數
func ExpectedHits(p float64, n int) float64 {
	if n <= 0 || p <= 0 {
		return 0
	}
	return distuv.Binomial{N: float64(n), P: min(p, 1)}.Mean()
}

// TailProbability 回傳 P(X >= observed)，X ~ Binomial(n, p)。
// 用來衡量觀察到的命中次數相對於理論值有多罕見。
func TailProbability(p float64, n int, observed int) float64 {
	if observed <= 0 {
		return 1
	}
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	b := distuv.Binomial{N: float64(n), P: p}
	return b.Survival(float64(observed - 1))
}
