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

	"gonum.org/v1/gonum/stat/distuv"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Contains 判斷 x 是否落在區間內（含端點）
func (c CI) Contains(x float64) bool {
	return x >= c.Lo && x <= c.Hi
}

// FrequencyEstimate 單一號碼出現頻率的點估計與區間，以及理論值
type FrequencyEstimate struct {
	Number   int     `json:"number"   yaml:"number"`
	Hits     int     `json:"hits"     yaml:"hits"`
	Draws    int     `json:"draws"    yaml:"draws"`
	Hat      float64 `json:"hat"      yaml:"hat"`
	CI       CI      `json:"ci"       yaml:"ci"`
	Expected float64 `json:"expected" yaml:"expected"` // 理論出現率 k / span
	Deviates bool    `json:"deviates" yaml:"deviates"` // 理論值落在 CI 之外
}

// EstimateFrequency 以 Clopper–Pearson 區間估計號碼出現率，並與理論值 k/span 比較
func EstimateFrequency(number int, hits int, draws int, k int, span int, confidence float64) FrequencyEstimate {
	hat, ci := ProportionCI(hits, draws, confidence)
	exp := 0.0
	if span > 0 {
		exp = float64(k) / float64(span)
	}
	return FrequencyEstimate{
		Number:   number,
		Hits:     hits,
		Draws:    draws,
		Hat:      round(hat, 4),
		CI:       CI{Lo: round(ci.Lo, 4), Hi: round(ci.Hi, 4)},
		Expected: round(exp, 4),
		Deviates: draws > 0 && !ci.Contains(exp),
	}
}

// ProportionCI 二項比例的 Clopper–Pearson exact CI（k successes out of n）
func ProportionCI(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n <= 0 {
		return 0, CI{0, 1}
	}
	k = min(max(k, 0), n)
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
