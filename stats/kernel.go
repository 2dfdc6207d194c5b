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

// Package stats 為號碼組的純統計函數：和值、奇偶、質數、成熟度，以及理論機率。
//
// 本包所有函數皆為純函數：相同輸入永遠得到相同輸出，不依賴呼叫順序，也不持有可變狀態。
package stats

import (
	"math"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/ruleset"
)

// 冷熱號門檻（近期視窗出現頻率）
const (
	HotThreshold  = 0.12
	ColdThreshold = 0.08
)

// primeTable 以篩法建立 [0, MaxSupportedNumber] 的質數查表，建立後不再變動。
var primeTable = sieve(ruleset.MaxSupportedNumber)

func sieve(n int) [ruleset.MaxSupportedNumber + 1]bool {
	var t [ruleset.MaxSupportedNumber + 1]bool
	for i := 2; i <= n; i++ {
		t[i] = true
	}
	for i := 2; i*i <= n; i++ {
		if !t[i] {
			continue
		}
		for j := i * i; j <= n; j += i {
			t[j] = false
		}
	}
	return t
}

// IsPrime 查表判斷；超出支援範圍一律回傳 false
func IsPrime(n int) bool {
	if n < 0 || n >= len(primeTable) {
		return false
	}
	return primeTable[n]
}

// Primes 回傳支援範圍內的所有質數（新切片）
func Primes() []int {
	out := make([]int, 0, 16)
	for i, p := range primeTable {
		if p {
			out = append(out, i)
		}
	}
	return out
}

// Sum 回傳號碼和值
func Sum(ns []int) int {
	s := 0
	for _, n := range ns {
		s += n
	}
	return s
}

// CountEven 回傳偶數個數
func CountEven(ns []int) int {
	c := 0
	for _, n := range ns {
		if n%2 == 0 {
			c++
		}
	}
	return c
}

// CountOdd 回傳奇數個數；CountEven + CountOdd == len(ns)
func CountOdd(ns []int) int {
	return len(ns) - CountEven(ns)
}

// CountPrime 回傳質數個數
func CountPrime(ns []int) int {
	c := 0
	for _, n := range ns {
		if IsPrime(n) {
			c++
		}
	}
	return c
}

// PoissonMaturity 回傳號碼的成熟度分數 [0,100]：
//
//	min(100, floor(gapsSinceDrawn / averageGap * 100))
//
// 錯誤：
//   - 任一輸入為 NaN / Inf → InvalidArgument
//   - averageGap == 0      → DivisionByZero
//   - 任一輸入為負數       → InvalidArgument
func PoissonMaturity(gapsSinceDrawn float64, averageGap float64) (int, error) {
	if !isFinite(gapsSinceDrawn) || !isFinite(averageGap) {
		return 0, errs.Kindf(errs.KindInvalidArgument, "maturity inputs must be finite numbers: gap=%v avg=%v", gapsSinceDrawn, averageGap)
	}
	if averageGap == 0 {
		return 0, errs.Kindf(errs.KindDivisionByZero, "average gap can not be zero")
	}
	if gapsSinceDrawn < 0 || averageGap < 0 {
		return 0, errs.Kindf(errs.KindInvalidArgument, "maturity inputs can not be negative: gap=%v avg=%v", gapsSinceDrawn, averageGap)
	}
	score := math.Floor(gapsSinceDrawn / averageGap * 100)
	return int(min(100, max(0, score))), nil
}

// MaturityLabel 成熟度的文字分級
type MaturityLabel struct {
	Key   string `json:"key"   yaml:"key"`
	Text  string `json:"text"  yaml:"text"`
	Color string `json:"color" yaml:"color"`
}

var (
	LabelJustDrawn = MaturityLabel{Key: "just_drawn", Text: "just drawn", Color: "gray"}
	LabelNeeds     = MaturityLabel{Key: "needs_maturing", Text: "needs maturing", Color: "red"}
	LabelMaturing  = MaturityLabel{Key: "maturing", Text: "maturing", Color: "yellow"}
	LabelMature    = MaturityLabel{Key: "mature", Text: "mature", Color: "green"}
)

// LabelFor 依分數區間對應分級：0 / (0,20] / (20,80) / [80,100]
func LabelFor(score int) (MaturityLabel, error) {
	switch {
	case score < 0 || score > 100:
		return MaturityLabel{}, errs.Kindf(errs.KindInvalidArgument, "maturity score %d out of [0,100]", score)
	case score == 0:
		return LabelJustDrawn, nil
	case score <= 20:
		return LabelNeeds, nil
	case score < 80:
		return LabelMaturing, nil
	default:
		return LabelMature, nil
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
