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

// Package ruleset 定義單一彩種的固定參數（號碼範圍、位置數、和值區間、理想奇偶與質數）。
//
// Ruleset 於程序啟動時從設定檔讀入一次，之後不可變更；
// 所有彩種共用同一套驗證 / 分析演算法，彩種差異只以資料欄位表達。
package ruleset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zintix-labs/drawlab/errs"
)

// Ruleset 單一彩種的規則
type Ruleset struct {
	ID                string   `yaml:"id"                 json:"id"`
	Name              string   `yaml:"name"               json:"name"`
	DisplayName       string   `yaml:"display_name"       json:"display_name"`
	Description       string   `yaml:"description"        json:"description"`
	Positions         int      `yaml:"positions"          json:"positions"`
	MinNumber         int      `yaml:"min_number"         json:"min_number"`
	MaxNumber         int      `yaml:"max_number"         json:"max_number"`
	MinSum            int      `yaml:"min_sum"            json:"min_sum"`
	MaxSum            int      `yaml:"max_sum"            json:"max_sum"`
	IdealSum          float64  `yaml:"ideal_sum"          json:"ideal_sum"`
	ZoneMin           int      `yaml:"zone_min"           json:"zone_min"`
	ZoneMax           int      `yaml:"zone_max"           json:"zone_max"`
	IdealEvenCounts   []int    `yaml:"ideal_even_counts"  json:"ideal_even_counts"`
	IdealPrimes       int      `yaml:"ideal_primes"       json:"ideal_primes"`
	GuaranteedMinimum int64    `yaml:"guaranteed_minimum" json:"guaranteed_minimum"`
	DrawDays          []string `yaml:"draw_days"          json:"draw_days"`
	GridSize          int      `yaml:"grid_size"          json:"grid_size,omitempty"`
	Enabled           bool     `yaml:"enabled"            json:"enabled"`
}

// Summary 供選單列表使用的精簡資訊
type Summary struct {
	ID          string `json:"id"           yaml:"id"`
	Name        string `json:"name"         yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Positions   int    `json:"positions"    yaml:"positions"`
	MaxNumber   int    `json:"max_number"   yaml:"max_number"`
}

func (r *Ruleset) Summary() Summary {
	return Summary{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Positions:   r.Positions,
		MaxNumber:   r.MaxNumber,
	}
}

// Zone 回傳綠區 [ZoneMin, ZoneMax]
func (r *Ruleset) Zone() (int, int) {
	return r.ZoneMin, r.ZoneMax
}

// InZone 判斷和值是否落在綠區
func (r *Ruleset) InZone(sum int) bool {
	return sum >= r.ZoneMin && sum <= r.ZoneMax
}

// IsIdealEven 判斷偶數個數是否符合理想奇偶分佈
func (r *Ruleset) IsIdealEven(even int) bool {
	return slices.Contains(r.IdealEvenCounts, even)
}

// Span 回傳可抽號碼的個數 (MaxNumber - MinNumber + 1)
func (r *Ruleset) Span() int {
	return r.MaxNumber - r.MinNumber + 1
}

// TheoreticalSums 回傳最小 k 個號碼與最大 k 個號碼的和
func (r *Ruleset) TheoreticalSums() (lo int, hi int) {
	k := r.Positions
	for i := 0; i < k; i++ {
		lo += r.MinNumber + i
		hi += r.MaxNumber - i
	}
	return lo, hi
}

func (r *Ruleset) String() string {
	return fmt.Sprintf("Ruleset(%s: %d of %d..%d)", r.ID, r.Positions, r.MinNumber, r.MaxNumber)
}

// init 正規化欄位並執行載入期檢查
func (r *Ruleset) init() error {
	r.ID = strings.ToLower(strings.TrimSpace(r.ID))
	r.Name = strings.TrimSpace(r.Name)
	if r.DisplayName == "" {
		r.DisplayName = r.Name
	}
	return r.valid()
}

// valid 執行最基本的設定檔檢查。
//
// 停用的彩種（尚未實作的 stub）只檢查識別資訊與號碼範圍；
// 啟用的彩種另外要求和值欄位與號碼範圍一致，確保任何合法號碼組的和值都落在 [MinSum, MaxSum]。
func (r *Ruleset) valid() error {
	if r.ID == "" {
		return errs.NewFatal("ruleset id required")
	}
	if r.Name == "" {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: name required", r.ID))
	}
	if r.Positions < 1 {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: positions must > 0", r.ID))
	}
	if r.MaxNumber < r.MinNumber {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: invalid range %d..%d", r.ID, r.MinNumber, r.MaxNumber))
	}
	if !r.Enabled {
		return nil
	}

	if r.MinNumber < 1 {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: enabled games require min_number >= 1", r.ID))
	}
	if r.MaxNumber > MaxSupportedNumber {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: max_number %d exceeds supported %d", r.ID, r.MaxNumber, MaxSupportedNumber))
	}
	if r.Span() < r.Positions {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: range too small for %d positions", r.ID, r.Positions))
	}
	lo, hi := r.TheoreticalSums()
	if r.MinSum > lo || r.MaxSum < hi {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: sum bounds [%d,%d] must cover [%d,%d]", r.ID, r.MinSum, r.MaxSum, lo, hi))
	}
	if r.ZoneMin > r.ZoneMax || r.ZoneMin < r.MinSum || r.ZoneMax > r.MaxSum {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: green zone [%d,%d] out of sum bounds", r.ID, r.ZoneMin, r.ZoneMax))
	}
	for _, e := range r.IdealEvenCounts {
		if e < 0 || e > r.Positions {
			return errs.NewFatal(fmt.Sprintf("ruleset %s: ideal even count %d out of [0,%d]", r.ID, e, r.Positions))
		}
	}
	if r.IdealPrimes < 0 || r.IdealPrimes > r.Positions {
		return errs.NewFatal(fmt.Sprintf("ruleset %s: ideal primes %d out of [0,%d]", r.ID, r.IdealPrimes, r.Positions))
	}
	return nil
}

// MaxSupportedNumber 為所有啟用彩種可出現的最大號碼；質數表依此建立。
const MaxSupportedNumber = 56

// Clone 回傳深拷貝，避免呼叫端改動已凍結的規則
func (r *Ruleset) Clone() *Ruleset {
	c := *r
	c.IdealEvenCounts = slices.Clone(r.IdealEvenCounts)
	c.DrawDays = slices.Clone(r.DrawDays)
	return &c
}
