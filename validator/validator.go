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

// Package validator 依彩種規則驗證使用者輸入的號碼組。
//
// 規則依序檢查，遇到第一個失敗即回傳：
//  1. 型別：輸入必須是有限數值的序列（TypeError）
//  2. 數量：長度必須等於 Positions（CountMismatch）
//  3. 範圍：每個值必須是 [MinNumber, MaxNumber] 的整數（OutOfRange）
//  4. 唯一：不得重複（DuplicateValue）
//  5. 排序：必須嚴格遞增（UnorderedInput）
//
// 驗證失敗以資料（Result）回傳，不以 error 回傳。
package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/ruleset"
)

// Result 驗證結果
type Result struct {
	OK      bool      `json:"ok"              yaml:"ok"`
	Error   string    `json:"error,omitempty" yaml:"error,omitempty"`
	Kind    errs.Kind `json:"kind,omitempty"  yaml:"kind,omitempty"`
	Numbers []int     `json:"-"               yaml:"-"` // 驗證通過時的號碼組
}

// Err 轉回 *errs.E；驗證通過時回傳 nil
func (r Result) Err() *errs.E {
	if r.OK {
		return nil
	}
	return errs.Kindf(r.Kind, "%s", r.Error)
}

func fail(k errs.Kind, format string, a ...any) Result {
	return Result{OK: false, Error: fmt.Sprintf(format, a...), Kind: k}
}

// Validate 驗證任意型別的原始輸入（例如 JSON 解碼後的 []any）
func Validate(raw []any, rs *ruleset.Ruleset) Result {
	nums, res := Coerce(raw)
	if !res.OK {
		return res
	}
	return Check(nums, rs)
}

// ValidateInts 驗證已是整數的輸入
func ValidateInts(ns []int, rs *ruleset.Ruleset) Result {
	if ns == nil {
		return fail(errs.KindType, "numbers must be a sequence")
	}
	f := make([]float64, len(ns))
	for i, n := range ns {
		f[i] = float64(n)
	}
	return Check(f, rs)
}

// Coerce 將原始輸入轉為數值序列；非數值或非有限值回傳 TypeError。
// 數字字串（例如表單輸入 "05"）視為數值。
func Coerce(raw []any) ([]float64, Result) {
	if raw == nil {
		return nil, fail(errs.KindType, "numbers must be a sequence")
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		f, ok := toFloat(v)
		if !ok {
			return nil, fail(errs.KindType, "'%v' at position %d is not a valid number", v, i)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fail(errs.KindType, "'%v' at position %d is not a finite number", v, i)
		}
		out[i] = f
	}
	return out, Result{OK: true}
}

// Check 對數值序列執行數量、範圍、唯一、排序檢查
func Check(nums []float64, rs *ruleset.Ruleset) Result {
	if nums == nil {
		return fail(errs.KindType, "numbers must be a sequence")
	}
	for i, f := range nums {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fail(errs.KindType, "'%v' at position %d is not a finite number", f, i)
		}
	}

	k := rs.Positions
	if len(nums) != k {
		return fail(errs.KindCount, "expected %d numbers, got %d", k, len(nums))
	}

	ns := make([]int, k)
	for i, f := range nums {
		if f != math.Trunc(f) {
			return fail(errs.KindRange, "%v is not an integer in range (%d-%d)", f, rs.MinNumber, rs.MaxNumber)
		}
		n := int(f)
		if n < rs.MinNumber || n > rs.MaxNumber {
			return fail(errs.KindRange, "%d is out of range (%d-%d)", n, rs.MinNumber, rs.MaxNumber)
		}
		ns[i] = n
	}

	seen := make(map[int]struct{}, k)
	for _, n := range ns {
		if _, ok := seen[n]; ok {
			return fail(errs.KindDuplicate, "number %d is repeated", n)
		}
		seen[n] = struct{}{}
	}

	for i := 0; i < k-1; i++ {
		if ns[i] >= ns[i+1] {
			return fail(errs.KindOrder, "numbers must be in ascending order (position %d: %d >= %d)", i, ns[i], ns[i+1])
		}
	}

	return Result{OK: true, Numbers: ns}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
