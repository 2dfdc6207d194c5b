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

package history

import (
	"slices"
	"time"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/ruleset"
)

// Draw 一筆歷史開獎紀錄。號碼可以是未排序的原始順序，由 Normalize 統一處理。
type Draw struct {
	Date    time.Time `json:"date"            yaml:"date"`
	Numbers []int     `json:"numbers"         yaml:"numbers"`
	Bonus   *int      `json:"bonus,omitempty" yaml:"bonus,omitempty"`
}

// Indexed 已正規化的開獎：Index 為在原始序列中的位置（時間順序）
type Indexed struct {
	Index   int
	Date    time.Time
	Numbers []int
}

// Normalize 將開獎號碼轉為遞增、互異、且在規則範圍內的號碼組。
// 回傳新的 slice，不修改 d。
func Normalize(d Draw, rs *ruleset.Ruleset) ([]int, error) {
	if len(d.Numbers) != rs.Positions {
		return nil, errs.Kindf(errs.KindCount, "draw has %d numbers, want %d", len(d.Numbers), rs.Positions)
	}
	ns := slices.Clone(d.Numbers)
	slices.Sort(ns)
	for i, n := range ns {
		if n < rs.MinNumber || n > rs.MaxNumber {
			return nil, errs.Kindf(errs.KindRange, "draw number %d out of range (%d-%d)", n, rs.MinNumber, rs.MaxNumber)
		}
		if i > 0 && ns[i-1] == n {
			return nil, errs.Kindf(errs.KindDuplicate, "draw number %d is repeated", n)
		}
	}
	return ns, nil
}

// NormalizeAll 正規化整個序列，略過格式錯誤的紀錄並回傳略過的筆數
func NormalizeAll(draws []Draw, rs *ruleset.Ruleset) (valid []Indexed, skipped int) {
	valid = make([]Indexed, 0, len(draws))
	for i, d := range draws {
		ns, err := Normalize(d, rs)
		if err != nil {
			skipped++
			continue
		}
		valid = append(valid, Indexed{Index: i, Date: d.Date, Numbers: ns})
	}
	return valid, skipped
}

// Intersect 兩個遞增號碼組的交集（遞增）
func Intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// BestHits 回傳 ticket 在所有開獎中的最大命中數
func BestHits(ticket []int, draws []Indexed) int {
	best := 0
	for _, d := range draws {
		if h := countCommon(ticket, d.Numbers); h > best {
			best = h
			if best == len(ticket) {
				break
			}
		}
	}
	return best
}

func countCommon(a, b []int) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return n
}
