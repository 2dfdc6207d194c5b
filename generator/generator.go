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

// Package generator 依彩種規則產生合法的號碼組。
//
// plain 為均勻抽樣；smart 以有上限的拒絕取樣偏向綠區和值；
// omega 目前等同 smart。亂數一律由呼叫端注入的 *core.Core 提供。
package generator

import (
	"strings"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/ruleset"
	"github.com/zintix-labs/drawlab/sdk/core"
	"github.com/zintix-labs/drawlab/stats"
)

type Mode string

const (
	Plain Mode = "plain"
	Smart Mode = "smart"
	Omega Mode = "omega"
)

// MaxAttempts smart 模式的最大嘗試次數
const MaxAttempts = 200

// Modes 所有支援的模式
var Modes = []Mode{Plain, Smart, Omega}

// ParseMode 解析模式字串（不分大小寫，空字串視為 plain）
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "":
		return Plain, nil
	case Plain, Smart, Omega:
		return m, nil
	}
	return "", errs.Kindf(errs.KindUnknownMode, "unknown generation mode %q", s)
}

func (m Mode) String() string { return string(m) }

// Result 單次產生的結果
type Result struct {
	Numbers  []int `json:"numbers"  yaml:"numbers"`
	Mode     Mode  `json:"mode"     yaml:"mode"`
	Sum      int   `json:"sum"      yaml:"sum"`
	Attempts int   `json:"attempts" yaml:"attempts"`
	InZone   bool  `json:"in_zone"  yaml:"in_zone"`
	Fallback bool  `json:"fallback" yaml:"fallback"` // smart 模式用盡嘗試次數，回傳最後一組
}

// Generate 產生一組號碼。結果一定通過 validator 檢查；
// smart 模式找不到綠區組合時不會失敗，而是回傳最後一組候選。
func Generate(rs *ruleset.Ruleset, mode Mode, c *core.Core) (Result, error) {
	if rs == nil || c == nil {
		return Result{}, errs.Kindf(errs.KindInvalidArgument, "generator needs a ruleset and a random core")
	}
	if rs.Positions <= 0 || rs.Span() < rs.Positions {
		return Result{}, errs.Kindf(errs.KindInvalidArgument, "ruleset %s cannot produce %d distinct numbers", rs.ID, rs.Positions)
	}

	switch mode {
	case Plain:
		ns := plain(rs, c)
		sum := stats.Sum(ns)
		return Result{Numbers: ns, Mode: mode, Sum: sum, Attempts: 1, InZone: rs.InZone(sum)}, nil
	case Smart, Omega:
		return smart(rs, mode, c), nil
	}
	return Result{}, errs.Kindf(errs.KindUnknownMode, "unknown generation mode %q", string(mode))
}

func plain(rs *ruleset.Ruleset, c *core.Core) []int {
	return c.SampleDistinct(rs.MinNumber, rs.MaxNumber, rs.Positions)
}

func smart(rs *ruleset.Ruleset, mode Mode, c *core.Core) Result {
	var ns []int
	sum := 0
	for i := 1; i <= MaxAttempts; i++ {
		ns = plain(rs, c)
		sum = stats.Sum(ns)
		if rs.InZone(sum) {
			return Result{Numbers: ns, Mode: mode, Sum: sum, Attempts: i, InZone: true}
		}
	}
	return Result{Numbers: ns, Mode: mode, Sum: sum, Attempts: MaxAttempts, Fallback: true}
}
