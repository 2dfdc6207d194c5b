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

// Package drawlab 提供開獎分析引擎的組裝入口。
//
// Lab 把兩個地基組裝在一起：
//  1. Catalog：彩種目錄，由 fs.FS 內的 YAML/JSON 規則檔載入後凍結，之後不可變更。
//  2. PRNGFactory：亂數來源工廠，所有亂數都由 Lab 派生 seed 後注入，保證可重現。
//
// Lab 不持有任何歷史開獎資料：歷史資料由呼叫端（store / ingest）以參數傳入，
// 每次呼叫彼此獨立，可在多個 goroutine 中同時使用。
//
// 典型使用：
//
//	lab, _ := drawlab.NewDefault()
//	res, _ := lab.Validate([]any{5, 12, 25, 38, 45, 55}, "melate")
//	rep, _ := lab.Analyze([]any{5, 12, 25, 38, 45, 55}, "melate", draws)
//	ns, _ := lab.Generate("melate", generator.Smart)
package drawlab

import (
	"io/fs"
	"log/slog"

	"github.com/zintix-labs/drawlab/catalog"
	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/games"
	"github.com/zintix-labs/drawlab/generator"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/report"
	"github.com/zintix-labs/drawlab/ruleset"
	"github.com/zintix-labs/drawlab/sdk/core"
	"github.com/zintix-labs/drawlab/validator"
)

// Configs 把一或多個規則檔來源打包成 New() 需要的參數。
// 可以是 go:embed（games.FS）或本機的 os.DirFS。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 開獎分析引擎入口
type Lab struct {
	cat      *catalog.Catalog
	cf       core.PRNGFactory
	initSeed int64
	seeds    *seedMaker
	log      *slog.Logger
}

// Option 設定 Lab 的可選參數
type Option func(*Lab)

// WithLogger 指定 logger；未指定時不輸出任何日誌
func WithLogger(l *slog.Logger) Option {
	return func(lab *Lab) {
		if l != nil {
			lab.log = l
		}
	}
}

// WithSeed 指定 base seed；Generate 的每次呼叫都由 base seed 派生子 seed。
// 未指定時以加密隨機來源產生。
func WithSeed(seed int64) Option {
	return func(lab *Lab) {
		lab.initSeed = seed
		lab.seeds = newSeedMaker(seed)
	}
}

// New 建立 Lab：載入 cfgs 內所有規則檔並凍結目錄。
//
// cf 不能為 nil；cfgs 至少一個。任何規則檔解析或檢查失敗都會直接回傳錯誤。
func New(cf core.PRNGFactory, cfgs []fs.FS, opts ...Option) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cat, err := catalog.Load(cfgs...)
	if err != nil {
		return nil, err
	}
	lab := &Lab{
		cat: cat,
		cf:  cf,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(lab)
	}
	if lab.seeds == nil {
		lab.initSeed = core.RandomSeed()
		lab.seeds = newSeedMaker(lab.initSeed)
	}
	return lab, nil
}

// NewDefault 以內建彩種與預設 PRNG 建立 Lab
func NewDefault(opts ...Option) (*Lab, error) {
	return New(core.Default(), Configs(games.FS), opts...)
}

// Seed 回傳 base seed，用於追溯 / 重現
func (l *Lab) Seed() int64 {
	return l.initSeed
}

// Games 回傳可選的（啟用中）彩種
func (l *Lab) Games() []ruleset.Summary {
	return l.cat.Summaries()
}

// IDs 回傳所有已註冊的彩種 ID（含停用）
func (l *Lab) IDs() []string {
	return l.cat.IDs()
}

// Ruleset 取得彩種規則；停用的彩種也可以取得
func (l *Lab) Ruleset(id string) (*ruleset.Ruleset, error) {
	return l.cat.Get(id)
}

// Enabled 取得啟用中的彩種規則；停用或未知的彩種回傳 ConfigError
func (l *Lab) Enabled(id string) (*ruleset.Ruleset, error) {
	return l.cat.GetEnabled(id)
}

// Validate 驗證號碼組。驗證結果以資料回傳；只有未知或停用的彩種回傳 error。
func (l *Lab) Validate(raw []any, id string) (validator.Result, error) {
	rs, err := l.cat.GetEnabled(id)
	if err != nil {
		return validator.Result{}, err
	}
	return validator.Validate(raw, rs), nil
}

// Analyze 驗證並分析號碼組。draws 為舊到新的歷史開獎，可為空。
//
// 驗證失敗不會回傳 error，而是回傳只含錯誤與原始輸入的報告。
func (l *Lab) Analyze(raw []any, id string, draws []history.Draw) (*report.DiagnosticReport, error) {
	rs, err := l.cat.GetEnabled(id)
	if err != nil {
		return nil, err
	}
	v := validator.Validate(raw, rs)
	if !v.OK {
		return report.Assemble(rs, raw, v, nil), nil
	}
	a := history.Match(v.Numbers, draws, rs)
	if a.Skipped > 0 {
		l.log.Debug("skipped malformed draws", slog.String("game", rs.ID), slog.Int("skipped", a.Skipped), slog.Int("total", a.Total))
	}
	return report.Assemble(rs, raw, v, a), nil
}

// Generate 以 Lab 的 seed 序列產生號碼組
func (l *Lab) Generate(id string, mode generator.Mode) ([]int, error) {
	res, err := l.GenerateDetail(id, mode, l.seeds.next())
	if err != nil {
		return nil, err
	}
	return res.Numbers, nil
}

// GenerateWithSeed 以指定 seed 產生號碼組；相同 seed 得到相同結果
func (l *Lab) GenerateWithSeed(id string, mode generator.Mode, seed int64) ([]int, error) {
	res, err := l.GenerateDetail(id, mode, seed)
	if err != nil {
		return nil, err
	}
	return res.Numbers, nil
}

// GenerateDetail 同 GenerateWithSeed，但回傳嘗試次數、綠區與退回資訊
func (l *Lab) GenerateDetail(id string, mode generator.Mode, seed int64) (generator.Result, error) {
	rs, err := l.cat.GetEnabled(id)
	if err != nil {
		return generator.Result{}, err
	}
	res, err := generator.Generate(rs, mode, core.New(l.cf.New(seed)))
	if err != nil {
		return generator.Result{}, err
	}
	if res.Fallback {
		l.log.Debug("smart generation fell back", slog.String("game", rs.ID), slog.Int("attempts", res.Attempts), slog.Int("sum", res.Sum))
	}
	return res, nil
}

// NextSeed 取得下一個派生 seed（併發安全）
func (l *Lab) NextSeed() int64 {
	return l.seeds.next()
}
