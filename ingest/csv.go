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

// Package ingest 將外部表格（CSV）正規化成 history.Draw 序列。
//
// 欄位由標頭自動偵測：
//   - 日期欄：標頭含 fecha / date / day / día / sorteo，否則第 0 欄
//   - 特別號欄：標頭含 bonus / additional / extra / complementario
//   - 號碼欄：標頭含 num / ball / bola / número 或含數字；都沒有時其餘所有欄位
//
// 少於 2 個正整數的列、日期無法解析的列會被略過；輸出依日期由舊到新（穩定排序）。
package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/history"
)

var (
	datePatterns   = []string{"fecha", "date", "day", "día", "sorteo"}
	bonusPatterns  = []string{"bonus", "additional", "extra", "complementario"}
	numberPatterns = []string{"num", "ball", "bola", "número"}
	hasDigit       = regexp.MustCompile(`[0-9]`)
)

// 依序嘗試；日/月/年 優先於 月/日/年
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
}

// excel 序列日期的原點（1900 日期系統）
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Columns 偵測到的欄位配置；-1 表示不存在
type Columns struct {
	Date    int   `json:"date"    yaml:"date"`
	Numbers []int `json:"numbers" yaml:"numbers"`
	Bonus   int   `json:"bonus"   yaml:"bonus"`
}

// Result CSV 解析結果
type Result struct {
	Draws   []history.Draw `json:"draws"   yaml:"draws"`
	Rows    int            `json:"rows"    yaml:"rows"`
	Skipped int            `json:"skipped" yaml:"skipped"`
	Columns Columns        `json:"columns" yaml:"columns"`
}

// ParseCSV 解析含標頭列的 CSV
func ParseCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &errs.E{Message: "csv parsing error", Cause: err, ErrLv: errs.Warn}
		}
		return nil, errs.Wrap(err, "read csv failed")
	}
	records = dropEmpty(records)
	if len(records) < 2 {
		return nil, errs.NewWarn("csv must have header and at least 1 data row")
	}

	cols := DetectColumns(records[0])
	if len(cols.Numbers) == 0 {
		return nil, errs.NewWarn("no numeric columns detected")
	}

	res := &Result{Columns: cols, Draws: make([]history.Draw, 0, len(records)-1)}
	for _, row := range records[1:] {
		res.Rows++
		d, ok := parseRow(row, cols)
		if !ok {
			res.Skipped++
			continue
		}
		res.Draws = append(res.Draws, d)
	}
	if len(res.Draws) == 0 {
		return nil, errs.NewWarn("no valid rows parsed from csv")
	}
	sort.SliceStable(res.Draws, func(i, j int) bool {
		return res.Draws[i].Date.Before(res.Draws[j].Date)
	})
	return res, nil
}

// DetectColumns 依標頭偵測日期、號碼與特別號欄位
func DetectColumns(header []string) Columns {
	cols := Columns{Date: -1, Bonus: -1, Numbers: []int{}}
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	for i, h := range norm {
		if containsAny(h, datePatterns) {
			cols.Date = i
			break
		}
	}
	if cols.Date == -1 && len(header) > 1 {
		cols.Date = 0
	}

	for i, h := range norm {
		if i == cols.Date {
			continue
		}
		switch {
		case containsAny(h, bonusPatterns):
			cols.Bonus = i
		case containsAny(h, numberPatterns) || hasDigit.MatchString(h):
			cols.Numbers = append(cols.Numbers, i)
		}
	}

	if len(cols.Numbers) == 0 {
		for i := range header {
			if i != cols.Date && i != cols.Bonus {
				cols.Numbers = append(cols.Numbers, i)
			}
		}
	}
	return cols
}

func parseRow(row []string, cols Columns) (history.Draw, bool) {
	var d history.Draw
	if cols.Date >= 0 {
		if cols.Date >= len(row) {
			return d, false
		}
		t, ok := ParseDate(row[cols.Date])
		if !ok {
			return d, false
		}
		d.Date = t
	}

	nums := make([]int, 0, len(cols.Numbers))
	for _, idx := range cols.Numbers {
		if idx >= len(row) {
			continue
		}
		if n, ok := parsePositive(row[idx]); ok {
			nums = append(nums, n)
		}
	}
	if len(nums) < 2 {
		return d, false
	}
	d.Numbers = nums

	if cols.Bonus >= 0 && cols.Bonus < len(row) {
		if n, ok := parsePositive(row[cols.Bonus]); ok {
			d.Bonus = &n
		}
	}
	return d, true
}

// ParseDate 解析常見日期格式與 Excel 序列日期
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f < 2958466 {
		days := math.Floor(f)
		secs := math.Round((f - days) * 86400)
		return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), true
	}
	return time.Time{}, false
}

func parsePositive(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f <= 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func containsAny(s string, subs []string) bool {
	for _, p := range subs {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func dropEmpty(records [][]string) [][]string {
	out := records[:0]
	for _, r := range records {
		empty := true
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, r)
		}
	}
	return out
}
