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

// Package history 將候選號碼組與歷史開獎比對：
// 終身頻率、近期冷熱、上次出現距離、成熟度，以及 3/4/5/6 中分組紀錄。
//
// 所有函式皆為純函式；輸入的開獎序列不會被修改。
package history

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/drawlab/ruleset"
	"github.com/zintix-labs/drawlab/stats"
)

const (
	// RecentWindow 冷熱判定使用的最近開獎筆數
	RecentWindow = 20
	// MinGroupHits 開始記錄的最小命中數
	MinGroupHits = 3
	// TopN 頻率排行榜長度
	TopN = 10
)

// GroupSizes 報表固定輸出的命中分組；最後一組代表 6 個以上
var GroupSizes = [...]int{3, 4, 5, 6}

// MatchRecord 同一組交集號碼在歷史中的出現紀錄
type MatchRecord struct {
	Numbers []int       `json:"numbers" yaml:"numbers"`
	Count   int         `json:"count"   yaml:"count"`
	Dates   []time.Time `json:"dates"   yaml:"dates"`
	Indices []int       `json:"indices" yaml:"indices"`
	AvgGap  float64     `json:"avg_gap" yaml:"avg_gap"`
}

// Group 命中數相同的紀錄集合
type Group struct {
	Hits    int           `json:"hits"    yaml:"hits"`
	Label   string        `json:"label"   yaml:"label"`
	Records []MatchRecord `json:"records" yaml:"records"`
}

// Hot 近期出現率 >= 12% 的號碼
type Hot struct {
	Number int     `json:"number" yaml:"number"`
	Hits   int     `json:"hits"   yaml:"hits"`
	Pct    float64 `json:"pct"    yaml:"pct"`
}

// Cold 近期出現率 <= 8% 的號碼
type Cold struct {
	Number   int `json:"number"    yaml:"number"`
	Hits     int `json:"hits"      yaml:"hits"`
	DrawsAgo int `json:"draws_ago" yaml:"draws_ago"`
}

// NumberCount 號碼與終身出現次數
type NumberCount struct {
	Number int `json:"number" yaml:"number"`
	Count  int `json:"count"  yaml:"count"`
}

// PositionParity 排序後第 Position 位為偶數的比例
type PositionParity struct {
	Position int     `json:"position" yaml:"position"`
	Even     float64 `json:"even"     yaml:"even"`
}

// Maturity 號碼成熟度。Known=false 代表該號碼從未開出，平均間隔無法計算。
type Maturity struct {
	Number   int     `json:"number"    yaml:"number"`
	Count    int     `json:"count"     yaml:"count"`
	DrawsAgo int     `json:"draws_ago" yaml:"draws_ago"`
	AvgGap   float64 `json:"avg_gap"   yaml:"avg_gap"`
	Known    bool    `json:"known"     yaml:"known"`
	Score    int     `json:"score"     yaml:"score"`
	Label    string  `json:"label"     yaml:"label"`
}

// Analysis History Matcher 的完整輸出
type Analysis struct {
	Total     int              `json:"total"     yaml:"total"`   // 原始紀錄筆數
	Valid     int              `json:"valid"     yaml:"valid"`   // 正規化成功的筆數
	Skipped   int              `json:"skipped"   yaml:"skipped"` // 格式錯誤被略過的筆數
	Window    int              `json:"window"    yaml:"window"`
	Frequency map[int]int      `json:"frequency" yaml:"frequency"`
	LastSeen  map[int]int      `json:"last_seen" yaml:"last_seen"`
	Top       []NumberCount    `json:"top"       yaml:"top"`
	Parity    []PositionParity `json:"parity"    yaml:"parity"`
	Groups    []Group          `json:"groups"    yaml:"groups"`
	Hot       []Hot            `json:"hot"       yaml:"hot"`
	Cold      []Cold           `json:"cold"      yaml:"cold"`
	Maturity  []Maturity       `json:"maturity"  yaml:"maturity"`
}

// GroupFor 取出指定命中數的分組；不存在時回傳 nil
func (a *Analysis) GroupFor(hits int) *Group {
	for i := range a.Groups {
		if a.Groups[i].Hits == hits {
			return &a.Groups[i]
		}
	}
	return nil
}

// Match 比對 ticket 與歷史開獎序列（舊到新）。
// ticket 應為已驗證的號碼組；格式錯誤的歷史紀錄會被略過，不會中斷分析。
func Match(ticket []int, draws []Draw, rs *ruleset.Ruleset) *Analysis {
	t := slices.Clone(ticket)
	slices.Sort(t)

	total := len(draws)
	valid, skipped := NormalizeAll(draws, rs)

	a := &Analysis{
		Total:     total,
		Valid:     len(valid),
		Skipped:   skipped,
		Frequency: make(map[int]int),
		LastSeen:  make(map[int]int),
		Top:       []NumberCount{},
		Parity:    []PositionParity{},
		Groups:    make([]Group, 0, len(GroupSizes)),
		Hot:       []Hot{},
		Cold:      []Cold{},
		Maturity:  []Maturity{},
	}

	for _, d := range valid {
		for _, n := range d.Numbers {
			a.Frequency[n]++
			a.LastSeen[n] = d.Index
		}
	}

	a.Groups = groupMatches(t, valid, total)
	a.Top = topFrequency(a.Frequency, TopN)
	a.Parity = positionParity(valid, rs.Positions)
	a.Window, a.Hot, a.Cold = classify(t, valid, total)
	a.Maturity = maturity(t, a.Frequency, a.LastSeen, total)
	return a
}

func groupKey(ns []int) string {
	var b strings.Builder
	for i, n := range ns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

func groupIndex(hits int) int {
	idx := hits - GroupSizes[0]
	return min(idx, len(GroupSizes)-1)
}

func groupMatches(ticket []int, valid []Indexed, total int) []Group {
	groups := make([]Group, len(GroupSizes))
	pos := make([]map[string]int, len(GroupSizes))
	for i, size := range GroupSizes {
		groups[i] = Group{Hits: size, Label: strconv.Itoa(size), Records: []MatchRecord{}}
		pos[i] = make(map[string]int)
	}
	groups[len(groups)-1].Label += "+"

	for _, d := range valid {
		common := Intersect(ticket, d.Numbers)
		if len(common) < MinGroupHits {
			continue
		}
		g := groupIndex(len(common))
		key := groupKey(common)
		if at, ok := pos[g][key]; ok {
			r := &groups[g].Records[at]
			r.Count++
			r.Dates = append(r.Dates, d.Date)
			r.Indices = append(r.Indices, d.Index)
			continue
		}
		pos[g][key] = len(groups[g].Records)
		groups[g].Records = append(groups[g].Records, MatchRecord{
			Numbers: common,
			Count:   1,
			Dates:   []time.Time{d.Date},
			Indices: []int{d.Index},
		})
	}

	for gi := range groups {
		rs := groups[gi].Records
		for i := range rs {
			rs[i].AvgGap = avgGap(rs[i].Indices, total)
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Count > rs[j].Count })
	}
	return groups
}

// avgGap 連續出現位置差的平均；只出現一次時以 total / count 四捨五入代替
func avgGap(indices []int, total int) float64 {
	n := len(indices)
	if n == 0 {
		return 0
	}
	if n >= 2 {
		sum := 0
		for i := 1; i < n; i++ {
			sum += indices[i] - indices[i-1]
		}
		return math.Round(float64(sum)/float64(n-1)*100) / 100
	}
	return math.Round(float64(total) / float64(n))
}

func topFrequency(freq map[int]int, n int) []NumberCount {
	out := make([]NumberCount, 0, len(freq))
	for num, c := range freq {
		out = append(out, NumberCount{Number: num, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Number < out[j].Number
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func positionParity(valid []Indexed, k int) []PositionParity {
	if len(valid) == 0 {
		return []PositionParity{}
	}
	evens := make([]int, k)
	for _, d := range valid {
		for i, n := range d.Numbers {
			if n%2 == 0 {
				evens[i]++
			}
		}
	}
	out := make([]PositionParity, k)
	for i, e := range evens {
		out[i] = PositionParity{
			Position: i + 1,
			Even:     math.Round(float64(e)/float64(len(valid))*1000) / 1000,
		}
	}
	return out
}

// classify 以最近 RecentWindow 筆原始紀錄判定冷熱；格式錯誤的紀錄佔窗口但不計命中
func classify(ticket []int, valid []Indexed, total int) (int, []Hot, []Cold) {
	hot, cold := []Hot{}, []Cold{}
	window := min(RecentWindow, total)
	if window == 0 {
		return 0, hot, cold
	}
	start := total - window

	hits := make(map[int]int, len(ticket))
	lastSeen := make(map[int]int, len(ticket))
	for _, d := range valid {
		for _, n := range Intersect(ticket, d.Numbers) {
			lastSeen[n] = d.Index
			if d.Index >= start {
				hits[n]++
			}
		}
	}

	for _, n := range ticket {
		f := float64(hits[n]) / float64(window)
		switch {
		case f >= stats.HotThreshold:
			hot = append(hot, Hot{Number: n, Hits: hits[n], Pct: math.Round(f*1000) / 10})
		case f <= stats.ColdThreshold:
			ago := total
			if last, ok := lastSeen[n]; ok {
				ago = total - last - 1
			}
			cold = append(cold, Cold{Number: n, Hits: hits[n], DrawsAgo: ago})
		}
	}
	return window, hot, cold
}

// maturity 的距離與平均間隔都以原始紀錄筆數為基準；格式錯誤的紀錄視為該號碼未出現的一期
func maturity(ticket []int, freq, lastSeen map[int]int, total int) []Maturity {
	out := make([]Maturity, 0, len(ticket))
	if total == 0 {
		return out
	}
	for _, n := range ticket {
		m := Maturity{Number: n, Count: freq[n], DrawsAgo: total}
		if last, ok := lastSeen[n]; ok {
			m.DrawsAgo = total - last - 1
		}
		if m.Count > 0 {
			m.AvgGap = float64(total) / float64(m.Count)
			score, err := stats.PoissonMaturity(float64(m.DrawsAgo), m.AvgGap)
			if err == nil {
				m.Known = true
				m.Score = score
				if l, err := stats.LabelFor(score); err == nil {
					m.Label = l.Key
				}
			}
			m.AvgGap = math.Round(m.AvgGap*100) / 100
		}
		out = append(out, m)
	}
	return out
}
