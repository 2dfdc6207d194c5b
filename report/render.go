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

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/drawlab/errs"
)

var lang language.Tag = language.English

// Render 定義輸出行為
type Render interface {
	Write(w io.Writer, r *DiagnosticReport) error
}

// RenderFor 依格式名稱取得 Render：json / yaml / table
func RenderFor(format string) (Render, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return &TableRender{}, nil
	case "json":
		return &JsonRender{}, nil
	case "yaml", "yml":
		return &YAMLRender{}, nil
	}
	return nil, errs.NewWarn(fmt.Sprintf("unknown report format %q", format))
}

// Json渲染
type JsonRender struct {
	Indent bool
}

func (jr *JsonRender) Write(w io.Writer, r *DiagnosticReport) error {
	enc := json.NewEncoder(w)
	if jr.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, r *DiagnosticReport) error {
	return ForceReadableList(w, r)
}

// ForceReadableList 以 YAML 輸出，只含純量的序列（例如號碼組）改用 flow style: [a, b, c]
func ForceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		scalars := true
		for _, c := range n.Content {
			styleReadableSequences(c)
			if c != nil && c.Kind != yaml.ScalarNode {
				scalars = false
			}
		}
		if scalars {
			n.Style = yaml.FlowStyle
		}
	}
}

// 表格渲染（終端機用）
type TableRender struct{}

func (tr *TableRender) Write(w io.Writer, r *DiagnosticReport) error {
	var b strings.Builder
	keys, msg := r.fmtBasic()
	b.WriteString(FmtTable(r.title(), keys, msg))
	if r.Valid {
		keys, msg = r.fmtGroups()
		b.WriteString(FmtTable("Match History", keys, msg))
		keys, msg = r.fmtNumbers()
		b.WriteString(FmtTable("Numbers", keys, msg))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *DiagnosticReport) title() string {
	if r.GameName != "" {
		return r.GameName
	}
	return r.Game
}

func (r *DiagnosticReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	if !r.Valid {
		msg := map[string]string{
			"Input": fmt.Sprint(r.Input),
			"Valid": "no",
			"Error": fmt.Sprintf("%s: %s", r.ErrorKind, r.Error),
		}
		return []string{"Input", "Valid", "Error"}, msg
	}
	msg := map[string]string{
		"Numbers":    joinInts(r.Numbers),
		"Valid":      "yes",
		"Sum":        p.Sprintf("%d (ideal %.1f, %+.1f)", r.Stats.Sum, r.Ideal.IdealSum, r.Ideal.SumDelta),
		"Green Zone": p.Sprintf("%d-%d %s", r.Ideal.ZoneMin, r.Ideal.ZoneMax, yesNo(r.Ideal.InGreenZone)),
		"Even / Odd": p.Sprintf("%d / %d %s", r.Stats.Even, r.Stats.Odd, yesNo(r.Ideal.IdealEven)),
		"Primes":     p.Sprintf("%d %s", r.Stats.Primes, yesNo(r.Ideal.IdealPrimes)),
		"Draws":      p.Sprintf("%d (valid %d, skipped %d)", r.Summary.HistoricalDraws, r.Summary.ValidDraws, r.Summary.SkippedDraws),
	}
	return []string{"Numbers", "Valid", "Sum", "Green Zone", "Even / Odd", "Primes", "Draws"}, msg
}

func (r *DiagnosticReport) fmtGroups() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(r.History.Groups))
	msg := make(map[string]string, len(r.History.Groups))
	for i, g := range r.History.Groups {
		k := g.Label + " hits"
		keys = append(keys, k)
		o := r.Theory.Groups[i]
		line := p.Sprintf("%d draws, expected %.2f, 1 in %.0f", o.Observed, o.Expected, o.OneIn)
		if len(g.Records) > 0 {
			top := g.Records[0]
			line += p.Sprintf(" | top (%s) x%d gap %.1f", joinInts(top.Numbers), top.Count, top.AvgGap)
		}
		msg[k] = line
	}
	return keys, msg
}

func (r *DiagnosticReport) fmtNumbers() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	hot := make(map[int]float64, len(r.History.Hot))
	for _, h := range r.History.Hot {
		hot[h.Number] = h.Pct
	}
	cold := make(map[int]int, len(r.History.Cold))
	for _, c := range r.History.Cold {
		cold[c.Number] = c.DrawsAgo
	}
	mat := make(map[int]string, len(r.History.Maturity))
	for _, m := range r.History.Maturity {
		if m.Known {
			mat[m.Number] = p.Sprintf("maturity %d (%s)", m.Score, m.Label)
		} else {
			mat[m.Number] = "maturity n/a"
		}
	}

	keys := make([]string, 0, len(r.Numbers))
	msg := make(map[string]string, len(r.Numbers))
	for _, n := range r.Numbers {
		k := fmt.Sprintf("%02d", n)
		keys = append(keys, k)
		parts := []string{p.Sprintf("seen %d", r.History.Frequency[n])}
		if pct, ok := hot[n]; ok {
			parts = append(parts, p.Sprintf("hot %.1f%%", pct))
		}
		if ago, ok := cold[n]; ok {
			parts = append(parts, p.Sprintf("cold %d draws ago", ago))
		}
		if s, ok := mat[n]; ok {
			parts = append(parts, s)
		}
		msg[k] = strings.Join(parts, ", ")
	}
	return keys, msg
}

// FmtTable 將 key/value 以置中標題的框線表格輸出
func FmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	b.WriteString(divider)
	for _, k := range keys {
		b.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

func yesNo(ok bool) string {
	if ok {
		return "[ok]"
	}
	return "[--]"
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
