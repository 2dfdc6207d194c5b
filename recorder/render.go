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

package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zintix-labs/drawlab/report"
)

// Write 依格式輸出：json / yaml / table
func (b *BacktestReport) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return json.NewEncoder(w).Encode(b)
	case "yaml", "yml":
		return report.ForceReadableList(w, b)
	default:
		_, err := io.WriteString(w, b.Table())
		return err
	}
}

// Table 終端機表格
func (b *BacktestReport) Table() string {
	p := message.NewPrinter(language.English)
	keys := []string{"Game", "Mode", "Seed", "Tickets", "Draws", "Green Zone", "Fallbacks", "Sum Mean", "Sum STD", "Used"}
	msg := map[string]string{
		"Game":       b.Game,
		"Mode":       b.Mode,
		"Seed":       fmt.Sprintf("%d", b.Seed),
		"Tickets":    p.Sprintf("%d", b.Tickets),
		"Draws":      p.Sprintf("%d", b.Draws),
		"Green Zone": p.Sprintf("%.2f %%", 100*b.ZoneRate),
		"Fallbacks":  p.Sprintf("%d", b.Fallbacks),
		"Sum Mean":   p.Sprintf("%.2f", b.MeanSum),
		"Sum STD":    p.Sprintf("%.2f", b.StdSum),
		"Used":       b.Used.String(),
	}
	for _, r := range b.Rows {
		k := fmt.Sprintf(">= %d hits", r.Hits)
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d (%.4f %% / theory %.4f %%)", r.Tickets, 100*r.Rate, 100*r.Expected)
	}
	return report.FmtTable("Backtest", keys, msg)
}
