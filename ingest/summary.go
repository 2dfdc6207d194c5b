package ingest

import (
	"time"

	"github.com/zintix-labs/drawlab/history"
)

// DateRange 開獎日期範圍；沒有資料時兩端皆為 nil
type DateRange struct {
	From *time.Time `json:"from" yaml:"from"`
	To   *time.Time `json:"to"   yaml:"to"`
}

// Summary 歷史資料摘要
type Summary struct {
	TotalDraws int         `json:"total_draws" yaml:"total_draws"`
	DateRange  DateRange   `json:"date_range"  yaml:"date_range"`
	Frequency  map[int]int `json:"frequency"   yaml:"frequency"`
}

// Summarize 統計筆數、日期範圍與號碼出現次數（不做規則檢查）
func Summarize(draws []history.Draw) Summary {
	s := Summary{TotalDraws: len(draws), Frequency: map[int]int{}}
	for i := range draws {
		d := draws[i]
		if !d.Date.IsZero() {
			if s.DateRange.From == nil || d.Date.Before(*s.DateRange.From) {
				t := d.Date
				s.DateRange.From = &t
			}
			if s.DateRange.To == nil || d.Date.After(*s.DateRange.To) {
				t := d.Date
				s.DateRange.To = &t
			}
		}
		for _, n := range d.Numbers {
			s.Frequency[n]++
		}
	}
	return s
}
