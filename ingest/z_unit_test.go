package ingest_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/drawlab/errs"
	"github.com/zintix-labs/drawlab/history"
	"github.com/zintix-labs/drawlab/ingest"
)

func TestParseCSVNamedColumns(t *testing.T) {
	in := `Fecha,num1,num2,num3,num4,num5,num6,Bonus
2024-01-09,4,8,15,16,23,42,7
2024-01-02,5,12,25,38,45,55,
2024-01-05,1,2,x,,0,
,1,2,3,4,5,6,1
`
	res, err := ingest.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 0, res.Columns.Date)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, res.Columns.Numbers)
	require.Equal(t, 7, res.Columns.Bonus)

	require.Equal(t, 4, res.Rows)
	require.Equal(t, 1, res.Skipped, "row without a date is dropped")
	require.Len(t, res.Draws, 3)

	// oldest first
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), res.Draws[0].Date)
	require.Equal(t, []int{5, 12, 25, 38, 45, 55}, res.Draws[0].Numbers)
	require.Nil(t, res.Draws[0].Bonus)

	// two positive integers are enough to keep the row; the core decides validity
	require.Equal(t, []int{1, 2}, res.Draws[1].Numbers)

	require.NotNil(t, res.Draws[2].Bonus)
	require.Equal(t, 7, *res.Draws[2].Bonus)
}

func TestParseCSVUnnamedColumns(t *testing.T) {
	in := "when,a,b,c,d,e\n03/02/2024,1,2,3,4,5\n01/02/2024,6,7,8,9,10\n"
	res, err := ingest.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 0, res.Columns.Date, "first column is the date when no header matches")
	require.Equal(t, []int{1, 2, 3, 4, 5}, res.Columns.Numbers)
	require.Len(t, res.Draws, 2)
	require.Equal(t, time.February, res.Draws[0].Date.Month(), "day-first layout")
	require.Equal(t, 1, res.Draws[0].Date.Day())
}

func TestParseCSVStableOrderForSameDate(t *testing.T) {
	in := "date,n1,n2,n3\n2024-01-01,1,2,3\n2024-01-01,4,5,6\n"
	res, err := ingest.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, res.Draws[0].Numbers)
	require.Equal(t, []int{4, 5, 6}, res.Draws[1].Numbers)
}

func TestParseCSVErrors(t *testing.T) {
	_, err := ingest.ParseCSV(strings.NewReader("fecha,n1,n2\n"))
	require.Error(t, err)
	e, ok := errs.AsErr(err)
	require.True(t, ok)
	require.Equal(t, errs.Warn, e.ErrLv)

	_, err = ingest.ParseCSV(strings.NewReader("fecha,n1,n2\n2024-01-01,x,y\n"))
	require.ErrorContains(t, err, "no valid rows")

	_, err = ingest.ParseCSV(failingReader{})
	e, ok = errs.AsErr(err)
	require.True(t, ok)
	require.Equal(t, errs.Fatal, e.ErrLv)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestDetectColumns(t *testing.T) {
	cols := ingest.DetectColumns([]string{"\ufeffSorteo", "Bola 1", "Bola 2", "Complementario", "Notas"})
	require.Equal(t, 0, cols.Date)
	require.Equal(t, []int{1, 2}, cols.Numbers)
	require.Equal(t, 3, cols.Bonus)

	cols = ingest.DetectColumns([]string{"x"})
	require.Equal(t, -1, cols.Date)
	require.Equal(t, []int{0}, cols.Numbers)
}

func TestParseDate(t *testing.T) {
	d, ok := ingest.ParseDate("45292")
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)

	d, ok = ingest.ParseDate("2024-03-05T10:00:00Z")
	require.True(t, ok)
	require.Equal(t, 10, d.Hour())

	d, ok = ingest.ParseDate("12/31/2023")
	require.True(t, ok, "month-first is tried when day-first fails")
	require.Equal(t, time.December, d.Month())

	_, ok = ingest.ParseDate("yesterday")
	require.False(t, ok)
	_, ok = ingest.ParseDate("")
	require.False(t, ok)
}

func TestSummarize(t *testing.T) {
	empty := ingest.Summarize(nil)
	require.Zero(t, empty.TotalDraws)
	require.Nil(t, empty.DateRange.From)
	require.NotNil(t, empty.Frequency)

	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	s := ingest.Summarize([]history.Draw{
		{Date: d1, Numbers: []int{1, 2, 3}},
		{Date: d2, Numbers: []int{3, 4, 5}},
	})
	require.Equal(t, 2, s.TotalDraws)
	require.Equal(t, d2, *s.DateRange.From)
	require.Equal(t, d1, *s.DateRange.To)
	require.Equal(t, 2, s.Frequency[3])
	require.Equal(t, 1, s.Frequency[5])
}
