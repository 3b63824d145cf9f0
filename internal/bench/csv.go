package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Timing is one row of timings.csv.
type Timing struct {
	NIter   int
	Seconds float64
	Method  string
}

var csvHeader = []string{"n_iter", "time_sec", "method"}

// WriteCSV writes the mean time of every measurement.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, m := range r.Measurements {
		row := []string{
			strconv.Itoa(m.NIter),
			strconv.FormatFloat(m.Mean.Seconds(), 'f', 6, 64),
			string(m.Mode),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV. Rows that do not parse are skipped.
func ReadCSV(r io.Reader) ([]Timing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty timings file")
	}

	timings := make([]Timing, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		n, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		secs, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		timings = append(timings, Timing{NIter: n, Seconds: secs, Method: rec[2]})
	}
	return timings, nil
}
