package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// evalLog appends one CSV row per evaluation. Columns depend on the
// parameter set, so rows are built by hand rather than from a struct.
type evalLog struct {
	f *os.File
	w *csv.Writer
}

func createEvalLog(path string, params *ParamVector) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l := &evalLog{f: f, w: csv.NewWriter(f)}

	header := []string{"eval", "fitness", "quality", "failure"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.write(header); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// Append writes one evaluation and flushes so partial runs stay readable.
func (l *evalLog) Append(eval int, fitness, quality float64, failure string, values []float64) error {
	row := []string{
		strconv.Itoa(eval),
		fmt.Sprintf("%.6f", fitness),
		fmt.Sprintf("%.4f", quality),
		failure,
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	return l.write(row)
}

func (l *evalLog) write(row []string) error {
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

// Close flushes and closes the file.
func (l *evalLog) Close() error {
	l.w.Flush()
	return l.f.Close()
}
