package genematrix

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"

	"github.com/fhaive/dream"
)

// ReadTable parses a delimited numeric table with a header row of column
// labels and a leading column of row labels. The delimiter is autodetected.
func ReadTable(r io.Reader) (*Matrix, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := dream.DetermineDelimiter(bytes.NewReader(raw))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(records) < 2 {
		return nil, dream.Mismatchf("table needs a header row and at least one data row, got %d rows", len(records))
	}

	header := records[0]
	// Tolerate both R-style headers (one fewer field than data rows) and
	// headers that carry a label for the row-name column.
	colNames := header
	if len(header) == len(records[1]) {
		colNames = header[1:]
	}

	rowNames := make([]string, 0, len(records)-1)
	seen := make(map[string]struct{}, len(records)-1)
	data := make([]float64, 0, (len(records)-1)*len(colNames))
	for rowNum, rec := range records[1:] {
		if len(rec) != len(colNames)+1 {
			return nil, dream.Mismatchf("row %d has %d fields, expected %d", rowNum+2, len(rec), len(colNames)+1)
		}
		if _, dup := seen[rec[0]]; dup {
			return nil, dream.Configf("duplicate row identifier %q", rec[0])
		}
		seen[rec[0]] = struct{}{}
		rowNames = append(rowNames, rec[0])
		for _, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("row %q: non-numeric value %q", rec[0], field))
			}
			data = append(data, v)
		}
	}

	return &Matrix{
		RowNames: rowNames,
		ColNames: append([]string{}, colNames...),
		Data:     mat.NewDense(len(rowNames), len(colNames), data),
	}, nil
}

// ReadTableFile reads a delimited numeric table from disk.
func ReadTableFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return ReadTable(f)
}

// WriteTable writes the matrix as tab-delimited text with a header row and a
// leading row-label column.
func (m *Matrix) WriteTable(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := append([]string{""}, m.ColNames...)
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	r, c := m.Data.Dims()
	rec := make([]string, c+1)
	for i := 0; i < r; i++ {
		rec[0] = m.RowNames[i]
		for j := 0; j < c; j++ {
			rec[j+1] = strconv.FormatFloat(m.Data.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return pfx.Err(err)
		}
	}
	cw.Flush()

	return pfx.Err(cw.Error())
}

// WriteTableFile writes the matrix as tab-delimited text to disk.
func (m *Matrix) WriteTableFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	return m.WriteTable(f)
}
