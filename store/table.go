package store

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// ReadTable reads a CSV or XLSX table. The header row names the columns and
// the first column holds the row index. Empty cells and "NaN" read as NaN.
// XLSX tables are read from the first sheet.
func ReadTable(path string) (*series.Frame, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open CSV file")
		}
		defer file.Close()
		return ReadCSV(file)
	case ".xlsx":
		return readExcel(path)
	default:
		return nil, errors.NewInvalidParameterError("store.ReadTable", "path", path, "unsupported file type "+ext)
	}
}

// ReadCSV parses a CSV table from r.
func ReadCSV(r io.Reader) (*series.Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV")
	}
	return processRows(rows)
}

func readExcel(path string) (*series.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewValueError("store.ReadTable", "workbook has no sheets: "+path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	return processRows(rows)
}

func processRows(rows [][]string) (*series.Frame, error) {
	if len(rows) == 0 {
		return nil, errors.NewValueError("store.ReadTable", "table has no header row")
	}
	header := rows[0]
	if len(header) == 0 {
		return nil, errors.NewValueError("store.ReadTable", "header row is empty")
	}
	columns := make([]string, len(header)-1)
	for j, h := range header[1:] {
		columns[j] = strings.TrimSpace(h)
	}

	index := make([]string, 0, len(rows)-1)
	data := make([]float64, 0, (len(rows)-1)*len(columns))
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		index = append(index, strings.TrimSpace(row[0]))
		for j := range columns {
			cell := ""
			if j+1 < len(row) {
				cell = row[j+1]
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %s", i+2, columns[j])
			}
			data = append(data, v)
		}
	}
	return series.NewFrame(index, columns, data)
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// WriteCSV writes f in the layout ReadCSV reads.
func WriteCSV(w io.Writer, f *series.Frame, indexName string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{indexName}, f.Columns...)); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	record := make([]string, f.Cols()+1)
	for i, id := range f.Index {
		record[0] = id
		for j := 0; j < f.Cols(); j++ {
			record[j+1] = strconv.FormatFloat(f.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}
