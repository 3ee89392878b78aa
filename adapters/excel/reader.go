// Package excel reads tabular datasets from xlsx and csv files.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edakit/domain/dataset"
	"edakit/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type is taken from the extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.Nop()}
}

// WithSheet selects the worksheet to read. The first sheet is used when empty.
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// WithLogger sets the logger used for read timings
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// ReadData reads the header row and data rows as raw strings.
func (r *DataReader) ReadData() (*dataset.RawTable, error) {
	r.logger.Debug("[DataReader] reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcelData() (*dataset.RawTable, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no worksheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] sheet %s read in %.2fms (%d rows)", sheet, msSince(start), len(rows))

	return processRows(rows)
}

func (r *DataReader) readCSVData() (*dataset.RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	table, err := ReadCSV(file)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", msSince(start), len(table.Rows))
	return table, nil
}

// ReadCSV reads CSV content from any reader. Rows may have differing widths.
func ReadCSV(in io.Reader) (*dataset.RawTable, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return processRows(rows)
}

// processRows splits the header row from the data rows and drops blank rows.
func processRows(rows [][]string) (*dataset.RawTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have at least a header row and one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		data = append(data, cells)
	}

	return &dataset.RawTable{Headers: headers, Rows: data}, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Nanoseconds()) / 1e6
}

// LoadTable reads path and coerces it to a numeric table, binarizing target
// when it holds two class names.
func LoadTable(path, sheet, target string, logger *internal.Logger) (*dataset.Table, []dataset.DataError, error) {
	raw, err := NewDataReader(path).WithSheet(sheet).WithLogger(logger).ReadData()
	if err != nil {
		return nil, nil, err
	}
	return dataset.FromRaw(raw, target)
}
