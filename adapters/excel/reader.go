package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"beerdash/adapters/datareadiness/coercer"
	"beerdash/ports"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
	coercer  *coercer.RowCoercer
}

var _ ports.RowSource = (*DataReader)(nil)

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		config:   config,
		fileType: fileType,
		coercer:  coercer.NewRowCoercer(config.CoercionConfig),
	}
}

// Name identifies the source in logs and ingest reports
func (r *DataReader) Name() string {
	return r.config.FilePath
}

// ReadRows reads the file and validates every row
func (r *DataReader) ReadRows(ctx context.Context) (*ports.IngestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	// header is line 1
	return r.coercer.CoerceAll(r.Name(), data.Headers, data.Records(), 2)
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.config.FilePath)
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

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("Excel file must have a header row")
	}

	return processRows("XLSX", rows), nil
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV parses CSV content with a header row. Short rows are allowed.
func ReadCSV(src io.Reader) (*ExcelData, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	log.Printf("[DataReader] CSV read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV data must have a header row")
	}

	return processRows("CSV", rows), nil
}

// processRows converts raw string rows into ExcelData format
func processRows(kind string, rows [][]string) *ExcelData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(RawRowData, len(headers))

		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}

		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s data processed (%d columns, %d rows)", kind, len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}
}
