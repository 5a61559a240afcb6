package excel

// RawRowData represents a row of raw data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete tabular dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Records returns the rows in the shape the coercer expects
func (d *ExcelData) Records() []map[string]string {
	out := make([]map[string]string, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r
	}
	return out
}
