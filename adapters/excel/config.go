package excel

import (
	"beerdash/adapters/datareadiness/coercer"
)

// ExcelConfig holds configuration for a file data source
type ExcelConfig struct {
	FilePath       string                 `json:"file_path"`
	Sheet          string                 `json:"sheet"` // empty means the first sheet
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns sensible defaults for file processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
