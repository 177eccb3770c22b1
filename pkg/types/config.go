package types

import "errors"

// Config holds the runtime settings of a dashboard session.
type Config struct {
	Sector       string `json:"sector" yaml:"sector"`
	ExportDir    string `json:"export_dir" yaml:"export_dir"`
	ExportFormat string `json:"export_format" yaml:"export_format"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
}

// Supported export formats.
const (
	ExportXLSX   = "xlsx"
	ExportJSONL  = "jsonl"
	ExportSQLite = "sqlite"
)

// Defaults applied when a config value is empty.
const (
	DefaultSector       = "agriculture"
	DefaultExportFormat = ExportXLSX
	DefaultLogLevel     = "info"
)

// Config validation errors.
var (
	ErrSectorEmpty         = errors.New("sector must not be empty")
	ErrExportFormatUnknown = errors.New("unknown export format")
	ErrLogLevelUnknown     = errors.New("unknown log level")
)

// knownExportFormats lists the formats that Validate accepts.
var knownExportFormats = map[string]bool{
	ExportXLSX:   true,
	ExportJSONL:  true,
	ExportSQLite: true,
}

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// IsValidExportFormat reports whether f names a supported export format.
func IsValidExportFormat(f string) bool {
	return knownExportFormats[f]
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. Whether the sector exists is checked by the
// sector store, not here.
func (c Config) Validate() error {
	if c.Sector == "" {
		return ErrSectorEmpty
	}
	if c.ExportFormat != "" && !knownExportFormats[c.ExportFormat] {
		return ErrExportFormatUnknown
	}
	if c.LogLevel != "" && !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
