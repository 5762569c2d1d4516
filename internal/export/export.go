// Package export encodes the expense collection into downloadable files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"budgettracker/internal/core"
)

// Format selects an encoder.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats, CSV first.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatYAML}
}

// ParseFormat accepts a format name in any case; "yml" is an alias of yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Encoder turns expenses into file contents.
type Encoder interface {
	EncodeExpenses(expenses []core.Expense) ([]byte, error)
}

// EncoderFor returns the encoder of a format.
func EncoderFor(f Format) (Encoder, error) {
	switch f {
	case FormatCSV:
		return CSVEncoder{}, nil
	case FormatJSON:
		return JSONEncoder{}, nil
	case FormatYAML:
		return YAMLEncoder{}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

// File is an encoded export ready to be written or offered for download.
type File struct {
	Name string
	Data []byte
}

// FileName returns expenses_<date>.<ext>.
func FileName(f Format, today core.Date) string {
	return fmt.Sprintf("expenses_%s.%s", today, f)
}

// Encode builds the export file for expenses. An empty collection yields
// core.ErrNothingToExport.
func Encode(f Format, expenses []core.Expense, today core.Date) (File, error) {
	if len(expenses) == 0 {
		return File{}, core.ErrNothingToExport
	}
	enc, err := EncoderFor(f)
	if err != nil {
		return File{}, err
	}
	data, err := enc.EncodeExpenses(expenses)
	if err != nil {
		return File{}, fmt.Errorf("encode %s: %w", f, err)
	}
	return File{Name: FileName(f, today), Data: data}, nil
}

// Save writes the file under dir and returns its path.
func (f File) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
