package export

import (
	"fmt"
	"strings"
	"time"
)

// Format identifies a report output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat normalises a user supplied format, defaulting to JSON.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Dataset is a rendered table: headers plus rows of already formatted cells.
type Dataset struct {
	Title       string     `json:"title"`
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

func (d Dataset) validate(kind string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", kind)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("%s row %d has %d cells, want %d", kind, i, len(row), len(d.Headers))
		}
	}
	return nil
}

// Renderer turns a dataset into bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}
