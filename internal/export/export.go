// Package export is the boundary to the formatters that render a
// GameSummary to bytes. Only the JSON rendering lives here.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// Formatter renders a summary. CSV and PDF formatters live outside this
// service and implement the same interface.
type Formatter interface {
	ContentType() string
	FileExtension() string
	Format(w io.Writer, summary models.GameSummary) error
}

// JSONFormatter renders the summary as indented JSON
type JSONFormatter struct {
	Indent string
}

// NewJSONFormatter creates a JSON formatter with two-space indentation
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: "  "}
}

func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

func (f *JSONFormatter) FileExtension() string {
	return "json"
}

// Format writes the summary to w
func (f *JSONFormatter) Format(w io.Writer, summary models.GameSummary) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

// Registry looks formatters up by file extension
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a registry holding the given formatters
func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{formatters: make(map[string]Formatter)}
	for _, f := range formatters {
		r.Register(f)
	}
	return r
}

// Register adds a formatter, replacing any with the same extension
func (r *Registry) Register(f Formatter) {
	r.formatters[f.FileExtension()] = f
}

// Get retrieves a formatter by extension
func (r *Registry) Get(ext string) (Formatter, error) {
	f, ok := r.formatters[ext]
	if !ok {
		return nil, fmt.Errorf("no formatter for %q", ext)
	}
	return f, nil
}
