// Package reader extracts book text from the file formats bookvox understands.
package reader

import (
	"os"
	"path/filepath"
	"strings"
)

// Format defines a file format reader for extracting text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// FormatFor returns the registered format for filename, or nil for plain text.
func FormatFor(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return nil
}

// ExtractText extracts text from a file, using a registered format or plain text fallback.
func ExtractText(filename string) (string, error) {
	if f := FormatFor(filename); f != nil {
		return f.Extract(filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExtractChapters returns the chapters of a file. Formats without chapter
// support yield a single untitled chapter holding the whole text.
func ExtractChapters(filename string) ([]Chapter, error) {
	if ce, ok := FormatFor(filename).(ChapterExtractor); ok {
		return ce.ExtractChapters(filename)
	}
	text, err := ExtractText(filename)
	if err != nil {
		return nil, err
	}
	return []Chapter{{Text: text}}, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
