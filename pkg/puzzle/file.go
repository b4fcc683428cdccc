package puzzle

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk layout of a puzzle file.
type Format string

const (
	// FormatJSONLines holds one JSON description per line.
	FormatJSONLines Format = "jsonl"
	// FormatYAML holds one YAML document per description.
	FormatYAML Format = "yaml"
)

// maxLineSize bounds a single JSON line. Generated puzzles are far smaller.
const maxLineSize = 1 << 20

// FormatFromPath picks the format from the file extension.
// Anything that is not .yaml or .yml is treated as JSON lines.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSONLines
	}
}

// ReadFile loads every description in a puzzle file.
func ReadFile(path string) ([]*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open puzzle file: %w", err)
	}
	defer f.Close()

	return Read(f, FormatFromPath(path))
}

// Read decodes every description in r.
// Errors name the 1-based line (JSON lines) or document (YAML) that failed.
func Read(r io.Reader, format Format) ([]*Description, error) {
	switch format {
	case FormatYAML:
		return readYAML(r)
	case FormatJSONLines:
		return readJSONLines(r)
	default:
		return nil, fmt.Errorf("unknown puzzle format %q", format)
	}
}

func readJSONLines(r io.Reader) ([]*Description, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []*Description
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		desc, err := Parse([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("failed to load puzzle from line %d: %w", lineNo, err)
		}
		out = append(out, desc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read puzzle file: %w", err)
	}
	return out, nil
}

func readYAML(r io.Reader) ([]*Description, error) {
	dec := yaml.NewDecoder(r)

	var out []*Description
	for docNo := 1; ; docNo++ {
		var raw map[string]any
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load puzzle from document %d: invalid YAML (%v)", docNo, err)
		}
		desc, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to load puzzle from document %d: %w", docNo, err)
		}
		out = append(out, desc)
	}
}

// Write encodes descriptions in the given format, preserving extra keys.
func Write(w io.Writer, format Format, descs []*Description) error {
	switch format {
	case FormatJSONLines:
		enc := json.NewEncoder(w)
		for i, d := range descs {
			if err := enc.Encode(d); err != nil {
				return fmt.Errorf("failed to encode puzzle %d: %w", i, err)
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for i, d := range descs {
			if err := enc.Encode(d); err != nil {
				return fmt.Errorf("failed to encode puzzle %d: %w", i, err)
			}
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown puzzle format %q", format)
	}
}

// MarshalYAML mirrors MarshalJSON: required keys plus preserved extras.
func (d Description) MarshalYAML() (any, error) {
	return d.fields(), nil
}
