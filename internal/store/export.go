package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/thought-stick/internal/model"
)

// Encode serializes notes as "json" (default) or "yaml".
func Encode(notes []model.Note, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.MarshalIndent(notes, "", "  ")
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(notes); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported format %q (use json or yaml)", format)
}

// Decode parses notes produced by Encode.
func Decode(data []byte, format string) ([]model.Note, error) {
	var notes []model.Note
	switch strings.ToLower(format) {
	case "", "json":
		if err := json.Unmarshal(data, &notes); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &notes); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
	return notes, nil
}

// Export returns the current collection in the given format.
func (s *NoteStore) Export(format string) ([]byte, error) {
	return Encode(s.Notes(), format)
}

// Import adds notes from an export. Notes with empty text or an id already
// on the board are skipped. Returns the number of notes added.
func (s *NoteStore) Import(ctx context.Context, notes []model.Note) (int, error) {
	imported := 0
	for _, n := range notes {
		if n.ID == "" || strings.TrimSpace(n.Text) == "" {
			continue
		}
		if _, ok := s.Get(n.ID); ok {
			continue
		}
		if err := s.Add(ctx, n); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
