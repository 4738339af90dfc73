package store

import (
	"os"
	"sort"
)

// Stats holds board statistics.
type Stats struct {
	DBPath      string       `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	DBSizeBytes int64        `json:"db_size_bytes" yaml:"db_size_bytes"`
	TotalNotes  int          `json:"total_notes" yaml:"total_notes"`
	MaxZIndex   int          `json:"max_z_index" yaml:"max_z_index"`
	Colors      []CountStats `json:"colors" yaml:"colors"`
	Stickers    []CountStats `json:"stickers" yaml:"stickers"`
}

// CountStats holds a per-value count.
type CountStats struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Stats returns statistics for the current collection.
func (s *NoteStore) Stats(dbPath string) *Stats {
	st := &Stats{DBPath: dbPath}

	if dbPath != "" {
		if info, err := os.Stat(dbPath); err == nil {
			st.DBSizeBytes = info.Size()
		}
	}

	notes := s.Notes()
	st.TotalNotes = len(notes)

	colors := map[string]int{}
	stickers := map[string]int{}
	for _, n := range notes {
		colors[n.Color.Name()]++
		stickers[string(n.StickerKind)]++
		if n.ZIndex > st.MaxZIndex {
			st.MaxZIndex = n.ZIndex
		}
	}
	st.Colors = sortedCounts(colors)
	st.Stickers = sortedCounts(stickers)

	return st
}

func sortedCounts(m map[string]int) []CountStats {
	out := make([]CountStats, 0, len(m))
	for name, n := range m {
		out = append(out, CountStats{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
