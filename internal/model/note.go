// Package model defines the core board data types.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Note is a single item pinned to the board.
// Field names on the wire match the browser payload so exported boards stay loadable.
type Note struct {
	ID          string      `json:"id" yaml:"id"`
	Text        string      `json:"text" yaml:"text"`
	Color       Color       `json:"color" yaml:"color"`
	StickerKind StickerKind `json:"stickerType" yaml:"stickerType"`
	X           float64     `json:"x" yaml:"x"`
	Y           float64     `json:"y" yaml:"y"`
	Rotation    float64     `json:"rotation" yaml:"rotation"`
	ZIndex      int         `json:"zIndex" yaml:"zIndex"`
	CreatedAt   int64       `json:"createdAt" yaml:"createdAt"` // unix milliseconds
	AutoThrow   bool        `json:"autoThrow" yaml:"autoThrow"`
}

// Created returns CreatedAt as a time.
func (n Note) Created() time.Time {
	return time.UnixMilli(n.CreatedAt).UTC()
}

// Color is a palette entry, stored as its hex value.
type Color string

const (
	ColorButter Color = "#F9E07B"
	ColorGrass  Color = "#7BC47F"
	ColorMint   Color = "#98E8C1"
	ColorSky    Color = "#87CEEB"
)

// DefaultColor is used when no color is given.
const DefaultColor = ColorButter

// Palette lists the allowed colors by name, in display order.
var Palette = []struct {
	Name  string
	Color Color
}{
	{"butter", ColorButter},
	{"grass", ColorGrass},
	{"mint", ColorMint},
	{"sky", ColorSky},
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if p.Color == c {
			return true
		}
	}
	return false
}

// Name returns the palette name of c, or the raw value if unknown.
func (c Color) Name() string {
	for _, p := range Palette {
		if p.Color == c {
			return p.Name
		}
	}
	return string(c)
}

// ParseColor accepts a palette name ("mint") or hex value ("#98E8C1").
// An empty string yields DefaultColor.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultColor, nil
	}
	for _, p := range Palette {
		if strings.EqualFold(p.Name, s) || strings.EqualFold(string(p.Color), s) {
			return p.Color, nil
		}
	}
	return "", fmt.Errorf("invalid color %q (valid: butter, grass, mint, sky)", s)
}

// StickerKind is the decorative character drawn for a note.
type StickerKind string

// StickerKinds are the allowed sticker kinds.
var StickerKinds = []StickerKind{
	"ghost", "kitty", "bunny", "cloud", "star", "frog",
	"bear", "mushroom", "chick", "dino", "alien", "whale",
}

// Valid reports whether k is a known sticker kind.
func (k StickerKind) Valid() bool {
	for _, s := range StickerKinds {
		if s == k {
			return true
		}
	}
	return false
}

// ParseStickerKind validates s. An empty string yields "" (pick at random).
func ParseStickerKind(s string) (StickerKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	k := StickerKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid sticker %q", s)
	}
	return k, nil
}
