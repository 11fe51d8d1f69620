// Package models holds presentation settings shared by config and templates.
package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Palette colours sit behind buttons and calendar cells, so the large-text
// AA ratio applies.
const minContrastRatio = 3.0

const (
	black = "#000000"
	white = "#FFFFFF"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// Theme is the colour palette of the booking pages. Accent marks available
// days and selected slots, highlight is used for validation messages.
type Theme struct {
	PrimaryColor   string `yaml:"primary_color" json:"primaryColor"`
	SecondaryColor string `yaml:"secondary_color" json:"secondaryColor"`
	TertiaryColor  string `yaml:"tertiary_color" json:"tertiaryColor"`
	AccentColor    string `yaml:"accent_color" json:"accentColor"`
	HighlightColor string `yaml:"highlight_color" json:"highlightColor"`
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:   "#1f2937",
		SecondaryColor: "#e5e7eb",
		TertiaryColor:  "#f9fafb",
		AccentColor:    "#0f766e",
		HighlightColor: "#b91c1c",
	}
}

// WithDefaults replaces blank or malformed colours with the default palette.
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	pick := func(value, fallback string) string {
		if v := strings.TrimSpace(value); IsHexColor(v) {
			return v
		}
		return fallback
	}
	return Theme{
		PrimaryColor:   pick(t.PrimaryColor, d.PrimaryColor),
		SecondaryColor: pick(t.SecondaryColor, d.SecondaryColor),
		TertiaryColor:  pick(t.TertiaryColor, d.TertiaryColor),
		AccentColor:    pick(t.AccentColor, d.AccentColor),
		HighlightColor: pick(t.HighlightColor, d.HighlightColor),
	}
}

// Validate reports every colour that is not hex or that neither black nor
// white text can be read on.
func (t Theme) Validate() error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"primary_color", t.PrimaryColor},
		{"secondary_color", t.SecondaryColor},
		{"tertiary_color", t.TertiaryColor},
		{"accent_color", t.AccentColor},
		{"highlight_color", t.HighlightColor},
	} {
		bg, err := parseColor(f.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be a 6-digit hex color like #AABBCC", f.name))
			continue
		}
		text, ratio := bestText(bg)
		if ratio < minContrastRatio {
			errs = append(errs, fmt.Errorf("%s reaches only %.2f:1 contrast (best with %s), need %.1f:1",
				f.name, ratio, text, minContrastRatio))
		}
	}
	return errors.Join(errs...)
}

// BestTextColor picks black or white, whichever reads better on background.
// Unparseable backgrounds get black.
func BestTextColor(background string) string {
	bg, err := parseColor(background)
	if err != nil {
		return black
	}
	text, _ := bestText(bg)
	return text
}

type rgb struct{ r, g, b float64 }

var (
	blackRGB = rgb{0, 0, 0}
	whiteRGB = rgb{1, 1, 1}
)

func parseColor(hex string) (rgb, error) {
	if !hexColorRegex.MatchString(hex) {
		return rgb{}, fmt.Errorf("invalid hex color: %q", hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("invalid hex color: %q", hex)
	}
	return rgb{
		r: float64(v>>16&0xFF) / 255,
		g: float64(v>>8&0xFF) / 255,
		b: float64(v&0xFF) / 255,
	}, nil
}

func bestText(bg rgb) (string, float64) {
	onBlack := contrast(blackRGB, bg)
	onWhite := contrast(whiteRGB, bg)
	if onWhite > onBlack {
		return white, onWhite
	}
	return black, onBlack
}

func contrast(a, b rgb) float64 {
	la, lb := a.luminance(), b.luminance()
	return (math.Max(la, lb) + 0.05) / (math.Min(la, lb) + 0.05)
}

func (c rgb) luminance() float64 {
	return 0.2126*linear(c.r) + 0.7152*linear(c.g) + 0.0722*linear(c.b)
}

func linear(channel float64) float64 {
	if channel <= 0.03928 {
		return channel / 12.92
	}
	return math.Pow((channel+0.055)/1.055, 2.4)
}
