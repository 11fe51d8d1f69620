package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHexColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "empty", value: "", want: false},
		{name: "whitespace", value: "   ", want: false},
		{name: "missing_hash", value: "AABBCC", want: false},
		{name: "short_hex", value: "#ABC", want: false},
		{name: "long_hex", value: "#AABBCCDD", want: false},
		{name: "invalid_char", value: "#AABBCG", want: false},
		{name: "lowercase_hex", value: "#aabbcc", want: true},
		{name: "uppercase_hex", value: "#AABBCC", want: true},
		{name: "trimmed_hex", value: "  #AABBCC  ", want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, IsHexColor(test.value))
		})
	}
}

func TestDefaultThemeValidates(t *testing.T) {
	assert.NoError(t, DefaultTheme().Validate())
}

func TestThemeValidate_RejectsBadColor(t *testing.T) {
	theme := DefaultTheme()
	theme.AccentColor = "teal"
	assert.ErrorContains(t, theme.Validate(), "accent_color")
}

func TestBestTextColor(t *testing.T) {
	tests := []struct {
		background string
		want       string
	}{
		{background: "#000000", want: "#FFFFFF"},
		{background: "#FFFFFF", want: "#000000"},
		{background: "#0f766e", want: "#FFFFFF"},
		{background: "not-a-color", want: "#000000"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, BestTextColor(test.background), "background %s", test.background)
	}
}

func TestThemeValidate_ReportsEveryField(t *testing.T) {
	theme := DefaultTheme()
	theme.PrimaryColor = "navy"
	theme.AccentColor = "#12345"

	err := theme.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary_color must be a 6-digit hex color")
	assert.ErrorContains(t, err, "accent_color must be a 6-digit hex color")
}

func TestThemeWithDefaults(t *testing.T) {
	got := Theme{PrimaryColor: " #112233 ", AccentColor: "teal"}.WithDefaults()
	want := DefaultTheme()
	want.PrimaryColor = "#112233"
	assert.Equal(t, want, got)
}
