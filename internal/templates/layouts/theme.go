package layouts

import (
	"fmt"

	"github.com/codr1/vistos/internal/models"
)

// themeCSSVars renders the palette as CSS custom properties. Missing or
// malformed colours fall back to the default palette.
func themeCSSVars(theme *models.Theme) string {
	resolved := models.DefaultTheme()
	if theme != nil {
		resolved = theme.WithDefaults()
	}

	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-secondary:%s;--theme-tertiary:%s;--theme-accent:%s;--theme-accent-text:%s;--theme-highlight:%s;}",
		resolved.PrimaryColor,
		resolved.SecondaryColor,
		resolved.TertiaryColor,
		resolved.AccentColor,
		models.BestTextColor(resolved.AccentColor),
		resolved.HighlightColor,
	)
}
