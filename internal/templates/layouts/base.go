package layouts

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/vistos/internal/models"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// Base wraps content in the page document with the theme applied.
func Base(title string, content templ.Component, theme *models.Theme) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := fmt.Sprintf(`<!DOCTYPE html><html lang="pt"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>%s</title><script src="https://cdn.tailwindcss.com"></script><script src="%s"></script><style>%s</style></head>`,
			html.EscapeString(title), htmxScript, themeCSSVars(theme))
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<body class="min-h-screen bg-[var(--theme-tertiary)] text-[var(--theme-primary)]"><main class="py-8">`); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
