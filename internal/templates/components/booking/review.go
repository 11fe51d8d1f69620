package booking

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Review renders the read-only summary shown before payment.
func Review(data WizardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildReviewHTML(data))
		return err
	})
}

func buildReviewHTML(data WizardData) string {
	var b strings.Builder
	b.WriteString(`<div class="flex flex-col gap-6">`)
	for _, section := range data.Review {
		b.WriteString(fmt.Sprintf(`<section class="rounded-lg border border-border bg-background p-4" data-icon="%s">`, html.EscapeString(section.Icon)))
		b.WriteString(fmt.Sprintf(`<h3 class="mb-3 text-sm font-semibold text-foreground">%s</h3>`, html.EscapeString(section.Title)))
		b.WriteString(`<dl class="grid gap-3 sm:grid-cols-2">`)
		for _, row := range section.Rows {
			b.WriteString(`<div class="flex flex-col gap-0.5">`)
			b.WriteString(fmt.Sprintf(`<dt class="text-xs text-muted-foreground">%s</dt>`, html.EscapeString(row.Label)))
			b.WriteString(fmt.Sprintf(`<dd class="text-sm font-medium text-foreground">%s</dd>`, html.EscapeString(row.Display())))
			b.WriteString(`</div>`)
		}
		b.WriteString(`</dl></section>`)
	}

	b.WriteString(`<div class="flex items-start gap-3 rounded-lg border border-[var(--theme-accent)]/20 bg-[var(--theme-accent)]/5 p-4"><div>`)
	b.WriteString(`<p class="text-sm font-medium text-foreground">Confirme os seus dados antes de prosseguir</p>`)
	b.WriteString(`<p class="mt-1 text-xs leading-relaxed text-muted-foreground">Ao clicar em &ldquo;Prosseguir para Pagamento&rdquo;, sera redirecionado para a nossa pagina de pagamento segura. Apos a confirmacao do pagamento, a nossa equipa ira processar o seu agendamento e contacta-lo por e-mail com a data e hora da entrevista.</p>`)
	b.WriteString(`</div></div>`)
	b.WriteString(`</div>`)
	return b.String()
}
