package email

import (
	"fmt"
	"strings"

	"github.com/codr1/vistos/internal/booking"
)

// Message is a rendered plain-text email.
type Message struct {
	Subject string
	Body    string
}

const bookingReceivedSubject = "Pedido de agendamento recebido"

// BuildBookingReceived summarises a submitted request using the same
// sections as the review step.
func BuildBookingReceived(reference string, data booking.FormData) Message {
	var b strings.Builder

	name := strings.TrimSpace(data.FullName)
	if name == "" {
		b.WriteString("Caro(a) requerente,\n\n")
	} else {
		b.WriteString(fmt.Sprintf("Caro(a) %s,\n\n", name))
	}
	b.WriteString("Recebemos o seu pedido de agendamento de visto.\n")
	if reference != "" {
		b.WriteString(fmt.Sprintf("Referencia: %s\n", reference))
	}

	for _, section := range booking.Review(data) {
		b.WriteString("\n")
		b.WriteString(section.Title)
		b.WriteString("\n")
		for _, row := range section.Rows {
			b.WriteString(fmt.Sprintf("- %s: %s\n", row.Label, row.Display()))
		}
	}

	b.WriteString("\nApos a confirmacao do pagamento, a nossa equipa ira processar o seu agendamento ")
	b.WriteString("e contacta-lo por e-mail com a data e hora da entrevista.\n")

	return Message{Subject: bookingReceivedSubject, Body: b.String()}
}
