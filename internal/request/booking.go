package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/booking"
)

// ParseDay parses a day-of-month between 1 and 31.
func ParseDay(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	day, err := strconv.Atoi(value)
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}

	return day, true
}

// ParseField returns the known booking field named by value.
func ParseField(value string) (booking.Field, bool) {
	return booking.ParseField(strings.TrimSpace(value))
}

// FormValue reads name from the parsed form, logging parse failures.
func FormValue(r *http.Request, name string) string {
	if err := r.ParseForm(); err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("param", name).
			Msg("Failed to parse request form")
		return ""
	}
	return r.Form.Get(name)
}
