package request

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codr1/vistos/internal/booking"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		value string
		want  int
		ok    bool
	}{
		{value: "11", want: 11, ok: true},
		{value: " 9 ", want: 9, ok: true},
		{value: "0"},
		{value: "32"},
		{value: "-1"},
		{value: "abc"},
		{value: ""},
	}

	for _, test := range tests {
		got, ok := ParseDay(test.value)
		assert.Equal(t, test.want, got, "ParseDay(%q)", test.value)
		assert.Equal(t, test.ok, ok, "ParseDay(%q)", test.value)
	}
}

func TestParseField(t *testing.T) {
	field, ok := ParseField(" email ")
	assert.True(t, ok)
	assert.Equal(t, booking.FieldEmail, field)

	_, ok = ParseField("shoeSize")
	assert.False(t, ok, "unknown field should not parse")
}

func TestFormValue(t *testing.T) {
	body := url.Values{"field": {"city"}, "value": {"Praia"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/booking/field", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.Equal(t, "Praia", FormValue(req, "value"))
}
