// internal/api/booking/handlers.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/vistos/internal/api/apiutil"
	"github.com/codr1/vistos/internal/api/htmx"
	core "github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/drafts"
	"github.com/codr1/vistos/internal/email"
	"github.com/codr1/vistos/internal/models"
	"github.com/codr1/vistos/internal/ratelimit"
	"github.com/codr1/vistos/internal/request"
	bookingtempl "github.com/codr1/vistos/internal/templates/components/booking"
	"github.com/codr1/vistos/internal/templates/layouts"
	"github.com/codr1/vistos/internal/wizard"
)

const (
	SessionCookieName = "booking_session"
	pageTitle         = "Agendamento de Visto"
	requestTimeout    = 5 * time.Second
)

// Deps are the collaborators the booking handlers need.
type Deps struct {
	Coordinator   *wizard.Coordinator
	Limiter       *ratelimit.Limiter
	EmailSender   email.EmailSender
	Theme         *models.Theme
	PaymentURL    string
	TrustProxy    bool
	SecureCookies bool
	SessionTTL    time.Duration
}

var (
	deps   *Deps
	depsMu sync.RWMutex
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d Deps) {
	if d.Coordinator == nil {
		return
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = &d
}

func loadDeps() *Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

// GET /
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/booking", http.StatusFound)
}

// GET /booking
func HandleBookingPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	d := loadDeps()
	if d == nil {
		logger.Error().Msg("Booking handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, created, err := d.Coordinator.LoadOrStart(ctx, sessionID(r))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load booking draft")
		http.Error(w, "Failed to load booking", http.StatusInternalServerError)
		return
	}
	if draft.Submitted() {
		// A finished request starts a fresh wizard on the next visit.
		if draft, err = d.Coordinator.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to start booking draft")
			http.Error(w, "Failed to load booking", http.StatusInternalServerError)
			return
		}
		created = true
	}
	if created {
		setSessionCookie(w, d, draft.ID)
	}

	page := layouts.Base(pageTitle, bookingtempl.Wizard(wizardData(d, draft, "")), d.Theme)
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render booking page", "Failed to render page")
}

// GET /api/v1/booking/state
func HandleState(w http.ResponseWriter, r *http.Request) {
	d, id, ok := requireSession(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, err := d.Coordinator.Load(ctx, id)
	if err != nil {
		writeCoordinatorError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, draft); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("draft_id", id).Msg("Failed to write booking state")
	}
}

// POST /api/v1/booking/field
func HandleFieldUpdate(w http.ResponseWriter, r *http.Request) {
	d, id, ok := requireSession(w, r)
	if !ok {
		return
	}

	field, known := request.ParseField(request.FormValue(r, "field"))
	if !known {
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}
	value := request.FormValue(r, "value")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, err := d.Coordinator.Dispatch(ctx, id, core.Set(field, value)...)
	if err != nil {
		writeCoordinatorError(w, r, err)
		return
	}

	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusOK, draft); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write field update response")
		}
		return
	}
	apiutil.RenderHTMLComponent(r.Context(), w, bookingtempl.FieldMessage(field, draft.Errors[field]), nil, "Failed to render field message", "Failed to render field")
}

// POST /api/v1/booking/day
func HandleSelectDay(w http.ResponseWriter, r *http.Request) {
	d, id, ok := requireSession(w, r)
	if !ok {
		return
	}

	day, valid := request.ParseDay(request.FormValue(r, "day"))
	if !valid {
		http.Error(w, "Invalid day", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, accepted, err := d.Coordinator.SelectDay(ctx, id, day)
	if err != nil {
		writeCoordinatorError(w, r, err)
		return
	}
	if !accepted {
		log.Ctx(r.Context()).Debug().Int("day", day).Msg("Ignored click on unavailable day")
	}
	renderWizard(w, r, d, draft, "")
}

// POST /api/v1/booking/time
func HandleSelectTime(w http.ResponseWriter, r *http.Request) {
	d, id, ok := requireSession(w, r)
	if !ok {
		return
	}

	slot := strings.TrimSpace(request.FormValue(r, "time"))
	if slot == "" {
		http.Error(w, "Missing time", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, accepted, err := d.Coordinator.SelectTime(ctx, id, slot)
	if err != nil {
		writeCoordinatorError(w, r, err)
		return
	}
	if !accepted {
		log.Ctx(r.Context()).Debug().Str("time", slot).Msg("Ignored time slot click")
	}
	renderWizard(w, r, d, draft, "")
}

// POST /api/v1/booking/next
func HandleNext(w http.ResponseWriter, r *http.Request) {
	navigate(w, r, func(ctx context.Context, c *wizard.Coordinator, id string) (drafts.Draft, error) {
		return c.Next(ctx, id)
	})
}

// POST /api/v1/booking/back
func HandleBack(w http.ResponseWriter, r *http.Request) {
	navigate(w, r, func(ctx context.Context, c *wizard.Coordinator, id string) (drafts.Draft, error) {
		return c.Back(ctx, id)
	})
}

// POST /api/v1/booking/submit
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	d, id, ok := requireSession(w, r)
	if !ok {
		return
	}
	logger := log.Ctx(r.Context()).With().Str("draft_id", id).Logger()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	current, err := d.Coordinator.Load(ctx, id)
	if err != nil {
		writeCoordinatorError(w, r, err)
		return
	}

	identifier := apiutil.FirstNonEmpty(current.Data.Email, id)
	ip := ratelimit.GetClientIP(r, d.TrustProxy)
	if d.Limiter != nil {
		if result := d.Limiter.CheckSubmit(identifier, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(r.Context(), identifier, ip, result.Reason)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(result.RetryAfter.Seconds()))))
			status := http.StatusTooManyRequests
			if htmx.IsRequest(r) {
				// htmx does not swap error responses.
				status = http.StatusOK
			}
			renderWizardStatus(w, r, d, current, status, retryNotice(result.RetryAfter))
			return
		}
	}

	draft, err := d.Coordinator.Submit(ctx, id)
	if err != nil {
		writeCoordinatorError(w, r, err)
		return
	}
	if !draft.Submitted() {
		logger.Info().Str("step", draft.Step).Int("errors", len(draft.Errors)).Msg("Booking submission failed validation")
		renderWizard(w, r, d, draft, "Corrija os campos assinalados antes de prosseguir.")
		return
	}

	if d.Limiter != nil {
		d.Limiter.RecordSubmit(identifier, ip)
	}
	email.SendAsync(logger.WithContext(r.Context()), d.EmailSender, draft.Data.Email, email.BuildBookingReceived(draft.ID, draft.Data))
	logger.Info().Msg("Booking submitted")

	if d.PaymentURL == "" {
		renderWizard(w, r, d, draft, "")
		return
	}
	htmx.Redirect(w, r, d.PaymentURL)
}

func navigate(w http.ResponseWriter, r *http.Request, move func(context.Context, *wizard.Coordinator, string) (drafts.Draft, error)) {
	d, id, ok := requireSession(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	draft, err := move(ctx, d.Coordinator, id)
	if err != nil {
		writeCoordinatorError(w, r, err)
		return
	}
	renderWizard(w, r, d, draft, "")
}

func requireSession(w http.ResponseWriter, r *http.Request) (*Deps, string, bool) {
	d := loadDeps()
	if d == nil {
		log.Ctx(r.Context()).Error().Msg("Booking handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, "", false
	}
	id := sessionID(r)
	if id == "" {
		http.Error(w, "Booking session not found", http.StatusNotFound)
		return nil, "", false
	}
	return d, id, true
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, d *Deps, id string) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if d.SessionTTL > 0 {
		cookie.MaxAge = int(d.SessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

func wizardData(d *Deps, draft drafts.Draft, notice string) bookingtempl.WizardData {
	data := bookingtempl.NewWizardData(draft, d.Coordinator.Availability(), d.Coordinator.TimeSlots())
	data.Notice = notice
	return data
}

func renderWizard(w http.ResponseWriter, r *http.Request, d *Deps, draft drafts.Draft, notice string) {
	renderWizardStatus(w, r, d, draft, http.StatusOK, notice)
}

func renderWizardStatus(w http.ResponseWriter, r *http.Request, d *Deps, draft drafts.Draft, status int, notice string) {
	component := bookingtempl.Wizard(wizardData(d, draft, notice))
	if !htmx.IsRequest(r) {
		component = layouts.Base(pageTitle, component, d.Theme)
	}
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, component, nil, "Failed to render booking wizard", "Failed to render booking")
}

func writeCoordinatorError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())
	switch {
	case errors.Is(err, drafts.ErrNotFound):
		if htmx.IsRequest(r) {
			w.Header().Set("HX-Redirect", "/booking")
		}
		http.Error(w, "Booking session not found", http.StatusNotFound)
	case errors.Is(err, wizard.ErrAlreadySubmitted):
		http.Error(w, "Booking already submitted", http.StatusConflict)
	case errors.Is(err, wizard.ErrNotOnReview):
		http.Error(w, "Booking can only be submitted from the review step", http.StatusConflict)
	case errors.Is(err, wizard.ErrUnknownField):
		http.Error(w, "Unknown field", http.StatusBadRequest)
	case errors.Is(err, wizard.ErrSelectionField):
		http.Error(w, "Use the calendar to choose the appointment", http.StatusBadRequest)
	default:
		logger.Error().Err(err).Msg("Booking operation failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func retryNotice(retryAfter time.Duration) string {
	minutes := int(math.Ceil(retryAfter.Minutes()))
	if minutes <= 1 {
		return "Demasiados pedidos. Tente novamente dentro de um minuto."
	}
	return fmt.Sprintf("Demasiados pedidos. Tente novamente dentro de %d minutos.", minutes)
}
