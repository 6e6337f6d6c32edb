package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/booking"
	httperrors "github.com/coroadoradores/portal/internal/httpserver/errors"
	"github.com/coroadoradores/portal/internal/receipt"
	"github.com/coroadoradores/portal/internal/scheduler"
	"github.com/coroadoradores/portal/internal/session"
)

var spanishWeekdays = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

type weekDay struct {
	Date    time.Time
	Label   string
	IsToday bool
	Events  []booking.Event
}

// pivotDate reads the ?date= query parameter, falling back to now. Dates
// are interpreted in the server's local zone, same as form input.
func pivotDate(r *http.Request) time.Time {
	if raw := r.URL.Query().Get("date"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			return t
		}
	}
	return time.Now()
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	pivot := pivotDate(r)

	snap, err := h.loader.LoadWeek(r.Context(), sess.Token, pivot)
	if err != nil && !errors.Is(err, scheduler.ErrStale) {
		if h.demoteIfExpired(w, r, err) {
			return
		}
		h.toasts.Error(sess.Token, "Error al cargar las citas. Intenta de nuevo.")
	}

	start, _ := booking.WeekWindow(pivot)
	today := time.Now()
	days := make([]weekDay, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		day := weekDay{
			Date:    date,
			Label:   spanishWeekdays[int(date.Weekday())],
			IsToday: sameDay(date, today),
		}
		for _, ev := range snap.Events {
			if sameDay(ev.Start, date) {
				day.Events = append(day.Events, ev)
			}
		}
		days = append(days, day)
	}

	h.render(w, r, "calendario.html", map[string]any{
		"Summary":   snap.Summary,
		"Days":      days,
		"PivotDate": pivot.Format("2006-01-02"),
		"PrevDate":  pivot.AddDate(0, 0, -7).Format("2006-01-02"),
		"NextDate":  pivot.AddDate(0, 0, 7).Format("2006-01-02"),
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (h *Handler) NewAppointmentForm(w http.ResponseWriter, r *http.Request) {
	form := draftForm{Status: booking.StatusTentativo}
	if raw := r.URL.Query().Get("date"); raw != "" {
		form.Date = raw + "T12:00"
	}
	h.renderDraftForm(w, r, form, map[string]string{})
}

// draftForm carries raw form input back into the template on validation
// failure so the member does not retype everything.
type draftForm struct {
	Email       string
	Date        string
	Type        string
	Comments    string
	Location    string
	Status      string
	TotalAmount string
	BalanceDue  string
}

func (h *Handler) renderDraftForm(w http.ResponseWriter, r *http.Request, form draftForm, fieldErrors map[string]string) {
	pivot := time.Now().Format("2006-01-02")
	if len(form.Date) >= 10 {
		pivot = form.Date[:10]
	}
	h.render(w, r, "cita_nueva.html", map[string]any{
		"Form":      form,
		"Errors":    fieldErrors,
		"Types":     booking.Types(),
		"Locations": booking.Locations(),
		"Statuses":  booking.Statuses(),
		"PivotDate": pivot,
	})
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	form := draftForm{
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Date:        r.PostFormValue("date"),
		Type:        r.PostFormValue("type"),
		Comments:    strings.TrimSpace(r.PostFormValue("comments")),
		Location:    r.PostFormValue("location"),
		Status:      r.PostFormValue("status"),
		TotalAmount: strings.TrimSpace(r.PostFormValue("totalAmount")),
		BalanceDue:  strings.TrimSpace(r.PostFormValue("balanceDue")),
	}
	if form.Status == "" {
		form.Status = booking.StatusTentativo
	}

	fieldErrors := map[string]string{}

	date, err := time.ParseInLocation("2006-01-02T15:04", form.Date, time.Local)
	if err != nil {
		fieldErrors["date"] = "El campo fecha es requerido."
	}
	total, err := booking.ParseAmount(form.TotalAmount)
	if err != nil {
		fieldErrors["totalAmount"] = "El monto no es válido."
	}
	balance, err := booking.ParseAmount(form.BalanceDue)
	if err != nil {
		fieldErrors["balanceDue"] = "El monto no es válido."
	}

	draft := booking.Draft{
		Email:       form.Email,
		Date:        date,
		Type:        form.Type,
		Comments:    form.Comments,
		Location:    form.Location,
		Status:      form.Status,
		TotalAmount: total,
		BalanceDue:  balance,
	}

	if len(fieldErrors) > 0 {
		h.toasts.Warning(sess.Token, "Revisa los campos marcados.")
		h.renderDraftForm(w, r, form, fieldErrors)
		return
	}

	created, err := h.appointments.Create(r.Context(), sess.Token, draft)
	if err != nil {
		if h.demoteIfExpired(w, r, err) {
			return
		}
		var verr *booking.ValidationError
		if errors.As(err, &verr) || api.KindOf(err) == api.KindValidation {
			if verr != nil {
				fieldErrors[verr.Field] = verr.Message
			}
			h.toasts.Warning(sess.Token, api.Message(err, "Revisa los campos marcados."))
			h.renderDraftForm(w, r, form, fieldErrors)
			return
		}
		if api.KindOf(err) == api.KindTransport {
			h.toasts.Error(sess.Token, "Error de conexión. Verifica tu internet e intenta de nuevo.")
		} else {
			h.toasts.Error(sess.Token, api.Message(err, "No se pudo crear la cita. Intenta de nuevo."))
		}
		h.renderDraftForm(w, r, form, fieldErrors)
		return
	}

	day := draft.Date.Format("2006-01-02")
	if created != nil {
		day = created.Date.Format("2006-01-02")
	}
	h.toasts.Success(sess.Token, "¡Cita creada exitosamente!")
	http.Redirect(w, r, "/calendario?date="+day, http.StatusFound)
}

// findEvent locates an event by id inside the week that ?date= falls in.
// The backend has no fetch-by-id endpoint, so detail pages ride on the
// week load.
func (h *Handler) findEvent(r *http.Request, token, id string) (booking.Event, bool, error) {
	snap, err := h.loader.LoadWeek(r.Context(), token, pivotDate(r))
	if err != nil && !errors.Is(err, scheduler.ErrStale) {
		return booking.Event{}, false, err
	}
	for _, ev := range snap.Events {
		if ev.ID == id {
			return ev, true, nil
		}
	}
	return booking.Event{}, false, nil
}

func (h *Handler) AppointmentDetail(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	ev, found, err := h.findEvent(r, sess.Token, id)
	if err != nil {
		if h.demoteIfExpired(w, r, err) {
			return
		}
		h.toasts.Error(sess.Token, "Error al cargar la cita. Intenta de nuevo.")
		http.Redirect(w, r, "/calendario", http.StatusFound)
		return
	}
	if !found {
		h.toasts.Warning(sess.Token, "La cita ya no existe o cambió de semana.")
		http.Redirect(w, r, "/calendario?date="+pivotDate(r).Format("2006-01-02"), http.StatusFound)
		return
	}

	h.render(w, r, "cita_detalle.html", map[string]any{"Event": ev})
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	day := r.PostFormValue("date")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}

	if r.PostFormValue("confirmar") != "1" {
		h.toasts.Warning(sess.Token, "Confirma la eliminación antes de continuar.")
		http.Redirect(w, r, "/citas/"+id+"?date="+day, http.StatusFound)
		return
	}

	if err := h.appointments.Delete(r.Context(), sess.Token, id); err != nil {
		if h.demoteIfExpired(w, r, err) {
			return
		}
		if api.KindOf(err) == api.KindTransport {
			h.toasts.Error(sess.Token, "Error de conexión. Verifica tu internet e intenta de nuevo.")
		} else {
			h.toasts.Error(sess.Token, api.Message(err, "No se pudo eliminar la cita. Intenta de nuevo."))
		}
		http.Redirect(w, r, "/citas/"+id+"?date="+day, http.StatusFound)
		return
	}

	h.toasts.Success(sess.Token, "Cita eliminada correctamente.")
	http.Redirect(w, r, "/calendario?date="+day, http.StatusFound)
}

func (h *Handler) ReceiptPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	ev, found, err := h.findEvent(r, sess.Token, id)
	if err != nil {
		if h.demoteIfExpired(w, r, err) {
			return
		}
		h.toasts.Error(sess.Token, "Error al cargar la cita. Intenta de nuevo.")
		http.Redirect(w, r, "/calendario", http.StatusFound)
		return
	}
	if !found {
		h.toasts.Warning(sess.Token, "La cita ya no existe o cambió de semana.")
		http.Redirect(w, r, "/calendario?date="+pivotDate(r).Format("2006-01-02"), http.StatusFound)
		return
	}

	h.render(w, r, "recibo.html", map[string]any{
		"Receipt": receipt.Build(ev, time.Now()),
	})
}

func (h *Handler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	ev, found, err := h.findEvent(r, sess.Token, id)
	if err != nil {
		if h.demoteIfExpired(w, r, err) {
			return
		}
		h.toasts.Error(sess.Token, "Error al cargar la cita. Intenta de nuevo.")
		http.Redirect(w, r, "/calendario", http.StatusFound)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	rec := receipt.Build(ev, time.Now())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName()))
	if err := receipt.ExportPDF(w, rec); err != nil {
		// The on-screen receipt remains usable; surface the failure there.
		httperrors.LogError(h.log, r, "receipt pdf export failed", err)
		h.toasts.Error(sess.Token, "No se pudo generar el PDF del recibo. Intenta de nuevo.")
	}
}

// WeekJSON returns the current week snapshot for the signed-in viewer.
// Progressive enhancement hook for the calendar page.
func (h *Handler) WeekJSON(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	snap, err := h.loader.LoadWeek(r.Context(), sess.Token, pivotDate(r))
	if err != nil && !errors.Is(err, scheduler.ErrStale) {
		if api.IsUnauthorized(err) {
			h.sessions.Clear(w)
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}
		h.log.Warn("week load failed", zap.Error(err))
		http.Error(w, "failed to load appointments", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		httperrors.LogError(h.log, r, "week snapshot encode failed", err)
	}
}
