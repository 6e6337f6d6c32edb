// Package receipt turns one appointment into a printable booking
// confirmation: an on-screen layout plus a PDF export of an image capture
// of that layout.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/coroadoradores/portal/internal/booking"
)

// Receipt is the presentational view of one appointment. No business data
// is computed here beyond label lookups and the reference number.
type Receipt struct {
	Number   string
	IssuedAt time.Time
	Event    booking.Event
}

// Line is one labeled row of the receipt detail box.
type Line struct {
	Label string
	Value string
}

// Build derives the receipt for an event. The reference number is the last
// eight characters of the appointment id, uppercased.
func Build(ev booking.Event, now time.Time) Receipt {
	number := "N/A"
	if ev.ID != "" {
		id := ev.ID
		if len(id) > 8 {
			id = id[len(id)-8:]
		}
		number = strings.ToUpper(id)
	}
	return Receipt{Number: number, IssuedAt: now, Event: ev}
}

// FileName names the PDF download after the appointment date and the
// reference number.
func (r Receipt) FileName() string {
	datePart := "cita"
	if !r.Event.Start.IsZero() {
		datePart = r.Event.Start.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("Recibo-Cita-%s-%s.pdf", datePart, r.Number)
}

// Lines lists the detail rows in display order. Optional fields appear
// only when present.
func (r Receipt) Lines() []Line {
	ev := r.Event

	title := ev.Title
	if title == "" {
		title = "—"
	}
	email := ev.Email
	if email == "" {
		email = "—"
	}
	status := ev.Status
	if status == "" {
		status = "—"
	}

	lines := []Line{
		{Label: "Fecha y hora", Value: FormatLongDate(ev.Start)},
		{Label: "Tipo de evento", Value: booking.TypeLabel(ev.Type)},
		{Label: "Ubicación", Value: booking.LocationLabel(ev.Location)},
		{Label: "Estatus", Value: status},
		{Label: "Título / Descripción", Value: title},
		{Label: "Contacto", Value: email},
	}
	if ev.TotalAmount != nil {
		lines = append(lines, Line{Label: "Costo total", Value: fmt.Sprintf("$%.2f MXN", *ev.TotalAmount)})
	}
	if ev.BalanceDue != nil {
		lines = append(lines, Line{Label: "Saldo pendiente", Value: fmt.Sprintf("$%.2f MXN", *ev.BalanceDue)})
	}
	if ev.Comments != "" && ev.Comments != ev.Title {
		lines = append(lines, Line{Label: "Comentarios", Value: ev.Comments})
	}
	return lines
}

var spanishDays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatLongDate renders a timestamp the way the receipt shows dates:
// "lunes, 28 de julio de 2025, 16:00".
func FormatLongDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return fmt.Sprintf("%s, %d de %s de %d, %02d:%02d",
		spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FormatShortDate renders the issue date: "28 de julio de 2025".
func FormatShortDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
