package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventDuration is the display length of every appointment. The backend
// does not supply a duration, so the calendar assumes one hour for all
// event types until it does.
const EventDuration = time.Hour

// Appointment is the server-owned record as returned by the appointments
// backend. The portal reads and writes a subset; CreatedAt/UpdatedAt are
// read-only.
type Appointment struct {
	ID          string
	Email       string
	Date        time.Time
	Type        string
	Location    string
	Comments    string
	Status      string
	TotalAmount *float64
	BalanceDue  *float64
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// Event is an appointment projected for calendar display. End is always
// Start plus EventDuration.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	Email       string
	Type        string
	Location    string
	Comments    string
	Status      string
	TotalAmount *float64
	BalanceDue  *float64
	CreatedAt   *time.Time
}

// Appointment types accepted by the backend.
const (
	TypeXVAnos          = "xv_anos"
	TypeBoda            = "boda"
	TypePrimeraComunion = "primera_comunion"
	TypeConfirmacion    = "confirmacion"
	TypeAccionDeGracias = "accion_de_gracias"
	TypeOtro            = "otro"
)

// Known locations. Free text is also accepted by the backend.
const (
	LocationParroquiaSanRafael = "parroquia_san_rafael"
	LocationCapillaDelCarmen   = "capilla_nuestra_senora_del_carmen"
)

// Appointment statuses. New appointments default to Tentativo.
const (
	StatusTentativo  = "Tentativo"
	StatusConfirmado = "Confirmado"
	StatusCompletado = "Completado"
)

var typeLabels = map[string]string{
	TypeXVAnos:          "XV años",
	TypeBoda:            "Boda",
	TypePrimeraComunion: "Primera comunión",
	TypeConfirmacion:    "Confirmación",
	TypeAccionDeGracias: "Acción de gracias",
	TypeOtro:            "Otro",
}

var locationLabels = map[string]string{
	LocationParroquiaSanRafael: "Parroquia San Rafael",
	LocationCapillaDelCarmen:   "Capilla Nuestra Señora Del Carmen",
}

// Types lists the selectable appointment types in form order.
func Types() []string {
	return []string{TypeXVAnos, TypeBoda, TypePrimeraComunion, TypeConfirmacion, TypeAccionDeGracias, TypeOtro}
}

// Locations lists the selectable locations in form order.
func Locations() []string {
	return []string{LocationParroquiaSanRafael, LocationCapillaDelCarmen}
}

// Statuses lists the selectable statuses in form order.
func Statuses() []string {
	return []string{StatusTentativo, StatusConfirmado, StatusCompletado}
}

// TypeLabel returns the Spanish display label for an appointment type,
// falling back to the raw value for unknown types.
func TypeLabel(t string) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	if t == "" {
		return "—"
	}
	return t
}

// LocationLabel returns the Spanish display label for a location. Unknown
// values are treated as free text and shown as-is.
func LocationLabel(loc string) string {
	if l, ok := locationLabels[loc]; ok {
		return l
	}
	if loc == "" {
		return "—"
	}
	return loc
}

// ToEvent projects an appointment into its calendar representation.
func (a Appointment) ToEvent() Event {
	return Event{
		ID:          a.ID,
		Title:       a.Comments,
		Start:       a.Date,
		End:         a.Date.Add(EventDuration),
		Email:       a.Email,
		Type:        a.Type,
		Location:    a.Location,
		Comments:    a.Comments,
		Status:      a.Status,
		TotalAmount: a.TotalAmount,
		BalanceDue:  a.BalanceDue,
		CreatedAt:   a.CreatedAt,
	}
}

// Draft is a new appointment as entered in the creation form. Amounts are
// optional; nil means the field was left blank and must be omitted from the
// request body, not sent as zero.
type Draft struct {
	Email       string
	Date        time.Time
	Type        string
	Comments    string
	Location    string
	Status      string
	TotalAmount *float64
	BalanceDue  *float64
}

// ValidationError describes a precondition violated before any network
// dispatch. The message is user-facing Spanish.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks the client-side preconditions for creating an
// appointment. The first violation is returned; the caller surfaces it as a
// warning and never dispatches the request.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return &ValidationError{Field: "email", Message: "El campo correo electrónico es requerido."}
	}
	if d.Type == "" {
		return &ValidationError{Field: "type", Message: "El campo tipo es requerido."}
	}
	if d.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "El campo fecha y hora es requerido."}
	}
	if d.Location == "" {
		return &ValidationError{Field: "location", Message: "El campo lugar es requerido."}
	}
	return nil
}

var errNegativeAmount = errors.New("amount cannot be negative")

// ParseAmount parses a currency amount from form input, rounding half-up at
// two decimals. Rounding happens on the decimal digits rather than the
// float value so inputs like "150.005" round to 150.01. Empty input
// returns (nil, nil): a blank field is omitted, never transmitted as zero.
func ParseAmount(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if f < 0 {
		return nil, errNegativeAmount
	}

	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= 2 {
		return &f, nil
	}

	intPart := s[:dot]
	frac := s[dot+1:]
	cents, err := strconv.ParseInt(intPart+frac[:2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if frac[2] >= '5' {
		cents++
	}
	rounded := float64(cents) / 100
	return &rounded, nil
}
