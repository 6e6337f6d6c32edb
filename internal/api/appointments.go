package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/coroadoradores/portal/internal/booking"
)

// isoMillis matches JavaScript's toISOString, which is what the
// appointments backend expects for dateFrom/dateTo.
const isoMillis = "2006-01-02T15:04:05.000Z"

// WeekResult is one window's worth of appointments plus the banner fields
// the backend sends along.
type WeekResult struct {
	Appointments []booking.Appointment
	Count        int
	Message      string
}

// AppointmentsClient talks to the appointments backend. Every call is
// bearer-token authenticated.
type AppointmentsClient struct {
	c *client
}

func NewAppointmentsClient(baseURL string, log *zap.Logger) *AppointmentsClient {
	return &AppointmentsClient{c: newClient("appointments", baseURL, log)}
}

type appointmentRecord struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Comments    string   `json:"comments"`
	Status      string   `json:"status"`
	TotalAmount *float64 `json:"totalAmount"`
	BalanceDue  *float64 `json:"balanceDue"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// List fetches appointments inside [from, to]. An optional status filters
// server-side. Rows with unparseable dates are skipped rather than failing
// the whole window.
func (ac *AppointmentsClient) List(ctx context.Context, token string, from, to time.Time, status string) (*WeekResult, error) {
	q := url.Values{}
	q.Set("dateFrom", from.UTC().Format(isoMillis))
	q.Set("dateTo", to.UTC().Format(isoMillis))
	if status != "" {
		q.Set("status", status)
	}

	env, err := ac.c.do(ctx, http.MethodGet, "/asAppointment", q, token, nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		Appointments []appointmentRecord `json:"appointments"`
		Count        int                 `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &Error{Kind: KindTransport, Message: "malformed appointments payload", Err: err}
	}

	out := make([]booking.Appointment, 0, len(data.Appointments))
	for _, rec := range data.Appointments {
		appt, err := rec.toDomain()
		if err != nil {
			ac.c.log.Warn("skipping appointment with bad date",
				zap.String("id", rec.ID), zap.String("date", rec.Date), zap.Error(err))
			continue
		}
		out = append(out, appt)
	}

	return &WeekResult{Appointments: out, Count: data.Count, Message: env.Message}, nil
}

type createRequest struct {
	Email       string   `json:"email"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Comments    string   `json:"comments"`
	Location    string   `json:"location"`
	Status      string   `json:"status,omitempty"`
	TotalAmount *float64 `json:"totalAmount,omitempty"`
	BalanceDue  *float64 `json:"balanceDue,omitempty"`
}

// Create posts a new appointment. Draft preconditions are checked first;
// a violation aborts before any network dispatch. Blank amounts stay
// absent from the body.
func (ac *AppointmentsClient) Create(ctx context.Context, token string, draft booking.Draft) (*booking.Appointment, error) {
	if err := draft.Validate(); err != nil {
		return nil, &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	body := createRequest{
		Email:       draft.Email,
		Date:        draft.Date.UTC().Format(isoMillis),
		Type:        draft.Type,
		Comments:    draft.Comments,
		Location:    draft.Location,
		Status:      draft.Status,
		TotalAmount: draft.TotalAmount,
		BalanceDue:  draft.BalanceDue,
	}

	env, err := ac.c.do(ctx, http.MethodPost, "/asAppointment", nil, token, body)
	if err != nil {
		return nil, err
	}

	// The created record may arrive wrapped or bare; either way creation
	// already succeeded, so decoding problems are not an error.
	var wrapped struct {
		Appointment *appointmentRecord `json:"appointment"`
	}
	if err := json.Unmarshal(env.Data, &wrapped); err == nil && wrapped.Appointment != nil {
		if appt, err := wrapped.Appointment.toDomain(); err == nil {
			return &appt, nil
		}
	}
	var bare appointmentRecord
	if err := json.Unmarshal(env.Data, &bare); err == nil && bare.ID != "" {
		if appt, err := bare.toDomain(); err == nil {
			return &appt, nil
		}
	}
	return nil, nil
}

// Delete removes an appointment by id. Irreversible from the portal's
// perspective; callers gate it behind an explicit confirmation.
func (ac *AppointmentsClient) Delete(ctx context.Context, token, id string) error {
	q := url.Values{}
	q.Set("id", id)
	_, err := ac.c.do(ctx, http.MethodDelete, "/asAppointment", q, token, nil)
	return err
}

func (rec appointmentRecord) toDomain() (booking.Appointment, error) {
	date, err := booking.ParseServerTime(rec.Date)
	if err != nil {
		return booking.Appointment{}, err
	}

	appt := booking.Appointment{
		ID:          rec.ID,
		Email:       rec.Email,
		Date:        date,
		Type:        rec.Type,
		Location:    rec.Location,
		Comments:    rec.Comments,
		Status:      rec.Status,
		TotalAmount: rec.TotalAmount,
		BalanceDue:  rec.BalanceDue,
	}
	if t, err := booking.ParseServerTime(rec.CreatedAt); err == nil {
		appt.CreatedAt = &t
	}
	if t, err := booking.ParseServerTime(rec.UpdatedAt); err == nil {
		appt.UpdatedAt = &t
	}
	return appt, nil
}
