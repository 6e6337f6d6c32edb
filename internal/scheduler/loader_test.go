package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/booking"
)

// fakeWeekAPI lets each call block until released, so tests can interleave
// responses out of order.
type fakeWeekAPI struct {
	mu      sync.Mutex
	calls   int
	results []listResult
	gates   []chan struct{}
}

type listResult struct {
	res *api.WeekResult
	err error
}

func (f *fakeWeekAPI) List(ctx context.Context, token string, from, to time.Time, status string) (*api.WeekResult, error) {
	f.mu.Lock()
	n := f.calls
	f.calls++
	var gate chan struct{}
	if n < len(f.gates) && f.gates[n] != nil {
		gate = f.gates[n]
	}
	result := f.results[n]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return result.res, result.err
}

func appt(id string, date time.Time) booking.Appointment {
	return booking.Appointment{ID: id, Email: "x@example.com", Date: date, Type: booking.TypeBoda, Status: booking.StatusTentativo}
}

func TestLoadWeekPublishesSortedEvents(t *testing.T) {
	monday := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)
	fake := &fakeWeekAPI{results: []listResult{{
		res: &api.WeekResult{
			Appointments: []booking.Appointment{
				appt("late", monday.Add(72*time.Hour)),
				appt("early", monday.Add(10*time.Hour)),
			},
			Count:   2,
			Message: "Found 2 appointments",
		},
	}}}

	l := NewLoader(fake, zap.NewNop())
	snap, err := l.LoadWeek(context.Background(), "tok", monday.Add(26*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.Events) != 2 {
		t.Fatalf("events = %d", len(snap.Events))
	}
	if snap.Events[0].ID != "early" || snap.Events[1].ID != "late" {
		t.Errorf("events not sorted by start: %v, %v", snap.Events[0].ID, snap.Events[1].ID)
	}
	if snap.Events[0].End.Sub(snap.Events[0].Start) != booking.EventDuration {
		t.Errorf("event duration = %v", snap.Events[0].End.Sub(snap.Events[0].Start))
	}

	if snap.Summary == nil {
		t.Fatal("nil summary on success")
	}
	if snap.Summary.Message != "Encontradas 2 citas" {
		t.Errorf("message = %q", snap.Summary.Message)
	}
	if !snap.Summary.WindowStart.Equal(monday) {
		t.Errorf("window start = %v", snap.Summary.WindowStart)
	}
}

func TestLoadWeekSingularTranslation(t *testing.T) {
	monday := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)
	fake := &fakeWeekAPI{results: []listResult{{
		res: &api.WeekResult{
			Appointments: []booking.Appointment{appt("a1", monday.Add(time.Hour))},
			Count:        1,
			Message:      "Found 1 appointment",
		},
	}}}

	l := NewLoader(fake, zap.NewNop())
	snap, err := l.LoadWeek(context.Background(), "tok", monday)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Summary.Message != "Encontradas 1 cita" {
		t.Errorf("message = %q", snap.Summary.Message)
	}
}

func TestLoadWeekFailureResetsSnapshot(t *testing.T) {
	monday := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)
	fake := &fakeWeekAPI{results: []listResult{
		{res: &api.WeekResult{Appointments: []booking.Appointment{appt("a1", monday.Add(time.Hour))}, Count: 1}},
		{err: errors.New("boom")},
	}}

	l := NewLoader(fake, zap.NewNop())
	if _, err := l.LoadWeek(context.Background(), "tok", monday); err != nil {
		t.Fatal(err)
	}

	snap, err := l.LoadWeek(context.Background(), "tok", monday)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(snap.Events) != 0 {
		t.Errorf("failed load kept stale events: %v", snap.Events)
	}
	if snap.Summary != nil {
		t.Errorf("failed load kept a summary: %+v", snap.Summary)
	}
}

func TestLoadWeekDiscardsStaleResponse(t *testing.T) {
	monday := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)
	gate := make(chan struct{})
	fake := &fakeWeekAPI{
		gates: []chan struct{}{gate, nil},
		results: []listResult{
			{res: &api.WeekResult{Appointments: []booking.Appointment{appt("old-week", monday.Add(time.Hour))}, Count: 1}},
			{res: &api.WeekResult{Appointments: []booking.Appointment{appt("new-week", monday.Add(192*time.Hour))}, Count: 1}},
		},
	}

	l := NewLoader(fake, zap.NewNop())

	type outcome struct {
		snap Snapshot
		err  error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		snap, err := l.LoadWeek(context.Background(), "tok", monday)
		firstDone <- outcome{snap, err}
	}()

	// Wait until the first call is in flight, then finish a newer load.
	deadline := time.Now().Add(time.Second)
	for {
		fake.mu.Lock()
		started := fake.calls >= 1
		fake.mu.Unlock()
		if started || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	second, err := l.LoadWeek(context.Background(), "tok", monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("newer load failed: %v", err)
	}
	if second.Events[0].ID != "new-week" {
		t.Fatalf("second load events = %v", second.Events)
	}

	close(gate)
	first := <-firstDone
	if !errors.Is(first.err, ErrStale) {
		t.Fatalf("first load err = %v, want ErrStale", first.err)
	}
	// The stale response never overwrites the newer snapshot.
	if len(first.snap.Events) != 1 || first.snap.Events[0].ID != "new-week" {
		t.Errorf("published snapshot = %v", first.snap.Events)
	}
}

func TestForgetDropsViewerState(t *testing.T) {
	monday := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)
	fake := &fakeWeekAPI{results: []listResult{
		{res: &api.WeekResult{Appointments: []booking.Appointment{appt("a1", monday.Add(time.Hour))}, Count: 1}},
	}}

	l := NewLoader(fake, zap.NewNop())
	if _, err := l.LoadWeek(context.Background(), "tok", monday); err != nil {
		t.Fatal(err)
	}

	l.Forget("tok")

	l.mu.Lock()
	_, exists := l.views["tok"]
	l.mu.Unlock()
	if exists {
		t.Error("viewer state survived Forget")
	}
}
