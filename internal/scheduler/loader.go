package scheduler

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/booking"
)

// WeekAPI is the slice of the appointments client the loader needs.
type WeekAPI interface {
	List(ctx context.Context, token string, from, to time.Time, status string) (*api.WeekResult, error)
}

// Summary feeds the banner above the calendar.
type Summary struct {
	Count       int
	WindowStart time.Time
	WindowEnd   time.Time
	Message     string
}

// Snapshot is the published state of one viewer's calendar week.
type Snapshot struct {
	Events     []booking.Event
	Summary    *Summary
	Generation uint64
	LoadedAt   time.Time
}

// ErrStale marks a load whose response arrived after a newer load was
// issued for the same viewer. The result is discarded; the snapshot
// returned alongside is the latest published one.
var ErrStale = errors.New("week load superseded by a newer request")

// Loader fetches a week of appointments and publishes per-viewer
// snapshots. Each load gets a monotonically increasing generation; a
// response whose generation is no longer the latest issued never
// overwrites newer state, so rapid calendar navigation cannot leave a
// stale week on screen.
type Loader struct {
	api WeekAPI
	log *zap.Logger

	mu    sync.Mutex
	views map[string]*viewState
}

type viewState struct {
	issued   uint64
	snapshot Snapshot
}

func NewLoader(weekAPI WeekAPI, log *zap.Logger) *Loader {
	return &Loader{
		api:   weekAPI,
		log:   log,
		views: make(map[string]*viewState),
	}
}

// apiMessage arrives in English; the banner is Spanish.
var messageTranslator = strings.NewReplacer(
	"Found", "Encontradas",
	"appointments", "citas",
	"appointment", "cita",
)

// LoadWeek fetches the ISO week containing pivot for the given viewer and
// publishes the result. On failure the snapshot resets to an empty event
// list and a nil summary; the fetch is terminal, never retried here.
func (l *Loader) LoadWeek(ctx context.Context, token string, pivot time.Time) (Snapshot, error) {
	windowStart, windowEnd := booking.WeekWindow(pivot)

	l.mu.Lock()
	vs, ok := l.views[token]
	if !ok {
		vs = &viewState{}
		l.views[token] = vs
	}
	vs.issued++
	gen := vs.issued
	l.mu.Unlock()

	result, err := l.api.List(ctx, token, windowStart, windowEnd, "")

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != vs.issued {
		l.log.Debug("discarding stale week load",
			zap.Uint64("generation", gen), zap.Uint64("latest", vs.issued))
		return vs.snapshot, ErrStale
	}

	if err != nil {
		vs.snapshot = Snapshot{
			Events:     []booking.Event{},
			Summary:    nil,
			Generation: gen,
			LoadedAt:   time.Now(),
		}
		return vs.snapshot, err
	}

	events := make([]booking.Event, 0, len(result.Appointments))
	for _, appt := range result.Appointments {
		events = append(events, appt.ToEvent())
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })

	vs.snapshot = Snapshot{
		Events: events,
		Summary: &Summary{
			Count:       result.Count,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
			Message:     messageTranslator.Replace(result.Message),
		},
		Generation: gen,
		LoadedAt:   time.Now(),
	}
	return vs.snapshot, nil
}

// Forget drops a viewer's published state, e.g. on logout.
func (l *Loader) Forget(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.views, token)
}
