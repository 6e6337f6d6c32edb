package notify

import (
	"testing"
	"time"
)

func TestAddPreservesOrderAndDuplicates(t *testing.T) {
	c := NewCenter()

	c.Success("viewer", "¡Cita creada exitosamente!")
	c.Success("viewer", "¡Cita creada exitosamente!")
	c.Error("viewer", "Error de conexión.")

	toasts := c.Active("viewer")
	if len(toasts) != 3 {
		t.Fatalf("got %d toasts, want 3 (no deduplication)", len(toasts))
	}
	if toasts[0].Message != toasts[1].Message {
		t.Error("duplicate messages should both display")
	}
	if toasts[0].ID == toasts[1].ID {
		t.Error("duplicates must get distinct ids")
	}
	if toasts[2].Level != LevelError {
		t.Errorf("level = %q", toasts[2].Level)
	}
}

func TestLevelDurations(t *testing.T) {
	c := NewCenter()

	tests := []struct {
		post func() string
		want time.Duration
	}{
		{func() string { return c.Success("k", "m") }, 5 * time.Second},
		{func() string { return c.Error("k", "m") }, 7 * time.Second},
		{func() string { return c.Info("k", "m") }, 5 * time.Second},
		{func() string { return c.Warning("k", "m") }, 6 * time.Second},
	}

	for i, tt := range tests {
		tt.post()
		toasts := c.Active("k")
		if got := toasts[len(toasts)-1].Duration; got != tt.want {
			t.Errorf("case %d: duration = %v, want %v", i, got, tt.want)
		}
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := NewCenter()

	id := c.Info("viewer", "Sesión cerrada correctamente.")
	c.Remove("viewer", id)
	c.Remove("viewer", id)
	c.Remove("viewer", "never-existed")

	if got := c.Active("viewer"); len(got) != 0 {
		t.Errorf("queue not empty: %v", got)
	}
}

func TestQueuesAreIsolatedPerViewer(t *testing.T) {
	c := NewCenter()

	c.Success("viewer-a", "hola a")
	c.Success("viewer-b", "hola b")

	if got := c.Active("viewer-a"); len(got) != 1 || got[0].Message != "hola a" {
		t.Errorf("viewer-a queue = %v", got)
	}
	c.Clear("viewer-a")
	if got := c.Active("viewer-a"); len(got) != 0 {
		t.Errorf("viewer-a not cleared: %v", got)
	}
	if got := c.Active("viewer-b"); len(got) != 1 {
		t.Errorf("clear leaked into viewer-b: %v", got)
	}
}

func TestDrainEmptiesQueue(t *testing.T) {
	c := NewCenter()

	c.Success("viewer", "uno")
	c.Warning("viewer", "dos")

	first := c.Drain("viewer")
	if len(first) != 2 {
		t.Fatalf("drained %d, want 2", len(first))
	}
	if first[0].Message != "uno" || first[1].Message != "dos" {
		t.Errorf("order lost: %v", first)
	}
	if second := c.Drain("viewer"); len(second) != 0 {
		t.Errorf("second drain returned %v", second)
	}
}

func TestTimedExpiry(t *testing.T) {
	c := NewCenter()

	c.Add("viewer", "fugaz", LevelInfo, 10*time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(c.Active("viewer")) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("toast never expired")
}

func TestZeroDurationStaysUntilDismissed(t *testing.T) {
	c := NewCenter()

	id := c.Add("viewer", "persistente", LevelWarning, 0)
	time.Sleep(20 * time.Millisecond)
	if len(c.Active("viewer")) != 1 {
		t.Fatal("undismissed toast vanished")
	}
	c.Remove("viewer", id)
	if len(c.Active("viewer")) != 0 {
		t.Fatal("dismissal failed")
	}
}
