package receipt

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/coroadoradores/portal/internal/booking"
)

func sampleEvent() booking.Event {
	total := 3500.0
	balance := 1500.0
	return booking.Event{
		ID:          "64f1c2d9e8a7b6c5d4e3f2a1",
		Title:       "Boda García López",
		Start:       time.Date(2025, 7, 28, 16, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 7, 28, 17, 0, 0, 0, time.UTC),
		Email:       "garcia@example.com",
		Type:        booking.TypeBoda,
		Location:    booking.LocationParroquiaSanRafael,
		Status:      booking.StatusConfirmado,
		TotalAmount: &total,
		BalanceDue:  &balance,
	}
}

func TestBuildNumber(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "long id keeps last eight uppercased", id: "64f1c2d9e8a7b6c5d4e3f2a1", want: "D4E3F2A1"},
		{name: "short id used whole", id: "ab12", want: "AB12"},
		{name: "empty id falls back", id: "", want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := sampleEvent()
			ev.ID = tt.id
			r := Build(ev, time.Now())
			if r.Number != tt.want {
				t.Errorf("number = %q, want %q", r.Number, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	r := Build(sampleEvent(), time.Now())
	if got := r.FileName(); got != "Recibo-Cita-2025-07-28-D4E3F2A1.pdf" {
		t.Errorf("filename = %q", got)
	}

	r2 := Build(booking.Event{ID: "x"}, time.Now())
	if got := r2.FileName(); got != "Recibo-Cita-cita-X.pdf" {
		t.Errorf("dateless filename = %q", got)
	}
}

func TestLines(t *testing.T) {
	r := Build(sampleEvent(), time.Now())
	lines := r.Lines()

	labels := make([]string, len(lines))
	byLabel := map[string]string{}
	for i, l := range lines {
		labels[i] = l.Label
		byLabel[l.Label] = l.Value
	}

	wantOrder := []string{"Fecha y hora", "Tipo de evento", "Ubicación", "Estatus", "Título / Descripción", "Contacto", "Costo total", "Saldo pendiente"}
	if len(labels) != len(wantOrder) {
		t.Fatalf("labels = %v", labels)
	}
	for i, want := range wantOrder {
		if labels[i] != want {
			t.Errorf("label[%d] = %q, want %q", i, labels[i], want)
		}
	}

	if byLabel["Fecha y hora"] != "lunes, 28 de julio de 2025, 16:00" {
		t.Errorf("date = %q", byLabel["Fecha y hora"])
	}
	if byLabel["Costo total"] != "$3500.00 MXN" {
		t.Errorf("total = %q", byLabel["Costo total"])
	}
	if byLabel["Tipo de evento"] != "Boda" {
		t.Errorf("type = %q", byLabel["Tipo de evento"])
	}
}

func TestLinesOptionalFields(t *testing.T) {
	ev := sampleEvent()
	ev.TotalAmount = nil
	ev.BalanceDue = nil
	ev.Comments = "Entrada con Ave María"

	lines := Build(ev, time.Now()).Lines()
	for _, l := range lines {
		if l.Label == "Costo total" || l.Label == "Saldo pendiente" {
			t.Errorf("absent amount rendered: %v", l)
		}
	}
	last := lines[len(lines)-1]
	if last.Label != "Comentarios" || last.Value != ev.Comments {
		t.Errorf("comments line = %v", last)
	}

	// Comments identical to the title are not repeated.
	ev.Comments = ev.Title
	for _, l := range Build(ev, time.Now()).Lines() {
		if l.Label == "Comentarios" {
			t.Error("duplicate comments line rendered")
		}
	}
}

func TestFormatShortDate(t *testing.T) {
	got := FormatShortDate(time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC))
	if got != "3 de diciembre de 2025" {
		t.Errorf("got %q", got)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(Build(sampleEvent(), time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if img.Bounds().Dx() != 840 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestExportPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportPDF(&buf, Build(sampleEvent(), time.Now())); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Errorf("output does not look like a pdf: %q", buf.String()[:16])
	}
}
