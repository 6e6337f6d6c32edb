package ui

import (
	"strings"
	"testing"
)

func TestAllPageTemplatesParsed(t *testing.T) {
	want := []string{
		"home.html",
		"ensayos.html",
		"contrataciones.html",
		"login.html",
		"registro.html",
		"perfil.html",
		"calendario.html",
		"cita_nueva.html",
		"cita_detalle.html",
		"recibo.html",
	}
	for _, name := range want {
		if _, ok := templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
	if _, ok := templates["base.html"]; ok {
		t.Error("base.html should not be a standalone page set")
	}
}

func TestMarketingContentRendered(t *testing.T) {
	for _, name := range []string{"home", "ensayos", "contrataciones"} {
		html, ok := pageContent[name]
		if !ok {
			t.Errorf("content %q not rendered", name)
			continue
		}
		if !strings.Contains(string(html), "<") {
			t.Errorf("content %q does not look like html: %q", name, html)
		}
	}
	if !strings.Contains(string(pageContent["ensayos"]), "<table>") {
		t.Error("rehearsal schedule table not rendered from markdown")
	}
}

func TestMoneyFunc(t *testing.T) {
	money := funcMap["money"].(func(*float64) string)
	if got := money(nil); got != "—" {
		t.Errorf("money(nil) = %q", got)
	}
	v := 1500.5
	if got := money(&v); got != "$1500.50" {
		t.Errorf("money = %q", got)
	}
}
