package i18n

import (
	"testing"
	"testing/fstest"
)

func TestBundledLocalesLoad(t *testing.T) {
	if err := LoadError(); err != nil {
		t.Fatalf("load locales: %v", err)
	}
	locales := Locales()
	if len(locales) != 2 || locales[0] != "en-US" {
		t.Fatalf("locales = %v", locales)
	}
}

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if GetCatalog("") != base {
		t.Fatal("expected empty locale to use en-US")
	}
}

func TestGetCatalogMatchesRegion(t *testing.T) {
	cat := GetCatalog("pt-PT")
	if cat.Locale() != "pt-BR" {
		t.Fatalf("locale = %q, want pt-BR", cat.Locale())
	}
	if got := Match("pt-BR,pt;q=0.9,en;q=0.5"); got != "pt-BR" {
		t.Fatalf("match = %q", got)
	}
	if got := Match("de-DE"); got != "en-US" {
		t.Fatalf("match = %q, want en-US", got)
	}
}

func TestBundledMessagesCoverSameCodes(t *testing.T) {
	base := GetCatalog("en-US")
	other := GetCatalog("pt-BR")
	for code := range base.messages {
		if _, ok := other.messages[code]; !ok {
			t.Errorf("pt-BR missing %s", code)
		}
	}
	for key := range base.labels {
		if _, ok := other.labels[key]; !ok {
			t.Errorf("pt-BR missing label %s", key)
		}
	}
}

func TestFormatBundled(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format("INSUFFICIENT_FEAR", map[string]string{"Have": "1", "Need": "3"})
	if got != "Not enough Fear (1 of 3)." {
		t.Fatalf("format = %q", got)
	}
	got = cat.Format("MONSTER_NOT_FOUND", map[string]string{"Name": "Sentry Dron", "Suggestion": "Sentry Drone"})
	if got != "No bestiary entry named Sentry Dron. Did you mean Sentry Drone?" {
		t.Fatalf("format = %q", got)
	}
	if cat.Label("fear") != "Fear" || GetCatalog("pt-BR").Label("fear") != "Medo" {
		t.Fatal("unexpected fear label")
	}
	if cat.Label("missing") != "missing" {
		t.Fatal("expected label key fallback")
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
	var nilCat *Catalog
	if nilCat.Format("code", nil) != "code" {
		t.Fatal("expected nil catalog to return code")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}

func TestParseLocalesDefaultsLocaleFromFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/fr-FR.yaml": {Data: []byte("errors:\n  UNKNOWN: \"Erreur\"\n")},
		"locales/bad.yaml":   {Data: []byte("errors: [\n")},
	}
	cats, err := parseLocales(fsys)
	if err == nil {
		t.Fatal("expected parse error for bad.yaml")
	}
	if len(cats) != 0 {
		t.Fatalf("expected bad.yaml (sorted first) to stop parsing, got %d", len(cats))
	}

	delete(fsys, "locales/bad.yaml")
	cats, err = parseLocales(fsys)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cats) != 1 || cats[0].Locale() != "fr-FR" || cats[0].Format("UNKNOWN", nil) != "Erreur" {
		t.Fatalf("unexpected catalogs %+v", cats)
	}
}
