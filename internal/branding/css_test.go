package branding

import (
	"strings"
	"testing"

	"drawbase/internal/models"
)

func TestGenerateCSSVariablesDefaults(t *testing.T) {
	b := &models.Branding{
		PrimaryColor:   models.DefaultPrimaryColor,
		SecondaryColor: models.DefaultSecondaryColor,
	}
	got := GenerateCSSVariables(b)
	want := ":root {\n  --primary-color: #1976d2;\n  --secondary-color: #dc004e;\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateCSSVariablesAccent(t *testing.T) {
	b := &models.Branding{
		PrimaryColor:   "#111111",
		SecondaryColor: "#222222",
		AccentColor:    "#333333",
	}
	got := GenerateCSSVariables(b)
	if !strings.Contains(got, "--accent-color: #333333;") {
		t.Errorf("accent color missing from %q", got)
	}
}

func TestGenerateCSSVariablesAppendsCustomCSS(t *testing.T) {
	b := &models.Branding{
		PrimaryColor:   "#111111",
		SecondaryColor: "#222222",
		CustomCSS:      ".banner { display: none; }",
	}
	got := GenerateCSSVariables(b)
	if !strings.HasSuffix(got, ".banner { display: none; }\n") {
		t.Errorf("custom CSS not appended verbatim: %q", got)
	}
	if !strings.Contains(got, "}\n\n.banner") {
		t.Errorf("custom CSS should follow the variable block after a blank line: %q", got)
	}
}
