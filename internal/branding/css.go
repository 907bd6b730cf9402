package branding

import (
	"strings"

	"drawbase/internal/models"
)

// GenerateCSSVariables renders the branding as a CSS custom-property block
// with the stored custom CSS appended verbatim. The custom CSS is
// operator-authored content and is not escaped here.
func GenerateCSSVariables(b *models.Branding) string {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	sb.WriteString("  --primary-color: " + b.PrimaryColor + ";\n")
	sb.WriteString("  --secondary-color: " + b.SecondaryColor + ";\n")
	if b.AccentColor != "" {
		sb.WriteString("  --accent-color: " + b.AccentColor + ";\n")
	}
	sb.WriteString("}\n")
	if b.CustomCSS != "" {
		sb.WriteString("\n")
		sb.WriteString(b.CustomCSS)
		sb.WriteString("\n")
	}
	return sb.String()
}
