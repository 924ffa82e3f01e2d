package regional

import (
	"strconv"
	"strings"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

// CreateThemeVariables maps a merchant theme onto the CSS custom properties
// the hosted checkout understands. Unset colours produce no variable.
func CreateThemeVariables(theme checkoutmodel.Theme) map[string]string {
	variables := map[string]string{}

	if theme.PrimaryColor != "" {
		variables["--reevit-primary"] = theme.PrimaryColor
		if theme.PrimaryForegroundColor != "" {
			variables["--reevit-primary-foreground"] = theme.PrimaryForegroundColor
		} else if contrast, ok := contrastingColor(theme.PrimaryColor); ok {
			variables["--reevit-primary-foreground"] = contrast
		}
	}
	if theme.BackgroundColor != "" {
		variables["--reevit-background"] = theme.BackgroundColor
	}
	if theme.SurfaceColor != "" {
		variables["--reevit-surface"] = theme.SurfaceColor
	}
	if theme.TextColor != "" {
		variables["--reevit-text"] = theme.TextColor
	}
	if theme.MutedTextColor != "" {
		variables["--reevit-text-secondary"] = theme.MutedTextColor
	}
	if theme.BorderRadius != "" {
		variables["--reevit-radius"] = theme.BorderRadius
		variables["--reevit-radius-sm"] = theme.BorderRadius
		variables["--reevit-radius-lg"] = theme.BorderRadius
	}
	if theme.FontFamily != "" {
		variables["--reevit-font"] = theme.FontFamily
	}

	return variables
}

// contrastingColor picks dark or white text for a #rgb or #rrggbb background
// using the YIQ brightness formula.
func contrastingColor(color string) (string, bool) {
	hex := strings.TrimSpace(color)
	if !strings.HasPrefix(hex, "#") {
		return "", false
	}

	if len(hex) == 4 {
		hex = "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
	}
	if len(hex) != 7 {
		return "", false
	}

	r, errR := strconv.ParseUint(hex[1:3], 16, 8)
	g, errG := strconv.ParseUint(hex[3:5], 16, 8)
	b, errB := strconv.ParseUint(hex[5:7], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return "", false
	}

	brightness := float64(r*299+g*587+b*114) / 1000
	if brightness >= 140 {
		return "#0b1120", true
	}
	return "#ffffff", true
}

// ClassNames joins the non-empty class names with a single space.
func ClassNames(classes ...string) string {
	kept := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}
