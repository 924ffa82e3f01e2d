package regional

import (
	"regexp"
	"strings"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

var (
	nonDigits = regexp.MustCompile(`\D`)

	phonePatterns = map[string]*regexp.Regexp{
		"GH": regexp.MustCompile(`^(?:233|0)?[235][0-9]{8}$`),
		"NG": regexp.MustCompile(`^(?:234|0)?[789][01][0-9]{8}$`),
		"KE": regexp.MustCompile(`^(?:254|0)?[17][0-9]{8}$`),
	}

	networkPrefixes = map[string]checkoutmodel.MobileMoneyNetwork{
		"24": checkoutmodel.NetworkMTN,
		"25": checkoutmodel.NetworkMTN,
		"53": checkoutmodel.NetworkMTN,
		"54": checkoutmodel.NetworkMTN,
		"55": checkoutmodel.NetworkMTN,
		"59": checkoutmodel.NetworkMTN,
		"20": checkoutmodel.NetworkTelecel,
		"50": checkoutmodel.NetworkTelecel,
		"26": checkoutmodel.NetworkAirtelTigo,
		"27": checkoutmodel.NetworkAirtelTigo,
		"56": checkoutmodel.NetworkAirtelTigo,
		"57": checkoutmodel.NetworkAirtelTigo,
	}
)

func digitsOnly(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidatePhone checks a mobile money number. Countries without a known
// numbering plan only need ten digits.
func ValidatePhone(phone string, country string) bool {
	digits := digitsOnly(phone)

	pattern, found := phonePatterns[strings.ToUpper(country)]
	if !found {
		return len(digits) >= 10
	}
	return pattern.MatchString(digits)
}

// FormatPhone renders Ghanaian numbers as 0XX XXX XXXX; anything else is
// returned untouched.
func FormatPhone(phone string, country string) string {
	digits := digitsOnly(phone)

	if country == "GH" {
		if strings.HasPrefix(digits, "233") && len(digits) == 12 {
			local := "0" + digits[3:]
			return local[:3] + " " + local[3:6] + " " + local[6:]
		}
		if len(digits) == 10 && strings.HasPrefix(digits, "0") {
			return digits[:3] + " " + digits[3:6] + " " + digits[6:]
		}
	}

	return phone
}

// DetectNetwork guesses the Ghanaian mobile money network from the number
// prefix. ok is false when the prefix is unknown.
func DetectNetwork(phone string) (checkoutmodel.MobileMoneyNetwork, bool) {
	digits := digitsOnly(phone)

	var prefix string
	switch {
	case strings.HasPrefix(digits, "233"):
		prefix = safeSlice(digits, 3, 5)
	case strings.HasPrefix(digits, "0"):
		prefix = safeSlice(digits, 1, 3)
	default:
		prefix = safeSlice(digits, 0, 2)
	}

	network, ok := networkPrefixes[prefix]
	return network, ok
}

func safeSlice(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
