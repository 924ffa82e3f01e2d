package regional

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyLocales = map[string]language.Tag{
	"GHS": language.MustParse("en-GH"),
	"NGN": language.MustParse("en-NG"),
	"KES": language.MustParse("en-KE"),
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
}

// FormatAmount renders an amount in minor units (pesewas, kobo, cents) for
// display, localised for the currency's home market.
func FormatAmount(amount int64, currencyCode string) string {
	code := strings.ToUpper(currencyCode)
	major := float64(amount) / 100

	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", currencyCode, major)
	}

	tag, found := currencyLocales[code]
	if !found {
		tag = language.AmericanEnglish
	}

	return message.NewPrinter(tag).Sprintf("%v", currency.Symbol(unit.Amount(major)))
}

var currencyCountries = map[string]string{
	"GHS": "GH",
	"NGN": "NG",
	"KES": "KE",
	"UGX": "UG",
	"TZS": "TZ",
	"ZAR": "ZA",
	"XOF": "CI",
	"XAF": "CM",
	"USD": "US",
	"EUR": "DE",
	"GBP": "GB",
}

// DetectCountryFromCurrency maps a currency to the country used for routing.
// Unknown currencies default to Ghana.
func DetectCountryFromCurrency(currencyCode string) string {
	country, found := currencyCountries[strings.ToUpper(currencyCode)]
	if !found {
		return "GH"
	}
	return country
}
