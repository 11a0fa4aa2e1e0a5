package transform

import (
	"strings"
	"unicode"
)

// CleanName strips characters the downstream API rejects in passenger
// names (hyphens, apostrophes, slashes and similar), keeping letters
// and spaces only.
func CleanName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanPhone reduces a phone number to digits, preserving a leading +.
func CleanPhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanAlphanumeric keeps letters and digits only, for document numbers.
func CleanAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// countryISO3 maps the citizenship names FareHarbor surfaces to ISO
// 3166-1 alpha-3 codes. Unknown names fall through unchanged when they
// already look like a code, otherwise "".
var countryISO3 = map[string]string{
	"united states":            "USA",
	"united states of america": "USA",
	"usa":                      "USA",
	"bahamas":                  "BHS",
	"canada":                   "CAN",
	"united kingdom":           "GBR",
	"great britain":            "GBR",
	"england":                  "GBR",
	"mexico":                   "MEX",
	"germany":                  "DEU",
	"france":                   "FRA",
	"spain":                    "ESP",
	"italy":                    "ITA",
	"netherlands":              "NLD",
	"switzerland":              "CHE",
	"austria":                  "AUT",
	"belgium":                  "BEL",
	"sweden":                   "SWE",
	"norway":                   "NOR",
	"denmark":                  "DNK",
	"ireland":                  "IRL",
	"portugal":                 "PRT",
	"poland":                   "POL",
	"australia":                "AUS",
	"new zealand":              "NZL",
	"japan":                    "JPN",
	"china":                    "CHN",
	"india":                    "IND",
	"brazil":                   "BRA",
	"argentina":                "ARG",
	"colombia":                 "COL",
	"jamaica":                  "JAM",
	"haiti":                    "HTI",
	"dominican republic":       "DOM",
	"cuba":                     "CUB",
	"trinidad and tobago":      "TTO",
	"south africa":             "ZAF",
	"israel":                   "ISR",
	"south korea":              "KOR",
	"philippines":              "PHL",
}

// CountryISO3 converts a country name to its ISO3 code.
func CountryISO3(country string) string {
	key := strings.ToLower(strings.TrimSpace(country))
	if code, ok := countryISO3[key]; ok {
		return code
	}
	if len(key) == 3 && CleanAlphanumeric(key) == key {
		return strings.ToUpper(key)
	}
	return ""
}
