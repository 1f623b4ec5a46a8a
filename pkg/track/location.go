package track

import "strings"

// FormatLocation renders a checkpoint location as "COUNTRY, STATE, CITY",
// uppercased. Callers decide how to handle missing components before calling.
func FormatLocation(country, state, city string) string {
	return strings.ToUpper(strings.Join([]string{country, state, city}, ", "))
}
