package utils

import "strings"

// ParseCSV splits a comma-separated string and returns trimmed non-empty values.
// Returns nil for empty/whitespace-only input.
// Used to parse the sentiment filter and other comma-separated configuration
// values coming from the environment and the API.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// CleanTicker normalizes a ticker symbol: uppercase, trimmed, dots replaced
// with dashes (Yahoo Finance format, e.g. BRK.B -> BRK-B), and any character
// that is not alphanumeric or a dash stripped.
func CleanTicker(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	t = strings.ReplaceAll(t, ".", "-")

	var b strings.Builder
	for _, c := range t {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
