package providers

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FormatSalary renders the common human-readable salary string from numeric
// bounds. Both bounds present: "$min - $max"; one bound: "From $min" or
// "Up to $max"; neither: "Salary not specified". Values of 1000 and above
// are abbreviated with a k suffix.
func FormatSalary(min, max int) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("$%s - $%s", abbreviate(min), abbreviate(max))
	case min > 0:
		return fmt.Sprintf("From $%s", abbreviate(min))
	case max > 0:
		return fmt.Sprintf("Up to $%s", abbreviate(max))
	default:
		return "Salary not specified"
	}
}

func abbreviate(v int) string {
	if v < 1000 {
		return fmt.Sprintf("%d", v)
	}
	if v%1000 == 0 {
		return fmt.Sprintf("%dk", v/1000)
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(v)/1000), ".0") + "k"
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML tags and collapses whitespace. Provider
// descriptions frequently arrive with markup embedded.
func StripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	return CollapseWhitespace(s)
}

// CollapseWhitespace trims and folds runs of whitespace into single spaces
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01-02T15:04:05.000000",
}

// ParseDate parses the timestamp formats seen across provider APIs,
// returning the zero time when none match
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Truncate limits a description to max runes without splitting a word where
// possible
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
