package tui

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// dateFormat holds the Go time layouts used for list dates and detail
// timestamps.
type dateFormat struct {
	date     string
	dateTime string
	loc      *time.Location
}

var (
	layoutUS  = dateFormat{date: "1/2/2006", dateTime: "1/2/2006, 3:04:05 PM"}
	layoutDMY = dateFormat{date: "02/01/2006", dateTime: "02/01/2006, 15:04:05"}
	layoutDot = dateFormat{date: "2.1.2006", dateTime: "2.1.2006, 15:04:05"}
	layoutYMD = dateFormat{date: "2006/1/2", dateTime: "2006/1/2 15:04:05"}
	layoutISO = dateFormat{date: "2006-01-02", dateTime: "2006-01-02 15:04:05"}
)

// regionLayouts maps ISO 3166 region codes to date layouts.
var regionLayouts = map[string]dateFormat{
	"US": layoutUS, "PH": layoutUS,

	"GB": layoutDMY, "IE": layoutDMY, "AU": layoutDMY, "NZ": layoutDMY,
	"IN": layoutDMY, "FR": layoutDMY, "ES": layoutDMY, "IT": layoutDMY,
	"BR": layoutDMY, "PT": layoutDMY, "BE": layoutDMY, "GR": layoutDMY,

	"DE": layoutDot, "AT": layoutDot, "CH": layoutDot, "RU": layoutDot,
	"PL": layoutDot, "FI": layoutDot, "NO": layoutDot, "DK": layoutDot,
	"CZ": layoutDot, "UA": layoutDot, "TR": layoutDot,

	"JP": layoutYMD, "CN": layoutYMD, "TW": layoutYMD, "KR": layoutYMD,
}

// localeFromEnv returns the first non-empty of LC_ALL, LC_TIME and LANG.
func localeFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// parseLocale accepts a BCP 47 tag ("en-GB") or a POSIX locale
// ("en_GB.UTF-8@euro") and returns its language tag.
func parseLocale(locale string) (language.Tag, bool) {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// newDateFormat picks layouts for locale. Unknown or unparseable locales
// fall back to ISO 8601 dates.
func newDateFormat(locale string) dateFormat {
	f := layoutISO
	if tag, ok := parseLocale(locale); ok {
		// Region infers a likely region for bare languages ("de" -> DE).
		if region, conf := tag.Region(); conf != language.No {
			if l, found := regionLayouts[region.String()]; found {
				f = l
			}
		}
	}
	f.loc = time.Local
	return f
}

// Date formats t for a list row.
func (f dateFormat) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(f.location()).Format(f.date)
}

// DateTime formats t for the detail pane.
func (f dateFormat) DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(f.location()).Format(f.dateTime)
}

func (f dateFormat) location() *time.Location {
	if f.loc == nil {
		return time.Local
	}
	return f.loc
}
