package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Excel serial day numbers count from 1899-12-30; 2958465 is 9999-12-31.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const maxExcelSerial = 2958465

// The dotted abbreviation may run straight into the date ("TGL.12/07/2002").
var datePrefixRe = regexp.MustCompile(`(?i)^\s*(?:TGL\.\s*[:,]?\s*|(?:DI\s*TERBITKAN|TANGGAL|TGL)(?:\s*[:,]\s*|\s+))`)

var monthNames = map[string]string{
	"januari":   "January",
	"februari":  "February",
	"pebruari":  "February",
	"maret":     "March",
	"april":     "April",
	"mei":       "May",
	"juni":      "June",
	"juli":      "July",
	"agustus":   "August",
	"september": "September",
	"oktober":   "October",
	"nopember":  "November",
	"november":  "November",
	"desember":  "December",
	"jan":       "January",
	"feb":       "February",
	"peb":       "February",
	"mar":       "March",
	"apr":       "April",
	"jun":       "June",
	"jul":       "July",
	"agu":       "August",
	"agt":       "August",
	"ags":       "August",
	"agst":      "August",
	"sep":       "September",
	"sept":      "September",
	"okt":       "October",
	"oct":       "October",
	"nov":       "November",
	"nop":       "November",
	"des":       "December",
	"dec":       "December",
	"aug":       "August",
	"may":       "May",
}

var monthRe = func() *regexp.Regexp {
	names := make([]string, 0, len(monthNames))
	for k := range monthNames {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(names, "|") + `)\b`)
}()

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-1-2",
	"2006/1/2",
	"2 January 2006",
	"2 January, 2006",
	"2-January-2006",
	"January 2 2006",
	"January 2, 2006",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2-1-2006 15:04:05",
	"2/1/2006 15:04:05",
	"2-1-2006 15:04",
	"2/1/2006 15:04",
}

var (
	hyphenDigitsRe = regexp.MustCompile(`-(\d{8})-`)
	anyDigitsRe    = regexp.MustCompile(`\d{8}`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// NormalizeDate turns a spreadsheet date cell into an ISO date. When the cell is unusable the
// fallback string (usually the record's document code) is scanned for an embedded DDMMYYYY.
// A nil result means no date could be recovered; it never fails.
func NormalizeDate(value any, fallback string) *string {
	if iso, ok := dateFromScalar(value); ok {
		return &iso
	}
	if iso, ok := DateFromCode(fallback); ok {
		return &iso
	}
	return nil
}

func dateFromScalar(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.Format(time.DateOnly), true
	case float64:
		return dateFromSerial(v)
	case float32:
		return dateFromSerial(float64(v))
	case int:
		return dateFromSerial(float64(v))
	case int64:
		return dateFromSerial(float64(v))
	case int32:
		return dateFromSerial(float64(v))
	}
	s := scalarString(value)
	if s == "" {
		return "", false
	}
	t, ok := ParseDate(TranslateMonths(StripDatePrefixes(s)))
	if !ok {
		return "", false
	}
	return t.Format(time.DateOnly), true
}

func dateFromSerial(serial float64) (string, bool) {
	if serial < 1 || serial > maxExcelSerial || math.IsNaN(serial) {
		return "", false
	}
	days := int(math.Floor(serial))
	return excelEpoch.AddDate(0, 0, days).Format(time.DateOnly), true
}

// StripDatePrefixes removes literal lead-ins such as "DI TERBITKAN " or "TGL. ".
func StripDatePrefixes(s string) string {
	for {
		loc := datePrefixRe.FindStringIndex(s)
		if loc == nil {
			return strings.TrimSpace(s)
		}
		s = s[loc[1]:]
	}
}

// TranslateMonths replaces Indonesian (and abbreviated) month names with English ones, whole
// words only.
func TranslateMonths(s string) string {
	return monthRe.ReplaceAllStringFunc(s, func(m string) string {
		if en, ok := monthNames[strings.ToLower(m)]; ok {
			return en
		}
		return m
	})
}

// ParseDate tries the known layouts. Numeric layouts are day-first.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateFromCode finds an embedded DDMMYYYY run in a document code. Runs delimited by hyphens
// are preferred over bare ones.
func DateFromCode(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	for _, m := range hyphenDigitsRe.FindAllStringSubmatch(code, -1) {
		if iso, ok := dateFromDigits(m[1]); ok {
			return iso, true
		}
	}
	for _, m := range anyDigitsRe.FindAllString(code, -1) {
		if iso, ok := dateFromDigits(m); ok {
			return iso, true
		}
	}
	return "", false
}

func dateFromDigits(d string) (string, bool) {
	day, _ := strconv.Atoi(d[0:2])
	month, _ := strconv.Atoi(d[2:4])
	year, _ := strconv.Atoi(d[4:8])
	if day < 1 || day > 31 || month < 1 || month > 12 || year <= 1900 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}
	return t.Format(time.DateOnly), true
}
