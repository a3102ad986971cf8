package docscan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numericDateRE = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{4})\b`)
	isoDateRE     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	spanishDateRE = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+([a-zñ]+)\s+(?:de\s+)?(\d{4})\b`)
)

// expiry keywords in the order certificates usually print them; matching is
// case-insensitive and accent-stripped.
var expiryKeywords = []string{
	"vencimiento", "vence", "valido hasta", "vigencia hasta", "vigente hasta",
	"expira", "expiracion", "valid until", "expiry", "expires",
}

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

// ParseDateToken normalizes a matched substring into a date. Numeric forms are
// read day-first (Chilean certificates), ISO forms year-first.
func ParseDateToken(raw string) (time.Time, error) {
	s := strings.TrimSpace(deaccent(raw))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty")
	}
	if m := isoDateRE.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}
	if m := numericDateRE.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := spanishDateRE.FindStringSubmatch(s); m != nil {
		month, ok := spanishMonths[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month %q", m[2])
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		return validDate(year, month, day)
	}
	return time.Time{}, fmt.Errorf("no date in %q", raw)
}

func buildDate(dayS, monthS, yearS string) (time.Time, error) {
	day, _ := strconv.Atoi(dayS)
	month, _ := strconv.Atoi(monthS)
	year, _ := strconv.Atoi(yearS)
	return validDate(year, time.Month(month), day)
}

func validDate(year int, month time.Month, day int) (time.Time, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("implausible date %04d-%02d-%02d", year, month, day)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// reject rollover like 31/02
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, month, day)
	}
	return t, nil
}

// Candidate is one date found in OCR text with its context score.
type Candidate struct {
	Raw   string
	When  time.Time
	Score int
}

// FindDateCandidates scans OCR text for date tokens and scores them by
// proximity to an expiry keyword. Dates far in the past score low but are not
// discarded; the caller decides.
func FindDateCandidates(text string) []Candidate {
	norm := deaccent(strings.ToLower(text))
	var cands []Candidate
	seen := map[string]bool{}
	for _, re := range []*regexp.Regexp{isoDateRE, numericDateRE, spanishDateRE} {
		for _, loc := range re.FindAllStringIndex(norm, -1) {
			raw := norm[loc[0]:loc[1]]
			if seen[raw] {
				continue
			}
			when, err := ParseDateToken(raw)
			if err != nil {
				continue
			}
			seen[raw] = true
			score := 0
			// keyword within the 40 chars before the date is a strong signal
			start := loc[0] - 40
			if start < 0 {
				start = 0
			}
			window := norm[start:loc[0]]
			for _, kw := range expiryKeywords {
				if strings.Contains(window, kw) {
					score += 10
					break
				}
			}
			if when.After(time.Now()) {
				score += 3
			}
			cands = append(cands, Candidate{Raw: raw, When: when, Score: score})
		}
	}
	return cands
}

// BestExpiry selects the highest-scoring candidate; ties prefer the later
// date, then the longer raw match.
func BestExpiry(cands []Candidate) (time.Time, string, bool) {
	if len(cands) == 0 {
		return time.Time{}, "", false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		replace := false
		if c.Score > best.Score {
			replace = true
		} else if c.Score == best.Score {
			if c.When.After(best.When) {
				replace = true
			} else if c.When.Equal(best.When) && len(c.Raw) > len(best.Raw) {
				replace = true
			}
		}
		if replace {
			best = c
		}
	}
	return best.When, best.Raw, true
}

// deaccent maps the accented characters seen on Chilean certificates to ASCII
// so keyword matching is stable across OCR output.
func deaccent(s string) string {
	r := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
	)
	return r.Replace(s)
}
