package docscan

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// ExtractExpiry performs light preprocessing + Tesseract OCR on a scanned
// document and attempts to find its expiration date. Returns the date, a rough
// confidence in [0,1] and the raw matched substring. ErrNoDate when nothing
// plausible is found.
func ExtractExpiry(path string) (time.Time, float64, string, error) {
	tmp := prepareImage(path)
	if tmp != path {
		defer os.Remove(tmp)
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("spa+eng")
	client.SetImage(tmp)
	text, err := client.Text()
	if err != nil {
		return time.Time{}, 0, "", fmt.Errorf("ocr: %w", err)
	}
	text = normalizeText(text)

	cands := FindDateCandidates(text)
	when, raw, ok := BestExpiry(cands)
	if !ok {
		return time.Time{}, 0, "", ErrNoDate
	}
	// Confidence proxy: keyword-anchored matches are trustworthy, bare dates
	// much less so.
	conf := 0.3
	for _, c := range cands {
		if c.Raw == raw && c.Score >= 10 {
			conf = 0.85
		}
	}
	if when.Before(time.Now().AddDate(-1, 0, 0)) {
		conf = conf / 2 // long-expired date on a fresh upload is suspicious
	}
	return when, conf, raw, nil
}

// normalizeText collapses whitespace and replaces newlines/tabs.
func normalizeText(t string) string {
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	return strings.Join(strings.Fields(t), " ")
}
