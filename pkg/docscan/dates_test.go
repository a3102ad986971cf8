package docscan

import (
	"testing"
	"time"
)

func TestParseDateTokenFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"31/12/2026", "2026-12-31"},
		{"01-03-2027", "2027-03-01"},
		{"15.08.2026", "2026-08-15"},
		{"2026-05-31", "2026-05-31"},
		{"31 de diciembre de 2026", "2026-12-31"},
		{"5 de marzo 2027", "2027-03-05"},
	}
	for _, c := range cases {
		got, err := ParseDateToken(c.in)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if got.Format("2006-01-02") != c.want {
			t.Fatalf("%q: expected %s got %s", c.in, c.want, got.Format("2006-01-02"))
		}
	}
}

func TestParseDateTokenRejectsImplausible(t *testing.T) {
	for _, in := range []string{"", "31/02/2026", "12/13/2026", "01/01/1950", "hello"} {
		if _, err := ParseDateToken(in); err == nil {
			t.Fatalf("%q should not parse", in)
		}
	}
}

func TestFindDateCandidatesKeywordScoring(t *testing.T) {
	text := "CERTIFICADO emitido el 01/02/2024 FECHA DE VENCIMIENTO: 31/12/2026"
	cands := FindDateCandidates(text)
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates got %d: %+v", len(cands), cands)
	}
	when, raw, ok := BestExpiry(cands)
	if !ok || raw != "31/12/2026" {
		t.Fatalf("expected keyword-anchored date to win, got %q", raw)
	}
	if when.Year() != 2026 || when.Month() != time.December {
		t.Fatalf("wrong date %v", when)
	}
}

func TestFindDateCandidatesAccents(t *testing.T) {
	cands := FindDateCandidates("Válido hasta 15/07/2027")
	if len(cands) != 1 || cands[0].Score < 10 {
		t.Fatalf("accented keyword should still anchor, got %+v", cands)
	}
}

func TestBestExpiryTieBreaksLaterDate(t *testing.T) {
	cands := []Candidate{
		{Raw: "01/01/2026", When: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Score: 3},
		{Raw: "01/01/2027", When: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), Score: 3},
	}
	_, raw, ok := BestExpiry(cands)
	if !ok || raw != "01/01/2027" {
		t.Fatalf("expected later date to win, got %q", raw)
	}
	if _, _, ok := BestExpiry(nil); ok {
		t.Fatal("empty candidate list should not produce a date")
	}
}
