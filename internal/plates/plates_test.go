package plates_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/jjawny/parkingsim/internal/plates"
)

func writePlatesFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plates.txt")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestValidRejectsWrongLength(t *testing.T) {
	cases := map[string]bool{
		"206WHS": true,
		"20WHS":  false, // length 5
		"206WHSA": false, // length 7
		"":       false,
		"ABCDEF": false, // wrong shape (letters where digits expected)
	}
	for in, want := range cases {
		if got := plates.Valid(in); got != want {
			t.Errorf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadWhitelistSkipsMalformedLines(t *testing.T) {
	path := writePlatesFile(t, "206whs\n\n20WHS\n206WHSA\nnotaplate\n111AAA\n")
	w, err := plates.LoadWhitelist(path)
	if err != nil {
		t.Fatalf("LoadWhitelist: %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", w.Len())
	}
	if !w.Authorised("206WHS") || !w.Authorised("206whs") {
		t.Error("206WHS should be authorised case-insensitively")
	}
	if !w.Authorised("111aaa") {
		t.Error("111AAA should be authorised case-insensitively")
	}
	if w.Authorised("ABC123") {
		t.Error("ABC123 should not be authorised")
	}
}

func TestLoadWhitelistMissingFileErrors(t *testing.T) {
	if _, err := plates.LoadWhitelist(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestLoadPoolPicksFromFile(t *testing.T) {
	path := writePlatesFile(t, "206WHS\n111AAA\n")
	p, err := plates.LoadPool(path, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("LoadPool: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[p.Pick()] = true
	}
	if !seen["206WHS"] || !seen["111AAA"] {
		t.Errorf("Pick() never returned both entries across 50 draws: %v", seen)
	}
}
