package workflow

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCatalogCounts(t *testing.T) {
	cases := []struct {
		category string
		total    int
		required int
	}{
		{CategorySafety, 10, 6},
		{CategoryEnvironmental, 5, 3},
		{CategoryVehicles, 6, 4},
		{CategoryPersonnel, 6, 4},
		{CategoryTechSpecs, 4, 2},
		{CategoryLaborControl, 5, 4},
	}
	for _, c := range cases {
		slots, err := Catalog(c.category)
		if err != nil {
			t.Fatalf("%s: %v", c.category, err)
		}
		if len(slots) != c.total {
			t.Fatalf("%s: expected %d slots got %d", c.category, c.total, len(slots))
		}
		req, _ := RequiredCount(c.category)
		if req != c.required {
			t.Fatalf("%s: expected %d required got %d", c.category, c.required, req)
		}
		seen := map[string]bool{}
		for _, s := range slots {
			if s.Type == "" || s.Name == "" {
				t.Fatalf("%s: slot with empty type or name", c.category)
			}
			if seen[s.Type] {
				t.Fatalf("%s: duplicate slot type %s", c.category, s.Type)
			}
			seen[s.Type] = true
		}
	}
}

func TestCatalogUnknownCategory(t *testing.T) {
	_, err := Catalog("PAYROLL")
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError got %v", err)
	}
}

func TestLoadCatalogFileOverride(t *testing.T) {
	defer ResetCatalogs()
	override := map[string][]SlotDefinition{
		CategoryTechSpecs: {
			{Type: "WORK_METHOD_STATEMENT", Name: "Work Method Statement", Required: true},
		},
	}
	raw, _ := json.Marshal(override)
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadCatalogFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	slots, err := Catalog(CategoryTechSpecs)
	if err != nil || len(slots) != 1 {
		t.Fatalf("expected 1 overridden slot got %d err=%v", len(slots), err)
	}
	// untouched categories keep their defaults
	slots, _ = Catalog(CategorySafety)
	if len(slots) != 10 {
		t.Fatalf("safety catalog should be untouched, got %d slots", len(slots))
	}
}

func TestLoadCatalogFileRejectsUnknownCategory(t *testing.T) {
	defer ResetCatalogs()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"NOPE":[{"type":"X","name":"X"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadCatalogFile(path); err == nil {
		t.Fatal("expected error for unknown category key")
	}
	slots, _ := Catalog(CategorySafety)
	if len(slots) != 10 {
		t.Fatalf("failed load must not alter catalogs, got %d slots", len(slots))
	}
}
