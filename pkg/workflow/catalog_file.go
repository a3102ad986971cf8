package workflow

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCatalogFile replaces the in-code catalogs with the contents of a JSON
// file mapping category code to a slot list. Categories missing from the file
// keep their defaults; unknown category keys are rejected so a typo cannot
// silently define a dead catalog.
func LoadCatalogFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var override map[string][]SlotDefinition
	if err := json.Unmarshal(raw, &override); err != nil {
		return fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	merged := make(map[string][]SlotDefinition, len(defaultCatalogs))
	for cat, slots := range defaultCatalogs {
		merged[cat] = slots
	}
	for cat, slots := range override {
		if _, ok := defaultCatalogs[cat]; !ok {
			return fmt.Errorf("catalog file %s: %w", path, &ConfigurationError{Category: cat})
		}
		if len(slots) == 0 {
			return fmt.Errorf("catalog file %s: category %s has no slots", path, cat)
		}
		merged[cat] = slots
	}
	catalogMu.Lock()
	catalogs = merged
	catalogMu.Unlock()
	return nil
}

// ResetCatalogs restores the in-code defaults. Used by tests and by the
// watcher when the override file is removed.
func ResetCatalogs() {
	catalogMu.Lock()
	catalogs = defaultCatalogs
	catalogMu.Unlock()
}
