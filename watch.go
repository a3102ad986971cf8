package main

import (
	"log"
	"path/filepath"
	"time"

	"otcdocs/pkg/workflow"

	"github.com/fsnotify/fsnotify"
)

// watchCatalogFile reloads the slot-catalog override whenever the file
// changes. Events are debounced because editors fire several writes per save.
// Removal of the file restores the in-code defaults.
func watchCatalogFile(path string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("catalog watch disabled: %v", err)
		return
	}
	defer w.Close()
	// watch the directory, not the file: rename-and-replace saves drop the
	// watch on the inode otherwise
	if err := w.Add(filepath.Dir(path)); err != nil {
		log.Printf("catalog watch disabled: %v", err)
		return
	}
	log.Printf("Watching catalog file %s ...", path)

	var pending time.Time
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(path) {
				continue
			}
			if ev.Op&fsnotify.Remove == fsnotify.Remove {
				workflow.ResetCatalogs()
				log.Printf("catalog file removed, defaults restored")
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.Now()
			}
		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < 300*time.Millisecond {
				continue
			}
			pending = time.Time{}
			if err := workflow.LoadCatalogFile(path); err != nil {
				log.Printf("catalog reload failed, keeping previous catalogs: %v", err)
			} else {
				log.Printf("catalog reloaded from %s", path)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("catalog watch error: %v", err)
		}
	}
}
