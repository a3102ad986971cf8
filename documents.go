package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"otcdocs/models"
	"otcdocs/pkg/docscan"
	"otcdocs/pkg/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxDocumentSize = 20 * 1024 * 1024

// uploadDocumentHandler creates or updates the document filling one slot of a
// folder. The multipart form carries the file plus "type" (slot code), an
// optional "name" and an optional "expiration_date" (YYYY-MM-DD). A re-upload
// for an already-filled slot replaces the file and resets the row to DRAFT,
// clearing any prior review outcome.
func uploadDocumentHandler(c *gin.Context) {
	folder, user, ok := loadFolder(c, c.Param("id"))
	if !ok {
		return
	}
	// loadFolder already rejected contractors from other companies; a
	// contractor with no company binding cannot upload anywhere
	if !isStaff(c) && user.CompanyID == nil {
		failJSON(c, &workflow.UnauthorizedError{Reason: "user is not bound to a company"})
		return
	}
	if err := workflow.EnsureEditable(folder.Status); err != nil {
		failJSON(c, err)
		return
	}
	slotType := c.PostForm("type")
	if slotType == "" {
		failJSON(c, &workflow.ValidationError{Reason: "document type is required"})
		return
	}
	// validates the slot belongs to the folder's category
	if _, err := workflow.ResolveSlot(folder.Category, slotType, nil); err != nil {
		failJSON(c, err)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		failJSON(c, &workflow.ValidationError{Reason: "file missing"})
		return
	}
	if file.Size == 0 {
		failJSON(c, &workflow.ValidationError{Reason: "file is empty"})
		return
	}
	if file.Size > maxDocumentSize {
		failJSON(c, &workflow.ValidationError{Reason: "file too large (max 20MB)"})
		return
	}
	var expiration *time.Time
	if v := c.PostForm("expiration_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			failJSON(c, &workflow.ValidationError{Reason: "expiration_date must be YYYY-MM-DD"})
			return
		}
		expiration = &t
	}
	name := c.PostForm("name")
	if name == "" {
		name = file.Filename
	}

	// store under company/folder with a uuid object key so filenames can never collide
	key := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	relPath := fmt.Sprintf("company_%d/folder_%d/%s", folder.CompanyID, folder.ID, key)
	fullPath := filepath.Join(uploadBaseDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		failJSON(c, err)
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		failJSON(c, err)
		return
	}
	ct := file.Header.Get("Content-Type")

	// Scanned image without a stated expiration: try to read one off the
	// document. Best-effort, a failed scan never blocks the upload.
	if expiration == nil && strings.HasPrefix(ct, "image/") {
		if when, conf, raw, err := docscan.ExtractExpiry(fullPath); err == nil && conf >= 0.5 {
			expiration = &when
			log.Printf("docscan: expiry %s (raw %q, conf %.2f) for folder %d slot %s", when.Format("2006-01-02"), raw, conf, folder.ID, slotType)
		}
	}

	storePath := "public/" + relPath
	var existing models.Document
	if err := db.Where("folder_id = ? AND type = ?", folder.ID, slotType).First(&existing).Error; err == nil {
		// re-upload: replace and require re-review
		updates := map[string]interface{}{
			"name":            name,
			"url":             storePath,
			"storage_key":     key,
			"content_type":    ct,
			"size":            file.Size,
			"status":          workflow.StatusDraft,
			"review_notes":    "",
			"reviewed_at":     nil,
			"reviewer_id":     nil,
			"expiration_date": expiration,
			"uploaded_by_id":  user.ID,
		}
		if err := db.Model(&models.Document{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			failJSON(c, err)
			return
		}
		recordActivity(user.ID, "update", "document", existing.ID, moduleFor(folder), name)
		c.JSON(http.StatusOK, gin.H{"ok": true, "id": existing.ID, "url": storePath, "updated": true})
		return
	}

	doc := models.Document{
		FolderID:       folder.ID,
		Type:           slotType,
		Name:           name,
		URL:            storePath,
		StorageKey:     key,
		ContentType:    ct,
		Size:           file.Size,
		Status:         workflow.StatusDraft,
		ExpirationDate: expiration,
		UploadedByID:   user.ID,
	}
	if err := db.Create(&doc).Error; err != nil {
		failJSON(c, err)
		return
	}
	recordActivity(user.ID, "upload", "document", doc.ID, moduleFor(folder), name)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": doc.ID, "url": storePath, "updated": false})
}

// getDocumentHandler returns a single document if staff or owner.
func getDocumentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var doc models.Document
	if err := db.Preload("Folder").First(&doc, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "not found"})
		return
	}
	if !isStaff(c) && (user.CompanyID == nil || *user.CompanyID != doc.Folder.CompanyID) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// reviewDocumentHandler records a reviewer's verdict on one document while
// its folder is under review. Rejections must carry notes.
func reviewDocumentHandler(c *gin.Context) {
	if !isStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "staff role required"})
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var req struct {
		Approved *bool  `json:"approved" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	var doc models.Document
	if err := db.Preload("Folder").First(&doc, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "not found"})
		return
	}
	next, err := workflow.ReviewDocument(doc.Folder.Status, doc.Status, *req.Approved, req.Notes)
	if err != nil {
		failJSON(c, err)
		return
	}
	now := time.Now()
	rid := user.ID
	updates := map[string]interface{}{
		"status":       next,
		"review_notes": strings.TrimSpace(req.Notes),
		"reviewed_at":  &now,
		"reviewer_id":  &rid,
	}
	if err := db.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
		failJSON(c, err)
		return
	}
	recordActivity(user.ID, "review", "document", doc.ID, moduleFor(&doc.Folder), next)
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": next})
}

// undoReviewHandler resets review outcomes on one or more documents back to
// SUBMITTED, used to correct reviewer mistakes. Best-effort per row.
func undoReviewHandler(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "administrator role required"})
		return
	}
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var req struct {
		DocumentIDs []uint `json:"document_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	if len(req.DocumentIDs) == 0 {
		failJSON(c, &workflow.ValidationError{Reason: "document_ids is empty"})
		return
	}
	reset := 0
	for _, id := range req.DocumentIDs {
		var doc models.Document
		if err := db.Preload("Folder").First(&doc, id).Error; err != nil {
			continue
		}
		next, err := workflow.UndoReview(doc.Status)
		if err != nil {
			continue
		}
		updates := map[string]interface{}{
			"status":       next,
			"review_notes": "",
			"reviewed_at":  nil,
			"reviewer_id":  nil,
		}
		if err := db.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
			log.Printf("undo review: document %d failed: %v", doc.ID, err)
			continue
		}
		recordActivity(user.ID, "undo_review", "document", doc.ID, moduleFor(&doc.Folder), "")
		reset++
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reset": reset, "total": len(req.DocumentIDs)})
}
