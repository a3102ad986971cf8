package main

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"

	"otcdocs/models"
	"otcdocs/pkg/workflow"

	"github.com/gin-gonic/gin"
)

var periodRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// loadFolder fetches a folder and checks the caller may see it. Staff see
// everything; contractors only their own company's folders.
func loadFolder(c *gin.Context, id string) (*models.Folder, *models.User, bool) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return nil, nil, false
	}
	var folder models.Folder
	if err := db.First(&folder, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "folder not found"})
		return nil, nil, false
	}
	if !isStaff(c) && (user.CompanyID == nil || *user.CompanyID != folder.CompanyID) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "forbidden"})
		return nil, nil, false
	}
	return &folder, user, true
}

func folderDocuments(folderID uint) ([]models.Document, error) {
	var docs []models.Document
	if err := db.Where("folder_id = ?", folderID).Order("id asc").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// getFolderHandler returns a folder with its catalog resolved against the
// uploaded documents, plus both progress variants.
func getFolderHandler(c *gin.Context) {
	folder, _, ok := loadFolder(c, c.Param("id"))
	if !ok {
		return
	}
	docs, err := folderDocuments(folder.ID)
	if err != nil {
		failJSON(c, err)
		return
	}
	slots, err := workflow.ResolveSlots(folder.Category, docs)
	if err != nil {
		failJSON(c, err)
		return
	}
	up, err := workflow.UploadProgress(folder.Category, docs)
	if err != nil {
		failJSON(c, err)
		return
	}
	ap, err := workflow.ApprovalProgress(folder.Category, docs)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"folder":            folder,
		"slots":             slots,
		"upload_progress":   up,
		"approval_progress": ap,
	})
}

// submitFolderHandler moves a folder into review. The folder's DRAFT
// documents move to SUBMITTED with it so reviewers work on a uniform base.
func submitFolderHandler(c *gin.Context) {
	folder, user, ok := loadFolder(c, c.Param("id"))
	if !ok {
		return
	}
	next, err := workflow.Submit(folder.Status)
	if err != nil {
		failJSON(c, err)
		return
	}
	now := time.Now()
	updates := map[string]interface{}{"status": next, "submitted_at": &now}
	if err := db.Model(&models.Folder{}).Where("id = ?", folder.ID).Updates(updates).Error; err != nil {
		failJSON(c, err)
		return
	}
	if err := db.Model(&models.Document{}).
		Where("folder_id = ? AND status = ?", folder.ID, workflow.StatusDraft).
		Update("status", workflow.StatusSubmitted).Error; err != nil {
		log.Printf("failed to mark documents submitted for folder %d: %v", folder.ID, err)
	}
	recordActivity(user.ID, "submit", "folder", folder.ID, moduleFor(folder), folder.Category)
	notifyRole("reviewer", fmt.Sprintf("Folder %s submitted for review", folder.Category), fmt.Sprintf("/folders/%d", folder.ID))
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": next})
}

// reviewFolderHandler resolves a submitted folder. Approval locks it for
// good; rejection sends it back to the contractor with the reviewer message.
func reviewFolderHandler(c *gin.Context) {
	if !isStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "staff role required"})
		return
	}
	folder, user, ok := loadFolder(c, c.Param("id"))
	if !ok {
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
	next, err := workflow.Decide(folder.Status, *req.Approved)
	if err != nil {
		failJSON(c, err)
		return
	}
	now := time.Now()
	rid := user.ID
	updates := map[string]interface{}{"status": next, "reviewed_at": &now, "reviewer_id": &rid}
	if err := db.Model(&models.Folder{}).Where("id = ?", folder.ID).Updates(updates).Error; err != nil {
		failJSON(c, err)
		return
	}
	recordActivity(user.ID, "review", "folder", folder.ID, moduleFor(folder), next)
	if next == workflow.StatusApproved {
		notifyCompany(folder.CompanyID, fmt.Sprintf("Folder %s was approved", folder.Category), fmt.Sprintf("/folders/%d", folder.ID))
	} else {
		msg := fmt.Sprintf("Folder %s was rejected, please correct and resubmit", folder.Category)
		if req.Notes != "" {
			msg += ": " + req.Notes
		}
		notifyCompany(folder.CompanyID, msg, fmt.Sprintf("/folders/%d", folder.ID))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": next})
}

func moduleFor(folder *models.Folder) string {
	if folder.Category == workflow.CategoryLaborControl {
		return "labor_control"
	}
	return "startup_folders"
}

// startupFolderProgress aggregates a company's startup folder: company-level
// categories evaluated once each, vehicles and workers evaluated once per
// instance and summed.
func startupFolderProgress(companyID uint) (workflow.Progress, workflow.Progress, error) {
	var uploadParts, approvalParts []workflow.Progress
	for _, cat := range workflow.CompanyCategories() {
		var folder models.Folder
		var docs []models.Document
		err := db.Where("company_id = ? AND category = ? AND vehicle_id IS NULL AND worker_id IS NULL", companyID, cat).First(&folder).Error
		if err == nil {
			if docs, err = folderDocuments(folder.ID); err != nil {
				return workflow.Progress{}, workflow.Progress{}, err
			}
		}
		up, err := workflow.UploadProgress(cat, docs)
		if err != nil {
			return workflow.Progress{}, workflow.Progress{}, err
		}
		ap, err := workflow.ApprovalProgress(cat, docs)
		if err != nil {
			return workflow.Progress{}, workflow.Progress{}, err
		}
		uploadParts = append(uploadParts, up)
		approvalParts = append(approvalParts, ap)
	}
	for _, cat := range []string{workflow.CategoryVehicles, workflow.CategoryPersonnel} {
		instances, err := instanceDocuments(companyID, cat)
		if err != nil {
			return workflow.Progress{}, workflow.Progress{}, err
		}
		up, err := workflow.InstanceUploadProgress(cat, instances)
		if err != nil {
			return workflow.Progress{}, workflow.Progress{}, err
		}
		ap, err := workflow.InstanceApprovalProgress(cat, instances)
		if err != nil {
			return workflow.Progress{}, workflow.Progress{}, err
		}
		uploadParts = append(uploadParts, up)
		approvalParts = append(approvalParts, ap)
	}
	return workflow.SumProgress(uploadParts...), workflow.SumProgress(approvalParts...), nil
}

// instanceDocuments loads the document list of every instance folder of a
// category (one per vehicle or worker) for a company.
func instanceDocuments(companyID uint, category string) ([][]models.Document, error) {
	var folders []models.Folder
	if err := db.Where("company_id = ? AND category = ? AND parent_id IS NULL", companyID, category).
		Order("id asc").Find(&folders).Error; err != nil {
		return nil, err
	}
	instances := make([][]models.Document, 0, len(folders))
	for _, f := range folders {
		docs, err := folderDocuments(f.ID)
		if err != nil {
			return nil, err
		}
		instances = append(instances, docs)
	}
	return instances, nil
}

func companyProgressHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var company models.Company
	if err := db.First(&company, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "company not found"})
		return
	}
	if !isStaff(c) && (user.CompanyID == nil || *user.CompanyID != company.ID) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "forbidden"})
		return
	}
	up, ap, err := startupFolderProgress(company.ID)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company_id": company.ID, "upload_progress": up, "approval_progress": ap})
}

// ensureLaborFolderHandler creates (idempotently) the labor-control folder of
// a company for a period, plus one sub-folder per active worker.
func ensureLaborFolderHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var req struct {
		CompanyID uint   `json:"company_id"`
		Period    string `json:"period" binding:"required"` // YYYY-MM
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	if !periodRE.MatchString(req.Period) {
		failJSON(c, &workflow.ValidationError{Reason: "period must be YYYY-MM"})
		return
	}
	companyID, err := resolveCompanyID(c, user, req.CompanyID)
	if err != nil {
		failJSON(c, err)
		return
	}
	var parent models.Folder
	err = db.Where("company_id = ? AND category = ? AND period = ? AND parent_id IS NULL",
		companyID, workflow.CategoryLaborControl, req.Period).First(&parent).Error
	if err != nil {
		parent = models.Folder{Category: workflow.CategoryLaborControl, Status: workflow.StatusDraft, CompanyID: companyID, Period: req.Period}
		if err := db.Create(&parent).Error; err != nil {
			failJSON(c, err)
			return
		}
		recordActivity(user.ID, "create", "folder", parent.ID, "labor_control", req.Period)
	}
	// one sub-folder per active worker, each with its own independent status
	var workers []models.Worker
	if err := db.Where("company_id = ? AND active = true", companyID).Find(&workers).Error; err != nil {
		failJSON(c, err)
		return
	}
	created := 0
	for _, w := range workers {
		var cnt int64
		db.Model(&models.Folder{}).Where("parent_id = ? AND worker_id = ?", parent.ID, w.ID).Count(&cnt)
		if cnt > 0 {
			continue
		}
		wid := w.ID
		pid := parent.ID
		sub := models.Folder{Category: workflow.CategoryLaborControl, Status: workflow.StatusDraft,
			CompanyID: companyID, WorkerID: &wid, ParentID: &pid, Period: req.Period}
		if err := db.Create(&sub).Error; err != nil {
			log.Printf("failed to create labor sub-folder for worker %d: %v", w.ID, err)
			continue
		}
		created++
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": parent.ID, "worker_folders_created": created})
}

func listLaborFoldersHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	q := db.Model(&models.Folder{}).Where("category = ?", workflow.CategoryLaborControl)
	if period := c.Query("period"); period != "" {
		q = q.Where("period = ?", period)
	}
	if !isStaff(c) {
		if user.CompanyID == nil {
			c.JSON(http.StatusOK, []models.Folder{})
			return
		}
		q = q.Where("company_id = ?", *user.CompanyID)
	} else if cid := c.Query("company_id"); cid != "" {
		q = q.Where("company_id = ?", cid)
	}
	var folders []models.Folder
	if err := q.Order("id asc").Limit(500).Find(&folders).Error; err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

// closeLaborPeriodHandler approves every submitted labor-control folder of a
// period. Best-effort per row: folders that cannot transition are skipped and
// only the success count is reported.
func closeLaborPeriodHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "administrator role required"})
		return
	}
	var req struct {
		Period string `json:"period" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	var folders []models.Folder
	if err := db.Where("category = ? AND period = ?", workflow.CategoryLaborControl, req.Period).Find(&folders).Error; err != nil {
		failJSON(c, err)
		return
	}
	closed := 0
	now := time.Now()
	rid := user.ID
	for _, f := range folders {
		next, err := workflow.Decide(f.Status, true)
		if err != nil {
			continue // not submitted, leave it alone
		}
		updates := map[string]interface{}{"status": next, "reviewed_at": &now, "reviewer_id": &rid}
		if err := db.Model(&models.Folder{}).Where("id = ?", f.ID).Updates(updates).Error; err != nil {
			log.Printf("bulk close: folder %d failed: %v", f.ID, err)
			continue
		}
		recordActivity(user.ID, "review", "folder", f.ID, "labor_control", workflow.StatusApproved)
		closed++
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "closed": closed, "total": len(folders)})
}
