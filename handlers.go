package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"otcdocs/models"
	"otcdocs/pkg/workflow"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/companies", createCompanyHandler)
	authGroup.GET("/companies", listCompaniesHandler)
	authGroup.GET("/companies/:id", getCompanyHandler)
	authGroup.GET("/companies/:id/progress", companyProgressHandler)
	authGroup.POST("/vehicles", createVehicleHandler)
	authGroup.GET("/vehicles", listVehiclesHandler)
	authGroup.POST("/workers", createWorkerHandler)
	authGroup.GET("/workers", listWorkersHandler)
	authGroup.GET("/folders/:id", getFolderHandler)
	authGroup.POST("/folders/:id/submit", submitFolderHandler)
	authGroup.POST("/folders/:id/review", reviewFolderHandler)
	authGroup.POST("/folders/:id/documents", uploadDocumentHandler)
	authGroup.GET("/documents/:id", getDocumentHandler)
	authGroup.POST("/documents/:id/review", reviewDocumentHandler)
	authGroup.POST("/reviews/undo", undoReviewHandler)
	authGroup.POST("/labor_folders", ensureLaborFolderHandler)
	authGroup.GET("/labor_folders", listLaborFoldersHandler)
	authGroup.POST("/labor_folders/close", closeLaborPeriodHandler)
	authGroup.GET("/notifications", listNotificationsHandler)
	authGroup.GET("/activities", listActivitiesHandler)
	authGroup.GET("/dashboard", dashboardHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

// failJSON recovers engine errors at the action boundary and surfaces them as
// a structured {ok:false, message} body the caller can display directly.
// Anything not a known kind is logged and reported generically.
func failJSON(c *gin.Context, err error) {
	var (
		ce  *workflow.ConfigurationError
		ue  *workflow.UnauthorizedError
		fle *workflow.FolderLockedError
		ite *workflow.InvalidTransitionError
		ve  *workflow.ValidationError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": ve.Error()})
	case errors.As(err, &ue):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": ue.Error()})
	case errors.As(err, &fle):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "message": fle.Error()})
	case errors.As(err, &ite):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "message": ite.Error()})
	case errors.As(err, &ce):
		log.Printf("configuration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "could not complete operation"})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "could not complete operation"})
	}
}

func meHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	role, _ := c.Get("role")
	c.JSON(http.StatusOK, gin.H{"username": user.Username, "role": role, "company_id": user.CompanyID})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	uname := unameVal.(string)
	var user models.User
	if err := db.Where("username = ?", uname).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// isStaff reports whether the request carries an OTC role (administrator or reviewer).
func isStaff(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "administrator" || role == "reviewer"
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "administrator"
}

// recordActivity appends an audit row. Best-effort: a failed audit write is
// logged, never propagated.
func recordActivity(actorID uint, action, entityType string, entityID uint, module, detail string) {
	a := models.Activity{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID, Module: module, Detail: detail}
	if err := db.Create(&a).Error; err != nil {
		log.Printf("audit write failed (%s %s %d): %v", action, entityType, entityID, err)
	}
}

func notifyCompany(companyID uint, message, link string) {
	n := models.Notification{CompanyID: &companyID, Message: message, Link: link}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("notification write failed (company %d): %v", companyID, err)
	}
}

func notifyRole(role, message, link string) {
	n := models.Notification{Role: role, Message: message, Link: link}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("notification write failed (role %s): %v", role, err)
	}
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username   string `json:"username" binding:"required"`
		Password   string `json:"password" binding:"required"`
		CompanyRUT string `json:"company_rut"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password, req.CompanyRUT); err != nil {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "refresh token revoked"})
}

// createCompanyHandler provisions a contractor company together with its
// startup folder: one company-level folder per company category.
func createCompanyHandler(c *gin.Context) {
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
		Name         string `json:"name" binding:"required"`
		RUT          string `json:"rut" binding:"required"`
		ContactEmail string `json:"contact_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	company := models.Company{Name: req.Name, RUT: req.RUT, ContactEmail: req.ContactEmail}
	if err := db.Create(&company).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "message": "company with this RUT already exists"})
			return
		}
		failJSON(c, err)
		return
	}
	for _, cat := range workflow.CompanyCategories() {
		folder := models.Folder{Category: cat, Status: workflow.StatusDraft, CompanyID: company.ID, NotifyEmails: req.ContactEmail}
		if err := db.Create(&folder).Error; err != nil {
			log.Printf("failed to create %s folder for company %d: %v", cat, company.ID, err)
		}
	}
	recordActivity(user.ID, "create", "company", company.ID, "companies", company.Name)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": company.ID})
}

func listCompaniesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var companies []models.Company
	q := db.Model(&models.Company{})
	if !isStaff(c) {
		if user.CompanyID == nil {
			c.JSON(http.StatusOK, []models.Company{})
			return
		}
		q = q.Where("id = ?", *user.CompanyID)
	}
	if err := q.Order("name asc").Limit(200).Find(&companies).Error; err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func getCompanyHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var company models.Company
	if err := db.Preload("Folders").First(&company, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "company not found"})
		return
	}
	if !isStaff(c) && (user.CompanyID == nil || *user.CompanyID != company.ID) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, company)
}

// createVehicleHandler registers a vehicle and implicitly provisions its
// VEHICLES folder.
func createVehicleHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var req struct {
		CompanyID   uint   `json:"company_id"`
		PlateNumber string `json:"plate_number" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	companyID, err := resolveCompanyID(c, user, req.CompanyID)
	if err != nil {
		failJSON(c, err)
		return
	}
	vehicle := models.Vehicle{CompanyID: companyID, PlateNumber: req.PlateNumber, Description: req.Description}
	if err := db.Create(&vehicle).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "message": "vehicle already registered"})
			return
		}
		failJSON(c, err)
		return
	}
	vid := vehicle.ID
	folder := models.Folder{Category: workflow.CategoryVehicles, Status: workflow.StatusDraft, CompanyID: companyID, VehicleID: &vid}
	if err := db.Create(&folder).Error; err != nil {
		log.Printf("failed to create vehicle folder for vehicle %d: %v", vehicle.ID, err)
	}
	recordActivity(user.ID, "create", "vehicle", vehicle.ID, "vehicles", req.PlateNumber)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": vehicle.ID, "folder_id": folder.ID})
}

func listVehiclesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var vehicles []models.Vehicle
	q := db.Model(&models.Vehicle{})
	if !isStaff(c) {
		if user.CompanyID == nil {
			c.JSON(http.StatusOK, []models.Vehicle{})
			return
		}
		q = q.Where("company_id = ?", *user.CompanyID)
	} else if cid := c.Query("company_id"); cid != "" {
		q = q.Where("company_id = ?", cid)
	}
	if err := q.Order("id desc").Limit(200).Find(&vehicles).Error; err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// createWorkerHandler registers a worker and implicitly provisions its
// PERSONNEL folder.
func createWorkerHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var req struct {
		CompanyID  uint   `json:"company_id"`
		FullName   string `json:"full_name" binding:"required"`
		NationalID string `json:"national_id" binding:"required"`
		Position   string `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}
	companyID, err := resolveCompanyID(c, user, req.CompanyID)
	if err != nil {
		failJSON(c, err)
		return
	}
	worker := models.Worker{CompanyID: companyID, FullName: req.FullName, NationalID: req.NationalID, Position: req.Position}
	if err := db.Create(&worker).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "message": "worker already registered for this company"})
			return
		}
		failJSON(c, err)
		return
	}
	wid := worker.ID
	folder := models.Folder{Category: workflow.CategoryPersonnel, Status: workflow.StatusDraft, CompanyID: companyID, WorkerID: &wid}
	if err := db.Create(&folder).Error; err != nil {
		log.Printf("failed to create personnel folder for worker %d: %v", worker.ID, err)
	}
	recordActivity(user.ID, "create", "worker", worker.ID, "workers", req.FullName)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": worker.ID, "folder_id": folder.ID})
}

func listWorkersHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	var workers []models.Worker
	q := db.Model(&models.Worker{})
	if !isStaff(c) {
		if user.CompanyID == nil {
			c.JSON(http.StatusOK, []models.Worker{})
			return
		}
		q = q.Where("company_id = ?", *user.CompanyID)
	} else if cid := c.Query("company_id"); cid != "" {
		q = q.Where("company_id = ?", cid)
	}
	if err := q.Order("full_name asc").Limit(500).Find(&workers).Error; err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

// resolveCompanyID picks the company a provisioning request acts on:
// contractors always act on their own company, staff must name one.
func resolveCompanyID(c *gin.Context, user *models.User, requested uint) (uint, error) {
	if isStaff(c) {
		if requested == 0 {
			return 0, &workflow.ValidationError{Reason: "company_id is required"}
		}
		return requested, nil
	}
	if user.CompanyID == nil {
		return 0, &workflow.UnauthorizedError{Reason: "user is not bound to a company"}
	}
	if requested != 0 && requested != *user.CompanyID {
		return 0, &workflow.UnauthorizedError{Reason: "cannot act on another company"}
	}
	return *user.CompanyID, nil
}

func listNotificationsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "user not found"})
		return
	}
	role, _ := c.Get("role")
	var items []models.Notification
	q := db.Model(&models.Notification{})
	if isStaff(c) {
		q = q.Where("role = ?", role)
	} else {
		if user.CompanyID == nil {
			c.JSON(http.StatusOK, []models.Notification{})
			return
		}
		q = q.Where("company_id = ?", *user.CompanyID)
	}
	if err := q.Order("id desc").Limit(100).Find(&items).Error; err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func listActivitiesHandler(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "administrator role required"})
		return
	}
	var items []models.Activity
	q := db.Model(&models.Activity{})
	if m := c.Query("module"); m != "" {
		q = q.Where("module = ?", m)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// dashboardHandler summarizes every active company with both completion
// definitions side by side: upload completion for assembly progress, approval
// completion for review progress.
func dashboardHandler(c *gin.Context) {
	if !isStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "message": "staff role required"})
		return
	}
	var companies []models.Company
	if err := db.Where("active = true").Order("name asc").Limit(200).Find(&companies).Error; err != nil {
		failJSON(c, err)
		return
	}
	type row struct {
		CompanyID        uint              `json:"company_id"`
		Name             string            `json:"name"`
		Status           map[string]int64  `json:"folders_by_status"`
		UploadProgress   workflow.Progress `json:"upload_progress"`
		ApprovalProgress workflow.Progress `json:"approval_progress"`
	}
	out := make([]row, 0, len(companies))
	for _, company := range companies {
		up, ap, err := startupFolderProgress(company.ID)
		if err != nil {
			failJSON(c, err)
			return
		}
		counts := map[string]int64{}
		type sc struct {
			Status string
			N      int64
		}
		var scs []sc
		db.Model(&models.Folder{}).Select("status, count(*) as n").Where("company_id = ?", company.ID).Group("status").Scan(&scs)
		for _, s := range scs {
			counts[s.Status] = s.N
		}
		out = append(out, row{CompanyID: company.ID, Name: company.Name, Status: counts, UploadProgress: up, ApprovalProgress: ap})
	}
	c.JSON(http.StatusOK, out)
}
