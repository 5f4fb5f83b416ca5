package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/services"
	"github.com/tapptrak/admin-panel/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// APIController serves the guard-facing JSON API that feeds the visitor and
// visitor-log tables the panel reads.
type APIController struct {
	DB *gorm.DB
}

func NewAPIController(db *gorm.DB) *APIController {
	return &APIController{DB: db}
}

// Login -> return JWT for the guard app
func (api *APIController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := api.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": user.Role,
	})
}

// ListVisitors -> all registered visitors, newest first
func (api *APIController) ListVisitors(c *gin.Context) {
	var visitors []models.Visitor
	if err := api.DB.Order("created_at DESC").Find(&visitors).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of visitors", visitors)
}

// CreateVisitor -> register a visitor at the gate
func (api *APIController) CreateVisitor(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	visitor := models.Visitor{
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if err := api.DB.Create(&visitor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	services.LogActivity(api.DB, c.GetUint("user_id"), "create", "visitors", visitor.ID, c.ClientIP())
	utils.InfoLogger.Printf("New visitor registered (ID=%d)", visitor.ID)

	utils.RespondJSON(c, http.StatusCreated, "Visitor created", visitor)
}

// CheckIn -> open a visitor log for a flat; the guard comes from the token
func (api *APIController) CheckIn(c *gin.Context) {
	var req struct {
		VisitorID        uint `json:"visitor_id" binding:"required"`
		FlatID           uint `json:"flat_id" binding:"required"`
		ExpectedDuration int  `json:"expected_duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	guard, err := api.guardForUser(c.GetUint("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusForbidden, err)
		return
	}

	var visitor models.Visitor
	if err := api.DB.First(&visitor, req.VisitorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	var flat models.Flat
	if err := api.DB.First(&flat, req.FlatID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	duration := req.ExpectedDuration
	if duration <= 0 {
		duration = 60
	}

	logEntry := models.VisitorLog{
		VisitorID:        visitor.ID,
		FlatID:           flat.ID,
		GuardID:          guard.ID,
		CheckInTime:      time.Now(),
		ExpectedDuration: duration,
		Status:           models.LogStatusInside,
	}
	if err := api.DB.Create(&logEntry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	services.LogActivity(api.DB, c.GetUint("user_id"), "check_in", "visitor_logs", logEntry.ID, c.ClientIP())
	utils.InfoLogger.Printf("Visitor %d checked in to flat %d by guard %d", visitor.ID, flat.ID, guard.ID)

	utils.RespondJSON(c, http.StatusCreated, "Visitor checked in", logEntry)
}

// Checkout -> close a visitor log
func (api *APIController) Checkout(c *gin.Context) {
	idStr := c.Param("log_id")
	id, _ := strconv.Atoi(idStr)

	var logEntry models.VisitorLog
	if err := api.DB.First(&logEntry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if logEntry.Status == models.LogStatusExited {
		utils.RespondError(c, http.StatusConflict, ErrAlreadyExited)
		return
	}

	now := time.Now()
	logEntry.Status = models.LogStatusExited
	logEntry.CheckOutTime = &now
	if err := api.DB.Save(&logEntry).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	services.LogActivity(api.DB, c.GetUint("user_id"), "check_out", "visitor_logs", logEntry.ID, c.ClientIP())

	utils.RespondJSON(c, http.StatusOK, "Visitor checked out", logEntry)
}

// Overstayed -> flip inside logs past their expected duration, then list them
func (api *APIController) Overstayed(c *gin.Context) {
	var inside []models.VisitorLog
	if err := api.DB.Where("status = ?", models.LogStatusInside).Find(&inside).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	for i := range inside {
		deadline := inside[i].CheckInTime.Add(time.Duration(inside[i].ExpectedDuration) * time.Minute)
		if now.After(deadline) {
			inside[i].Status = models.LogStatusOverstayed
			if err := api.DB.Save(&inside[i]).Error; err != nil {
				utils.ErrorLogger.Printf("Failed to mark log %d overstayed: %v", inside[i].ID, err)
			}
		}
	}

	var overstayed []models.VisitorLogDetail
	if err := logDetailQuery(api.DB).
		Where("visitor_logs.status = ?", models.LogStatusOverstayed).
		Order("visitor_logs.check_in_time DESC").
		Scan(&overstayed).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Overstayed visitors", overstayed)
}

func (api *APIController) guardForUser(userID uint) (*models.Guard, error) {
	var guard models.Guard
	if err := api.DB.Where("user_id = ?", userID).First(&guard).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAGuard
		}
		return nil, err
	}
	return &guard, nil
}

var (
	ErrInvalidCredentials = &CustomError{"invalid credentials"}
	ErrNotAGuard          = &CustomError{"no guard profile for this account"}
	ErrAlreadyExited      = &CustomError{"visitor already checked out"}
)
