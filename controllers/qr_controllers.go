package controllers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tapptrak/admin-panel/config"
	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/services"
	"github.com/tapptrak/admin-panel/utils"
	"gorm.io/gorm"
)

// recentLogsLimit caps the dashboard log table to the most recent check-ins.
const recentLogsLimit = 20

type QRController struct {
	DB       *gorm.DB
	Renderer services.QRRenderer
}

func NewQRController(db *gorm.DB, renderer services.QRRenderer) *QRController {
	return &QRController{DB: db, Renderer: renderer}
}

// pageIntent is the closed set of things a /qr_generator request can ask for,
// parsed once at the boundary instead of re-reading raw query params.
type pageIntent int

const (
	intentDashboard pageIntent = iota
	intentVisitorQR
	intentLogQR
	intentLogout
)

type pageRequest struct {
	intent   pageIntent
	targetID uint
}

func parsePageRequest(c *gin.Context) pageRequest {
	if _, ok := c.GetQuery("logout"); ok {
		return pageRequest{intent: intentLogout}
	}

	switch c.Query("action") {
	case "visitor_qr":
		if raw, ok := c.GetQuery("visitor_id"); ok {
			id, _ := strconv.Atoi(raw) // non-numeric coerces to 0, which never matches
			return pageRequest{intent: intentVisitorQR, targetID: uint(id)}
		}
	case "visitor_log_qr":
		if raw, ok := c.GetQuery("log_id"); ok {
			id, _ := strconv.Atoi(raw)
			return pageRequest{intent: intentLogQR, targetID: uint(id)}
		}
	}

	return pageRequest{intent: intentDashboard}
}

// visitorPayload and logPayload are the exact JSON shapes baked into the QR
// codes; the scanner app matches on these keys.
type visitorPayload struct {
	Type      string `json:"type"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Timestamp int64  `json:"timestamp"`
}

type logPayload struct {
	Type             string `json:"type"`
	ID               uint   `json:"id"`
	VisitorName      string `json:"visitor_name"`
	VisitorPhone     string `json:"visitor_phone"`
	FlatNumber       string `json:"flat_number"`
	CheckinTime      string `json:"checkin_time"`
	ExpectedDuration int    `json:"expected_duration"`
	Status           string `json:"status"`
	Timestamp        int64  `json:"timestamp"`
}

// Page serves /qr_generator. A matched QR action terminates the request with
// a printable document; an unknown action or a miss on the id falls through
// to the dashboard rather than erroring.
func (qc *QRController) Page(c *gin.Context) {
	req := parsePageRequest(c)

	switch req.intent {
	case intentLogout:
		qc.logout(c)
		return
	case intentVisitorQR:
		if qc.renderVisitorQR(c, req.targetID) {
			return
		}
	case intentLogQR:
		if qc.renderLogQR(c, req.targetID) {
			return
		}
	}

	qc.renderDashboard(c)
}

func (qc *QRController) renderVisitorQR(c *gin.Context, id uint) bool {
	var visitor models.Visitor
	if err := qc.DB.First(&visitor, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Visitor lookup failed (id=%d): %v", id, err)
		}
		return false
	}

	payload := visitorPayload{
		Type:      "visitor",
		ID:        visitor.ID,
		Name:      visitor.FullName,
		Phone:     visitor.Phone,
		Timestamp: time.Now().Unix(),
	}

	qc.renderPrintable(c, visitor.FullName, payload)
	return true
}

func (qc *QRController) renderLogQR(c *gin.Context, id uint) bool {
	var detail models.VisitorLogDetail
	if err := logDetailQuery(qc.DB).Where("visitor_logs.id = ?", id).Scan(&detail).Error; err != nil {
		utils.ErrorLogger.Printf("Visitor log lookup failed (id=%d): %v", id, err)
		return false
	}
	if detail.ID == 0 {
		return false
	}

	payload := logPayload{
		Type:             "visitor_log",
		ID:               detail.ID,
		VisitorName:      detail.VisitorName,
		VisitorPhone:     detail.VisitorPhone,
		FlatNumber:       detail.FlatNumber,
		CheckinTime:      detail.CheckInTime.Format("2006-01-02 15:04:05"),
		ExpectedDuration: detail.ExpectedDuration,
		Status:           detail.Status,
		Timestamp:        time.Now().Unix(),
	}

	qc.renderPrintable(c, detail.VisitorName+" - "+detail.FlatNumber, payload)
	return true
}

// renderPrintable emits the standalone print document: escaped title, the
// payload embedded as a script constant, and the QR image inlined as a data
// URI. A failed render shows an inline error and keeps the page usable.
func (qc *QRController) renderPrintable(c *gin.Context, title string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to marshal QR payload: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	var qrImage template.URL
	renderFailed := false
	if png, err := qc.Renderer.Render(string(raw)); err != nil {
		utils.ErrorLogger.Printf("QR render failed for %q: %v", title, err)
		renderFailed = true
	} else {
		qrImage = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	c.HTML(http.StatusOK, "qr_print.html", gin.H{
		"SiteName":     config.SiteName(),
		"Title":        title,
		"Payload":      template.JS(raw),
		"QRImage":      qrImage,
		"RenderFailed": renderFailed,
		"GeneratedAt":  utils.FormatDateTime(time.Now()),
	})
}

func (qc *QRController) renderDashboard(c *gin.Context) {
	var visitors []models.Visitor
	if err := qc.DB.Order("created_at DESC").Find(&visitors).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to list visitors: %v", err)
		visitors = nil
	}

	var logs []models.VisitorLogDetail
	if err := logDetailQuery(qc.DB).
		Order("visitor_logs.check_in_time DESC").
		Limit(recentLogsLimit).
		Scan(&logs).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to list visitor logs: %v", err)
		logs = nil
	}

	role := c.GetString("user_role")

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"SiteName": config.SiteName(),
		"UserName": c.GetString("user_name"),
		"UserRole": role,
		"IsAdmin":  role == "admin",
		"Visitors": visitors,
		"Logs":     logs,
	})
}

// logout must audit before the session is gone: log entry, then clear, then
// destroy the cookie, then redirect to the entry page.
func (qc *QRController) logout(c *gin.Context) {
	userID := c.GetUint("user_id")
	services.LogActivity(qc.DB, userID, "logout", "users", userID, c.ClientIP())

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		utils.ErrorLogger.Printf("Failed to destroy session for user %d: %v", userID, err)
	}

	utils.InfoLogger.Printf("User %d logged out", userID)
	c.Redirect(http.StatusFound, "/login?logout=1")
}

// logDetailQuery joins a visitor log with its visitor, flat and guard. Inner
// joins, so a log with a dangling reference is silently excluded.
func logDetailQuery(db *gorm.DB) *gorm.DB {
	return db.Table("visitor_logs").
		Select("visitor_logs.id, visitors.full_name AS visitor_name, visitors.phone AS visitor_phone, " +
			"flats.flat_number, guards.full_name AS guard_name, visitor_logs.check_in_time, " +
			"visitor_logs.expected_duration, visitor_logs.status").
		Joins("JOIN visitors ON visitors.id = visitor_logs.visitor_id").
		Joins("JOIN flats ON flats.id = visitor_logs.flat_id").
		Joins("JOIN guards ON guards.id = visitor_logs.guard_id")
}
