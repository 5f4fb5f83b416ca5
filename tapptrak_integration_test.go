package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/router"
	"github.com/tapptrak/admin-panel/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndPanelFlow walks the main panel path:
// 1. Login with a seeded admin -> session cookie
// 2. Dashboard lists the seeded visitor and log
// 3. Visitor QR action returns the printable document
// 4. Logout invalidates the session
func TestEndToEndPanelFlow(t *testing.T) {
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	// 1. Login.
	form := url.Values{}
	form.Set("email", "admin@tapptrak.local")
	form.Set("password", "secret123")
	req, _ := http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)

	var cookie string
	for _, c := range w.Result().Cookies() {
		if c.Name == "tapptrak_session" {
			cookie = c.Name + "=" + c.Value
		}
	}
	assert.NotEmpty(t, cookie)

	// 2. Dashboard.
	w = doGet(r, "/qr_generator", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha Rao")
	assert.Contains(t, w.Body.String(), "B-204")

	// 3. Printable visitor QR document.
	w = doGet(r, "/qr_generator?action=visitor_qr&visitor_id=1", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "const qrData")
	assert.Contains(t, w.Body.String(), `"type":"visitor"`)

	// 4. Logout, then the old cookie no longer authenticates.
	w = doGet(r, "/qr_generator?logout=1", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?logout=1", w.Header().Get("Location"))

	w = doGet(r, "/qr_generator", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func doGet(r http.Handler, target, cookie string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", target, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	autoMigrate(db)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := models.User{Name: "Administrator", Email: "admin@tapptrak.local", Password: string(hashed), Role: "admin"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	building := models.Building{Name: "Block B"}
	db.Create(&building)
	flat := models.Flat{FlatNumber: "B-204", BuildingID: building.ID}
	db.Create(&flat)
	guard := models.Guard{FullName: "Ramesh Singh", UserID: admin.ID}
	db.Create(&guard)
	visitor := models.Visitor{FullName: "Asha Rao", Phone: "9999900000"}
	db.Create(&visitor)
	logEntry := models.VisitorLog{
		VisitorID:        visitor.ID,
		FlatID:           flat.ID,
		GuardID:          guard.ID,
		CheckInTime:      time.Now(),
		ExpectedDuration: 60,
		Status:           models.LogStatusInside,
	}
	db.Create(&logEntry)

	return db
}
