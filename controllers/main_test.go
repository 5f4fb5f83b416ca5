package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tapptrak/admin-panel/controllers"
	"github.com/tapptrak/admin-panel/middlewares"
	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/services"
	"github.com/tapptrak/admin-panel/templates"
	"github.com/tapptrak/admin-panel/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB opens a per-test in-memory SQLite database and migrates the
// full schema. The named DSN keeps all pooled connections on the same DB.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Building{},
		&models.Flat{},
		&models.Guard{},
		&models.Visitor{},
		&models.VisitorLog{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Name:     "Test " + role,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// seedLogGraph creates a visitor log together with the building, flat, guard
// and visitor it references.
func seedLogGraph(t *testing.T, db *gorm.DB, visitorName, flatNumber, status string, checkIn time.Time, duration int) models.VisitorLog {
	t.Helper()

	building := models.Building{Name: "Block " + flatNumber}
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("failed to seed building: %v", err)
	}
	flat := models.Flat{FlatNumber: flatNumber, BuildingID: building.ID}
	if err := db.Create(&flat).Error; err != nil {
		t.Fatalf("failed to seed flat: %v", err)
	}
	guard := models.Guard{FullName: "Guard for " + flatNumber}
	if err := db.Create(&guard).Error; err != nil {
		t.Fatalf("failed to seed guard: %v", err)
	}
	visitor := models.Visitor{FullName: visitorName, Phone: "9000000000"}
	if err := db.Create(&visitor).Error; err != nil {
		t.Fatalf("failed to seed visitor: %v", err)
	}

	logEntry := models.VisitorLog{
		VisitorID:        visitor.ID,
		FlatID:           flat.ID,
		GuardID:          guard.ID,
		CheckInTime:      checkIn,
		ExpectedDuration: duration,
		Status:           status,
	}
	if err := db.Create(&logEntry).Error; err != nil {
		t.Fatalf("failed to seed visitor log: %v", err)
	}
	return logEntry
}

// setupPanelRouter builds a minimal panel router around the QR controller,
// with a /session endpoint standing in for the login flow.
func setupPanelRouter(db *gorm.DB, renderer services.QRRenderer) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(templates.Load())

	store := memstore.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("tapptrak_session", store))

	r.GET("/session", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set("user_id", uint(1))
		s.Set("user_name", "Admin User")
		s.Set("user_role", "admin")
		_ = s.Save()
		c.Status(http.StatusNoContent)
	})

	qrCtrl := controllers.NewQRController(db, renderer)
	auth := r.Group("/")
	auth.Use(middlewares.RequireLogin())
	auth.GET("/qr_generator", qrCtrl.Page)

	return r
}

// loginSession fetches a session cookie from the test router.
func loginSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	req, _ := http.NewRequest("GET", "/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	cookie := sessionCookie(w)
	if cookie == "" {
		t.Fatal("no session cookie issued")
	}
	return cookie
}

func sessionCookie(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == "tapptrak_session" {
			return c.Name + "=" + c.Value
		}
	}
	return ""
}

func getWithCookie(r *gin.Engine, url, cookie string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", url, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
