package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tapptrak/admin-panel/config"
	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/services"
	"github.com/tapptrak/admin-panel/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// ShowLogin renders the entry page. ?logout=1 shows the logged-out banner.
func (ac *AuthController) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"SiteName":  config.SiteName(),
		"LoggedOut": c.Query("logout") == "1",
	})
}

// Login handles the panel login form and establishes the session.
func (ac *AuthController) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	var user models.User
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		ac.rejectLogin(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		ac.rejectLogin(c)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("user_name", user.Name)
	session.Set("user_role", user.Role)
	if err := session.Save(); err != nil {
		utils.ErrorLogger.Printf("Failed to save session for user %d: %v", user.ID, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	services.LogActivity(ac.DB, user.ID, "login", "users", user.ID, c.ClientIP())
	utils.InfoLogger.Printf("User %s logged in (role=%s)", user.Email, user.Role)

	c.Redirect(http.StatusFound, "/qr_generator")
}

func (ac *AuthController) rejectLogin(c *gin.Context) {
	c.HTML(http.StatusUnauthorized, "login.html", gin.H{
		"SiteName": config.SiteName(),
		"Error":    "Invalid email or password",
	})
}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}
