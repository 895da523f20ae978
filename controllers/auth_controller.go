package controllers

import (
	"errors"
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
}

func NewAuthController(db *gorm.DB, secret string, ttl time.Duration) *AuthController {
	return &AuthController{DB: db, Secret: secret, TTL: ttl}
}

func (ctl *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		resp.BadRequest(c, "username and password are required")
		return
	}

	var admin entity.Admin
	if err := ctl.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.Unauthorized(c, "invalid credentials")
			return
		}
		writeServiceError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(admin.ID, "admin", ctl.Secret, ctl.TTL)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp.OK(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"role":     "admin",
		},
	})
}
