package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

var errUsernameTaken = apperror.WithMessage(apperror.ErrConflict, "Username is taken")

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetMe returns the profile of the session user
func (h *UserHandler) GetMe(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, "")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", session.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = apperror.WithMessage(apperror.ErrNotFound, "User not found")
	}
	if err != nil {
		respondError(c, err, "Could not fetch user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUsername handles PATCH /api/username
func (h *UserHandler) UpdateUsername(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, "")
		return
	}

	var req models.UsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid PATCH request data passed")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var taken int64
		err := tx.Model(&models.User{}).
			Where("username = ? AND id <> ?", req.Name, session.UserID).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken > 0 {
			return errUsernameTaken
		}

		res := tx.Model(&models.User{}).Where("id = ?", session.UserID).Update("username", req.Name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.WithMessage(apperror.ErrNotFound, "User not found")
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = errUsernameTaken
	}
	if err != nil {
		respondError(c, err, "Could not update username. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": req.Name})
}
