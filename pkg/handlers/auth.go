package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"video-platform/pkg/apperr"
)

type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.fail(c, apperr.Validation("Faltan datos requeridos"))
		return
	}

	if _, err := h.auth.Register(creds.Username, creds.Email, creds.Password); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Usuario registrado exitosamente"})
}

func (h *Handler) Login(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.fail(c, apperr.Validation("Faltan datos requeridos"))
		return
	}

	token, user, err := h.auth.Login(creds.Username, creds.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "user": user})
}
