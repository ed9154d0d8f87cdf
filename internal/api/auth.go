package api

import (
	"errors"
	"net/http"

	"geohunt_backend/internal/service"
	"geohunt_backend/pkg/auth"
	"geohunt_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authRoutes struct {
	ps *service.PlayerService
	a  *auth.JWTAuth
}

func NewAuthRoutes(handler *gin.RouterGroup, ps *service.PlayerService, a *auth.JWTAuth) {
	r := &authRoutes{ps: ps, a: a}
	h := handler.Group("/auth")
	{
		h.POST("/register", r.Register)
		h.POST("/login", r.Login)
	}
}

type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=32"`
	Password        string `json:"password" binding:"required,min=8"`
	WalletAddress   string `json:"wallet_address"`
	ChainCredential string `json:"chain_credential"`
}

func (r *authRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid registration payload", nil)
		return
	}

	player, err := r.ps.Register(c.Request.Context(), req.Username, req.Password, req.WalletAddress, req.ChainCredential)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			respondError(c, http.StatusConflict, "username_taken", "username already taken", nil)
			return
		}
		log.Error("failed to register player", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to register", nil)
		return
	}

	token, err := r.a.IssueToken(player.ID, player.Username, player.IsAdmin)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respondOK(c, http.StatusCreated, "registered", gin.H{
		"player_id": player.ID,
		"username":  player.Username,
		"token":     token,
	})
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *authRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid login payload", nil)
		return
	}

	player, err := r.ps.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", nil)
			return
		}
		log.Error("failed to login", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to login", nil)
		return
	}

	token, err := r.a.IssueToken(player.ID, player.Username, player.IsAdmin)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respondOK(c, http.StatusOK, "logged in", gin.H{
		"player_id": player.ID,
		"username":  player.Username,
		"token":     token,
	})
}
