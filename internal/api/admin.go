package api

import (
	"errors"
	"net/http"
	"time"

	"geohunt_backend/internal/model"
	"geohunt_backend/internal/service"
	"geohunt_backend/pkg/auth"
	"geohunt_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type adminRoutes struct {
	ts *service.TreasureService
	as *service.AdminService
}

func NewAdminRoutes(handler *gin.RouterGroup, ts *service.TreasureService, as *service.AdminService, a *auth.JWTAuth) {
	r := &adminRoutes{ts: ts, as: as}
	h := handler.Group("/admin")
	h.Use(a.AuthMiddleware(), a.AdminMiddleware())
	{
		h.GET("/treasures", r.ListTreasures)
		h.POST("/treasures", r.CreateTreasure)
		h.PUT("/treasures/:treasure_id", r.UpdateTreasure)
		h.DELETE("/treasures/:treasure_id", r.DeactivateTreasure)
		h.GET("/stats", r.GetStats)
	}
}

type TreasureRequest struct {
	ID           string                 `json:"id" binding:"required"`
	Name         string                 `json:"name" binding:"required"`
	Description  string                 `json:"description"`
	Latitude     float64                `json:"latitude" binding:"required"`
	Longitude    float64                `json:"longitude" binding:"required"`
	Rarity       string                 `json:"rarity" binding:"required"`
	RewardPoints int                    `json:"reward_points" binding:"required"`
	RequiredRank int                    `json:"required_rank" binding:"required"`
	Active       bool                   `json:"active"`
	ImageRef     string                 `json:"image_ref"`
	Tags         []string               `json:"tags"`
	Metadata     map[string]interface{} `json:"metadata"`
	ActivateAt   *time.Time             `json:"activate_at"`
	DeactivateAt *time.Time             `json:"deactivate_at"`
}

func (req *TreasureRequest) toModel() *model.Treasure {
	return &model.Treasure{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Rarity:       model.Rarity(req.Rarity),
		RewardPoints: req.RewardPoints,
		RequiredRank: model.Rank(req.RequiredRank),
		Active:       req.Active,
		ImageRef:     req.ImageRef,
		Tags:         req.Tags,
		Metadata:     req.Metadata,
		ActivateAt:   req.ActivateAt,
		DeactivateAt: req.DeactivateAt,
	}
}

func (r *adminRoutes) CreateTreasure(c *gin.Context) {
	log := logger.Logger()

	var req TreasureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind treasure request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid treasure payload", nil)
		return
	}

	err := r.ts.CreateTreasure(c.Request.Context(), req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			respondError(c, http.StatusBadRequest, "invalid_coordinates", "coordinates out of range", nil)
			return
		}
		log.Error("failed to create treasure", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	respondOK(c, http.StatusCreated, "treasure created", gin.H{"id": req.ID})
}

func (r *adminRoutes) UpdateTreasure(c *gin.Context) {
	log := logger.Logger()

	var req TreasureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid treasure payload", nil)
		return
	}
	req.ID = c.Param("treasure_id")

	err := r.ts.UpdateTreasure(c.Request.Context(), req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrTreasureNotFound) {
			respondError(c, http.StatusNotFound, "treasure_not_found", "treasure not found", nil)
			return
		}
		log.Error("failed to update treasure", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to update treasure", nil)
		return
	}

	respondOK(c, http.StatusOK, "treasure updated", gin.H{"id": req.ID})
}

func (r *adminRoutes) DeactivateTreasure(c *gin.Context) {
	log := logger.Logger()

	id := c.Param("treasure_id")
	err := r.ts.DeactivateTreasure(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTreasureNotFound) {
			respondError(c, http.StatusNotFound, "treasure_not_found", "treasure not found", nil)
			return
		}
		log.Error("failed to deactivate treasure", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to deactivate treasure", nil)
		return
	}

	respondOK(c, http.StatusOK, "treasure deactivated", gin.H{"id": id})
}

func (r *adminRoutes) ListTreasures(c *gin.Context) {
	log := logger.Logger()

	treasures, err := r.ts.ListTreasures(c.Request.Context(), true)
	if err != nil {
		log.Error("failed to list treasures", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to list treasures", nil)
		return
	}

	out := make([]gin.H, len(treasures))
	for i, t := range treasures {
		out[i] = gin.H{
			"id":            t.ID,
			"name":          t.Name,
			"latitude":      t.Latitude,
			"longitude":     t.Longitude,
			"rarity":        t.Rarity,
			"reward_points": t.RewardPoints,
			"required_rank": int(t.RequiredRank),
			"active":        t.Active,
			"synthesized":   t.Synthesized,
			"tags":          t.Tags,
			"created_at":    t.CreatedAt,
		}
	}

	respondOK(c, http.StatusOK, "treasures", gin.H{"treasures": out})
}

func (r *adminRoutes) GetStats(c *gin.Context) {
	log := logger.Logger()

	stats, err := r.as.GetStats(c.Request.Context())
	if err != nil {
		log.Error("failed to get stats", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to get stats", nil)
		return
	}

	respondOK(c, http.StatusOK, "dashboard stats", gin.H{
		"players":          stats.Players,
		"discoveries":      stats.Discoveries,
		"treasures":        stats.Treasures,
		"active_treasures": stats.Active,
	})
}
