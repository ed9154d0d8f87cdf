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

type profileRoutes struct {
	ps *service.ProfileService
}

func NewProfileRoutes(handler *gin.RouterGroup, ps *service.ProfileService, a *auth.JWTAuth) {
	r := &profileRoutes{ps: ps}
	h := handler.Group("/profiles")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/me", r.GetMe)
		h.GET("/me/discoveries", r.GetMyDiscoveries)
		h.GET("/leaderboard", r.GetLeaderboard)
	}
}

func (r *profileRoutes) GetMe(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.PlayerFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "internal_error", "missing auth context", nil)
		return
	}

	view, err := r.ps.GetProfile(c.Request.Context(), claims.PlayerID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "profile_not_found", "hunter profile not found", nil)
			return
		}
		log.Error("failed to get profile", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to get profile", nil)
		return
	}

	p := view.Profile
	respondOK(c, http.StatusOK, "hunter profile", gin.H{
		"player_id":              p.PlayerID,
		"rank":                   p.Rank.String(),
		"rank_ordinal":           int(p.Rank),
		"treasures_found":        p.TreasuresFound,
		"total_score":            p.TotalScore,
		"current_streak":         p.CurrentStreak,
		"longest_streak":         p.LongestStreak,
		"last_hunt_at":           p.LastHuntAt,
		"treasures_to_next_rank": view.TreasuresToNextRank,
	})
}

func (r *profileRoutes) GetMyDiscoveries(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.PlayerFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "internal_error", "missing auth context", nil)
		return
	}

	discoveries, err := r.ps.GetDiscoveries(c.Request.Context(), claims.PlayerID)
	if err != nil {
		log.Error("failed to get discoveries", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to get discoveries", nil)
		return
	}

	out := make([]gin.H, len(discoveries))
	for i, d := range discoveries {
		out[i] = gin.H{
			"discovery_id":  d.ID,
			"treasure_id":   d.TreasureID,
			"nft_ref":       d.NFTRef,
			"tx_ref":        d.TxRef,
			"distance_m":    d.DistanceMeters,
			"offline":       d.Offline,
			"discovered_at": d.DiscoveredAt,
		}
	}

	respondOK(c, http.StatusOK, "player discoveries", gin.H{"discoveries": out})
}

func (r *profileRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	profiles, err := r.ps.GetLeaderboard(c.Request.Context())
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to get leaderboard", nil)
		return
	}

	out := make([]gin.H, len(profiles))
	for i, p := range profiles {
		out[i] = gin.H{
			"player_id":       p.PlayerID,
			"rank":            p.Rank.String(),
			"treasures_found": p.TreasuresFound,
			"total_score":     p.TotalScore,
			"longest_streak":  p.LongestStreak,
		}
	}

	respondOK(c, http.StatusOK, "leaderboard", gin.H{"leaderboard": out})
}
