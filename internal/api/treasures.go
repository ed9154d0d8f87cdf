package api

import (
	"errors"
	"net/http"
	"strconv"

	"geohunt_backend/internal/service"
	"geohunt_backend/pkg/auth"
	"geohunt_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultNearbyRadiusMeters = 1000.0

type treasureRoutes struct {
	ts *service.TreasureService
	ds *service.DiscoveryService
}

func NewTreasureRoutes(handler *gin.RouterGroup, ts *service.TreasureService, ds *service.DiscoveryService, a *auth.JWTAuth, extra ...gin.HandlerFunc) {
	r := &treasureRoutes{ts: ts, ds: ds}
	h := handler.Group("/treasures")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/nearby", r.FindNearby)
		h.POST("/discover", append(extra, r.Discover)...)
		h.GET("/verify/:treasure_id", r.Verify)
	}
}

func (r *treasureRoutes) FindNearby(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.PlayerFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "internal_error", "missing auth context", nil)
		return
	}

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid lat", nil)
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid lng", nil)
		return
	}

	radius := defaultNearbyRadiusMeters
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			respondError(c, http.StatusBadRequest, "invalid_request", "invalid radius", nil)
			return
		}
	}

	nearby, err := r.ts.FindNearby(c.Request.Context(), claims.PlayerID, lat, lng, radius)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			respondError(c, http.StatusBadRequest, "invalid_coordinates", "coordinates out of range", nil)
			return
		}
		if errors.Is(err, service.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "profile_not_found", "hunter profile not found", nil)
			return
		}
		log.Error("failed to find nearby treasures", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to find nearby treasures", nil)
		return
	}

	out := make([]gin.H, len(nearby))
	for i, n := range nearby {
		out[i] = gin.H{
			"id":            n.Treasure.ID,
			"name":          n.Treasure.Name,
			"description":   n.Treasure.Description,
			"latitude":      n.Treasure.Latitude,
			"longitude":     n.Treasure.Longitude,
			"rarity":        n.Treasure.Rarity,
			"reward_points": n.Treasure.RewardPoints,
			"required_rank": int(n.Treasure.RequiredRank),
			"image_ref":     n.Treasure.ImageRef,
			"distance_m":    n.DistanceMeters,
			"can_hunt":      n.CanHunt,
		}
	}

	respondOK(c, http.StatusOK, "nearby treasures", gin.H{"treasures": out})
}

type DiscoverRequest struct {
	TreasureID string `json:"treasureId" binding:"required"`
	// Pointers so the zero coordinate (equator, prime meridian) still
	// binds; required only rejects absent fields.
	Location struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	} `json:"location" binding:"required"`
	LocationProof string `json:"locationProof"`
	NFCData       string `json:"nfcData"`
	QRData        string `json:"qrData"`
}

func (r *treasureRoutes) Discover(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.PlayerFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "internal_error", "missing auth context", nil)
		return
	}

	var req DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind discover request", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid discover payload", nil)
		return
	}

	result, err := r.ds.Discover(c.Request.Context(), &service.DiscoverRequest{
		PlayerID:      claims.PlayerID,
		TreasureID:    req.TreasureID,
		Latitude:      *req.Location.Latitude,
		Longitude:     *req.Location.Longitude,
		LocationProof: req.LocationProof,
		NFCData:       req.NFCData,
		QRData:        req.QRData,
	})
	if err != nil {
		r.respondDiscoverFailure(c, err)
		return
	}

	respondOK(c, http.StatusOK, "treasure discovered", gin.H{
		"discovery_id":  result.DiscoveryID,
		"treasure_id":   result.TreasureID,
		"treasure_name": result.TreasureName,
		"rarity":        result.Rarity,
		"reward_points": result.RewardPoints,
		"distance_m":    result.DistanceMeters,
		"chain": gin.H{
			"offline":      result.Offline,
			"nft_ref":      result.NFTRef,
			"tx_ref":       result.TxRef,
			"block_height": result.BlockHeight,
			"gas_used":     result.GasUsed,
		},
		"progression": gin.H{
			"old_rank":        result.OldRank.String(),
			"new_rank":        result.NewRank.String(),
			"rank_upgraded":   result.RankUpgraded,
			"score_delta":     result.ScoreDelta,
			"total_score":     result.TotalScore,
			"treasures_found": result.TreasuresFound,
			"current_streak":  result.CurrentStreak,
			"longest_streak":  result.LongestStreak,
		},
		"discovered_at": result.DiscoveredAt,
	})
}

// respondDiscoverFailure maps each terminal claim failure to a typed
// envelope with enough context to explain the rejection.
func (r *treasureRoutes) respondDiscoverFailure(c *gin.Context, err error) {
	log := logger.Logger()

	var alreadyErr *service.AlreadyDiscoveredError
	if errors.As(err, &alreadyErr) {
		respondError(c, http.StatusConflict, "already_discovered", "treasure already discovered", gin.H{
			"treasure_id":   alreadyErr.TreasureID,
			"discovered_by": alreadyErr.PlayerID,
			"discovered_at": alreadyErr.DiscoveredAt,
		})
		return
	}

	var tooFarErr *service.TooFarError
	if errors.As(err, &tooFarErr) {
		respondError(c, http.StatusUnprocessableEntity, "too_far", "too far from treasure location", gin.H{
			"distance_m":  tooFarErr.DistanceMeters,
			"tolerance_m": tooFarErr.ToleranceMeters,
		})
		return
	}

	var rankErr *service.RankTooLowError
	if errors.As(err, &rankErr) {
		respondError(c, http.StatusForbidden, "rank_too_low", "rank too low for this treasure", gin.H{
			"player_rank":      int(rankErr.PlayerRank),
			"required_rank":    int(rankErr.RequiredRank),
			"treasures_needed": rankErr.TreasuresNeeded,
		})
		return
	}

	var chainErr *service.ChainRejectedError
	if errors.As(err, &chainErr) {
		respondError(c, http.StatusConflict, "chain_rejected", "claim rejected by chain", gin.H{
			"reason": string(chainErr.Reason),
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrTreasureNotFound):
		respondError(c, http.StatusNotFound, "treasure_not_found", "treasure not found", nil)
	case errors.Is(err, service.ErrProfileNotFound):
		respondError(c, http.StatusNotFound, "profile_not_found", "hunter profile not found", nil)
	case errors.Is(err, service.ErrPlayerNotFound):
		respondError(c, http.StatusNotFound, "player_not_found", "player not found", nil)
	case errors.Is(err, service.ErrInvalidCoordinates):
		respondError(c, http.StatusBadRequest, "invalid_coordinates", "coordinates out of range", nil)
	default:
		log.Error("discover failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to process discovery", nil)
	}
}

func (r *treasureRoutes) Verify(c *gin.Context) {
	log := logger.Logger()

	treasureID := c.Param("treasure_id")
	if treasureID == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "treasure id required", nil)
		return
	}

	result, err := r.ts.Verify(c.Request.Context(), treasureID)
	if err != nil {
		log.Error("failed to verify treasure", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to verify treasure", nil)
		return
	}

	data := gin.H{
		"treasure_id": result.TreasureID,
		"exists":      result.ExistsInDatabase,
		"active":      result.Active,
		"synthesized": result.Synthesized,
		"discovered":  result.Discovered,
	}
	if result.RegisteredOnChain != nil {
		data["registered_on_chain"] = *result.RegisteredOnChain
	}
	if result.Discovered {
		data["discovered_by"] = result.DiscoveredBy
		data["discovered_at"] = result.DiscoveredAt
	}

	respondOK(c, http.StatusOK, "treasure status", data)
}
