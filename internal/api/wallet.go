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

type walletRoutes struct {
	ws *service.WalletService
}

func NewWalletRoutes(handler *gin.RouterGroup, ws *service.WalletService, a *auth.JWTAuth) {
	r := &walletRoutes{ws: ws}
	h := handler.Group("/wallet")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/balance", r.GetBalance)
		h.GET("/nfts", r.GetNFTs)
	}
}

func (r *walletRoutes) GetBalance(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.PlayerFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "internal_error", "missing auth context", nil)
		return
	}

	balance, err := r.ws.GetBalance(c.Request.Context(), claims.PlayerID)
	if err != nil {
		if errors.Is(err, service.ErrNoWallet) {
			respondError(c, http.StatusNotFound, "no_wallet", "no wallet configured for player", nil)
			return
		}
		log.Error("failed to get balance", zap.Error(err))
		respondError(c, http.StatusBadGateway, "chain_unavailable", "failed to reach chain", nil)
		return
	}

	respondOK(c, http.StatusOK, "wallet balance", gin.H{
		"address": balance.Address,
		"amount":  balance.Amount,
		"symbol":  balance.Symbol,
	})
}

func (r *walletRoutes) GetNFTs(c *gin.Context) {
	log := logger.Logger()

	claims, ok := auth.PlayerFromContext(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "internal_error", "missing auth context", nil)
		return
	}

	nfts, err := r.ws.GetOwnedNFTs(c.Request.Context(), claims.PlayerID)
	if err != nil {
		if errors.Is(err, service.ErrNoWallet) {
			respondError(c, http.StatusNotFound, "no_wallet", "no wallet configured for player", nil)
			return
		}
		log.Error("failed to get nfts", zap.Error(err))
		respondError(c, http.StatusBadGateway, "chain_unavailable", "failed to reach chain", nil)
		return
	}

	out := make([]gin.H, len(nfts))
	for i, n := range nfts {
		out[i] = gin.H{
			"ref":         n.Ref,
			"treasure_id": n.TreasureID,
			"name":        n.Name,
			"image_ref":   n.ImageRef,
			"minted_at":   n.MintedAt,
		}
	}

	respondOK(c, http.StatusOK, "owned nfts", gin.H{"nfts": out})
}
