package service

import (
	"context"
	"errors"
	"fmt"

	"geohunt_backend/internal/chain"
	"geohunt_backend/internal/repository"

	"github.com/google/uuid"
)

var ErrNoWallet = errors.New("player has no wallet configured")

// WalletService is a read-through to the chain for the authenticated
// player's wallet.
type WalletService struct {
	players PlayerRepository
	reader  ChainReader
}

func NewWalletService(players PlayerRepository, reader ChainReader) *WalletService {
	return &WalletService{players: players, reader: reader}
}

func (s *WalletService) GetBalance(ctx context.Context, playerID uuid.UUID) (*chain.Balance, error) {
	address, err := s.walletAddress(ctx, playerID)
	if err != nil {
		return nil, err
	}

	balance, err := s.reader.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (s *WalletService) GetOwnedNFTs(ctx context.Context, playerID uuid.UUID) ([]chain.OwnedNFT, error) {
	address, err := s.walletAddress(ctx, playerID)
	if err != nil {
		return nil, err
	}

	nfts, err := s.reader.GetOwnedNFTs(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get owned nfts: %w", err)
	}
	return nfts, nil
}

func (s *WalletService) walletAddress(ctx context.Context, playerID uuid.UUID) (string, error) {
	player, err := s.players.GetPlayerByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrPlayerNotFound
		}
		return "", fmt.Errorf("failed to get player: %w", err)
	}
	if player.WalletAddress == "" {
		return "", ErrNoWallet
	}
	return player.WalletAddress, nil
}
