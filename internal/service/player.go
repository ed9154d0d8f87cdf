package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geohunt_backend/internal/model"
	"geohunt_backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type PlayerService struct {
	players PlayerRepository
}

func NewPlayerService(players PlayerRepository) *PlayerService {
	return &PlayerService{players: players}
}

// Register creates the player and its default hunter profile.
func (s *PlayerService) Register(ctx context.Context, username, password, walletAddress, chainCredential string) (*model.Player, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	player := &model.Player{
		ID:              uuid.New(),
		Username:        username,
		PasswordHash:    string(hash),
		WalletAddress:   walletAddress,
		ChainCredential: chainCredential,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.players.CreatePlayer(ctx, player)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// Login verifies credentials and returns the player.
func (s *PlayerService) Login(ctx context.Context, username, password string) (*model.Player, error) {
	player, err := s.players.GetPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id uuid.UUID) (*model.Player, error) {
	player, err := s.players.GetPlayerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}
