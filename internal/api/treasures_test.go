package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"geohunt_backend/internal/game"
	"geohunt_backend/internal/model"
	"geohunt_backend/internal/repository"
	"geohunt_backend/internal/service"
	"geohunt_backend/internal/service/mocks"
	"geohunt_backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type discoverRouteFixture struct {
	treasures   *mocks.MockTreasureRepository
	discoveries *mocks.MockDiscoveryRepository
	players     *mocks.MockPlayerRepository
	gateway     *mocks.MockChainGateway
	router      *gin.Engine
	token       string
	playerID    uuid.UUID
}

func newDiscoverRouteFixture(t *testing.T) *discoverRouteFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &discoverRouteFixture{
		treasures:   &mocks.MockTreasureRepository{},
		discoveries: &mocks.MockDiscoveryRepository{},
		players:     &mocks.MockPlayerRepository{},
		gateway:     &mocks.MockChainGateway{},
		playerID:    uuid.New(),
	}

	ds := service.NewDiscoveryService(f.treasures, f.discoveries, f.players, f.gateway, false)
	ts := service.NewTreasureService(f.treasures, f.discoveries, f.players, nil)

	a := auth.NewJWTAuth("test-secret")
	token, err := a.IssueToken(f.playerID, "linh", false)
	require.NoError(t, err)
	f.token = token

	f.router = gin.New()
	NewTreasureRoutes(f.router.Group("/api/v1"), ts, ds, a)
	return f
}

func (f *discoverRouteFixture) discover(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/treasures/discover", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestDiscoverBindsZeroCoordinates(t *testing.T) {
	f := newDiscoverRouteFixture(t)

	// Treasure on the equator; latitude 0 must reach the service.
	equator := &model.Treasure{
		ID:           "equator_cache_001",
		Name:         "Equator Cache",
		Latitude:     0,
		Longitude:    105.8542,
		Rarity:       model.RarityCommon,
		RewardPoints: 100,
		RequiredRank: model.RankBeginner,
		Active:       true,
	}

	f.treasures.On("GetTreasureByID", mock.Anything, "equator_cache_001").
		Return(equator, nil)
	f.discoveries.On("GetDiscoveryByTreasureID", mock.Anything, "equator_cache_001").
		Return(nil, repository.ErrNotFound)
	f.players.On("GetPlayerByID", mock.Anything, f.playerID).
		Return(&model.Player{ID: f.playerID, Username: "linh"}, nil)

	before := &model.HunterProfile{PlayerID: f.playerID, Rank: model.RankBeginner}
	after := game.ApplyDiscovery(*before, 100, time.Now().UTC())
	f.players.On("GetProfile", mock.Anything, f.playerID).Return(before, nil)
	f.discoveries.On("CommitDiscovery", mock.Anything, mock.MatchedBy(func(d *model.Discovery) bool {
		return d.ClaimedLatitude == 0 && d.ClaimedLongitude == 105.8542
	}), mock.Anything).Return(before, &after, nil)

	w := f.discover(`{"treasureId":"equator_cache_001","location":{"latitude":0,"longitude":105.8542}}`)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f.discoveries.AssertExpectations(t)
}

func TestDiscoverRejectsMissingCoordinates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"No location", `{"treasureId":"t1"}`},
		{"No latitude", `{"treasureId":"t1","location":{"longitude":105.8542}}`},
		{"No longitude", `{"treasureId":"t1","location":{"latitude":21.0285}}`},
		{"No treasure id", `{"location":{"latitude":21.0285,"longitude":105.8542}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDiscoverRouteFixture(t)

			w := f.discover(tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			f.treasures.AssertNotCalled(t, "GetTreasureByID", mock.Anything, mock.Anything)
		})
	}
}
