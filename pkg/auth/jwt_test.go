package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	a := NewJWTAuth("test-secret")
	playerID := uuid.New()

	token, err := a.IssueToken(playerID, "linh", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, claims.PlayerID)
	assert.Equal(t, "linh", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTAuth("secret-a")
	verifier := NewJWTAuth("secret-b")

	token, err := issuer.IssueToken(uuid.New(), "linh", false)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	a := NewJWTAuth("test-secret")

	_, err := a.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := NewJWTAuth("test-secret")
	playerID := uuid.New()

	router := gin.New()
	router.GET("/protected", a.AuthMiddleware(), func(c *gin.Context) {
		claims, ok := PlayerFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"player_id": claims.PlayerID.String()})
	})

	tests := []struct {
		name       string
		authHeader func(t *testing.T) string
		wantStatus int
	}{
		{
			name: "Valid bearer token",
			authHeader: func(t *testing.T) string {
				token, err := a.IssueToken(playerID, "linh", false)
				require.NoError(t, err)
				return "Bearer " + token
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing header",
			authHeader: func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Wrong scheme",
			authHeader: func(t *testing.T) string { return "Basic abc" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Tampered token",
			authHeader: func(t *testing.T) string { return "Bearer eyJhbGciOiJIUzI1NiJ9.e30.bad" },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if h := tt.authHeader(t); h != "" {
				req.Header.Set("Authorization", h)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := NewJWTAuth("test-secret")

	router := gin.New()
	router.GET("/admin", a.AuthMiddleware(), a.AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	playerToken, err := a.IssueToken(uuid.New(), "player", false)
	require.NoError(t, err)
	adminToken, err := a.IssueToken(uuid.New(), "admin", true)
	require.NoError(t, err)

	t.Run("Admin token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Player token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+playerToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
