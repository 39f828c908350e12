package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/pkg/jwt"
)

type fakeUserLoader struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserLoader) GetByID(id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, database.ErrNotFound
}

func newTestJWTService() *jwt.Service {
	return jwt.NewService(
		"test-access-secret-at-least-32-chars!!",
		"test-refresh-secret-at-least-32-chars!",
		15*time.Minute, time.Hour,
	)
}

func setupRouter(svc *jwt.Service, loader *fakeUserLoader, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(svc, loader)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userCtx := MustGetUserContext(c)
		c.JSON(http.StatusOK, gin.H{"role": userCtx.Role})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	user := &models.User{
		ID:          uuid.New(),
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		AccessState: models.AccessOwnerApproved,
	}
	loader := &fakeUserLoader{users: map[uuid.UUID]*models.User{user.ID: user}}
	router := setupRouter(svc, loader)

	t.Run("Missing Header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("Malformed Header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("Invalid Token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("Valid Token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(user.ID, user.Email, user.Role())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"owner"`)
	})

	t.Run("Deleted Account", func(t *testing.T) {
		missingID := uuid.New()
		token, err := svc.GenerateAccessToken(missingID, "ghost@example.com", models.RoleUser)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")
	})

	t.Run("Role Reflects Current State", func(t *testing.T) {
		// Token minted while the user was a plain guest still grants
		// owner powers once the database says so.
		token, err := svc.GenerateAccessToken(user.ID, user.Email, models.RoleUser)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"owner"`)
	})
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()

	guest := &models.User{ID: uuid.New(), Email: "guest@example.com", AccessState: models.AccessGuest}
	admin := &models.User{ID: uuid.New(), Email: "admin@example.com", AccessState: models.AccessAdmin}
	owner := &models.User{ID: uuid.New(), Email: "owner@example.com", AccessState: models.AccessOwnerApproved}
	loader := &fakeUserLoader{users: map[uuid.UUID]*models.User{
		guest.ID: guest, admin.ID: admin, owner.ID: owner,
	}}

	router := setupRouter(svc, loader, RequireOwner())

	request := func(u *models.User) *httptest.ResponseRecorder {
		token, err := svc.GenerateAccessToken(u.ID, u.Email, u.Role())
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Guest Forbidden", func(t *testing.T) {
		w := request(guest)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
	})

	t.Run("Owner Allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(owner).Code)
	})

	t.Run("Admin Allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(admin).Code)
	})
}
