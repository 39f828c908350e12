package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/stayscape/hotel-reservation-backend/internal/middleware"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

// setupTestDB creates a mock database for testing
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return sqlxDB, mock
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupAuthenticatedContext creates a Gin context with an authenticated user
func setupAuthenticatedContext(userID uuid.UUID, role string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	state := models.AccessGuest
	switch role {
	case models.RoleOwner:
		state = models.AccessOwnerApproved
	case models.RoleAdmin:
		state = models.AccessAdmin
	}

	c.Set(middleware.UserContextKey, middleware.UserContext{
		UserID:      userID,
		Email:       "user@example.com",
		Role:        role,
		AccessState: state,
	})

	return c, w
}

// setupAnonymousContext creates a Gin context without authentication
func setupAnonymousContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// withJSONBody attaches a JSON request body to the context
func withJSONBody(t *testing.T, c *gin.Context, body interface{}) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
}
