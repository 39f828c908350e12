package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscape/hotel-reservation-backend/internal/config"
	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/internal/services"
)

func setupOwnerRequestHandler(t *testing.T) (*OwnerRequestHandler, sqlmock.Sqlmock) {
	db, mock := setupTestDB(t)
	ownerRequests := services.NewOwnerRequestService(
		database.NewUserRepository(db),
		config.OwnerAccessConfig{ReapplyPolicy: config.ReapplyAllow},
		testLogger(),
	)
	return NewOwnerRequestHandler(ownerRequests, testLogger()), mock
}

func TestOwnerRequestSubmit_PendingConflict(t *testing.T) {
	handler, mock := setupOwnerRequestHandler(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(userRow(userID, "jane@example.com", "$2a$10$hash", models.AccessOwnerPending))

	c, w := setupAuthenticatedContext(userID, models.RoleUser)
	handler.Request(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerRequestList_InvalidStatus(t *testing.T) {
	handler, _ := setupOwnerRequestHandler(t)

	c, w := setupAuthenticatedContext(uuid.New(), models.RoleAdmin)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/owner-requests?status=bogus", nil)
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerRequestList_Pagination(t *testing.T) {
	handler, mock := setupOwnerRequestHandler(t)

	now := time.Now()
	rows := sqlmock.NewRows(handlerUserColumns).AddRow(
		uuid.NewString(), "Jane Doe", "jane@example.com", "", nil, nil,
		string(models.AccessOwnerPending), now, nil, nil, nil, now, now,
	)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WillReturnRows(rows)

	c, w := setupAuthenticatedContext(uuid.New(), models.RoleAdmin)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/owner-requests?page=2&limit=10", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Requests   []ownerRequestItem `json:"requests"`
		Pagination struct {
			CurrentPage   int   `json:"currentPage"`
			TotalPages    int   `json:"totalPages"`
			TotalRequests int64 `json:"totalRequests"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Equal(t, int64(11), resp.Pagination.TotalRequests)
	require.NotNil(t, resp.Requests[0].OwnerRequest)
	assert.Equal(t, "pending", resp.Requests[0].OwnerRequest.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerRequestList_DefaultsToAllStatuses(t *testing.T) {
	handler, mock := setupOwnerRequestHandler(t)

	allStates := pq.Array([]string{"owner_pending", "owner_approved", "owner_rejected"})
	now := time.Now()
	rows := sqlmock.NewRows(handlerUserColumns).AddRow(
		uuid.NewString(), "Jane Doe", "jane@example.com", "", nil, nil,
		string(models.AccessOwnerRejected), now, now, uuid.NewString(), "Incomplete documents", now, now,
	)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(allStates).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY owner_requested_at DESC`).
		WithArgs(allStates, 10, 0).
		WillReturnRows(rows)

	c, w := setupAuthenticatedContext(uuid.New(), models.RoleAdmin)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/owner-requests", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Requests []ownerRequestItem `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Requests, 1)
	require.NotNil(t, resp.Requests[0].OwnerRequest)
	assert.Equal(t, "rejected", resp.Requests[0].OwnerRequest.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerRequestApprove_InvalidUserID(t *testing.T) {
	handler, _ := setupOwnerRequestHandler(t)

	c, w := setupAuthenticatedContext(uuid.New(), models.RoleAdmin)
	c.Params = gin.Params{{Key: "userId", Value: "not-a-uuid"}}
	handler.Approve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerRequestReject_MissingReason(t *testing.T) {
	handler, _ := setupOwnerRequestHandler(t)

	c, w := setupAuthenticatedContext(uuid.New(), models.RoleAdmin)
	withJSONBody(t, c, gin.H{})
	c.Params = gin.Params{{Key: "userId", Value: uuid.New().String()}}
	handler.Reject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerRequestApprove_Pending(t *testing.T) {
	handler, mock := setupOwnerRequestHandler(t)

	adminID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(handlerUserColumns).AddRow(
			userID.String(), "Jane Doe", "jane@example.com", "", nil, nil,
			string(models.AccessOwnerPending), now, nil, nil, nil, now, now,
		))
	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(handlerUserColumns).AddRow(
			userID.String(), "Jane Doe", "jane@example.com", "", nil, nil,
			string(models.AccessOwnerApproved), now, now, adminID.String(), nil, now, now,
		))

	c, w := setupAuthenticatedContext(adminID, models.RoleAdmin)
	c.Params = gin.Params{{Key: "userId", Value: userID.String()}}
	handler.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User         models.UserSummary   `json:"user"`
		OwnerRequest *models.OwnerRequest `json:"ownerRequest"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleOwner, resp.User.Role)
	require.NotNil(t, resp.OwnerRequest)
	assert.Equal(t, "approved", resp.OwnerRequest.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
