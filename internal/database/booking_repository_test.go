package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

func testBooking() *models.Booking {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return &models.Booking{
		UserID:    uuid.New(),
		HotelID:   uuid.New(),
		RoomType:  models.RoomTypeDouble,
		RoomPrice: 150,
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, 3),
		Nights:    3,
		Rooms:     2,
		Guests:    models.GuestCount{Adults: 2, Children: 1},
		GuestDetails: models.GuestDetails{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "+14155550123",
		},
		SpecialRequests: models.NewNullString("Late check-in"),
		TotalPrice:      900,
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
	}
}

func TestBookingRepositoryCreate(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		booking := testBooking()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WithArgs(booking.HotelID, string(booking.RoomType), booking.Rooms).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now))
		mock.ExpectCommit()

		err := repo.Create(booking)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, booking.ID)
		assert.Equal(t, now, booking.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient Availability", func(t *testing.T) {
		booking := testBooking()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WithArgs(booking.HotelID, string(booking.RoomType), booking.Rooms).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Create(booking)
		assert.ErrorIs(t, err, ErrInsufficientInventory)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert Failure Rolls Back Decrement", func(t *testing.T) {
		booking := testBooking()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Create(booking)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInsufficientInventory)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepositoryCancel(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	bookingID := uuid.New()
	userID := uuid.New()
	hotelID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		checkIn := now.AddDate(0, 0, 7)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs(bookingID, userID,
				models.BookingStatusCancelled, models.PaymentStatusRefunded,
				models.BookingStatusConfirmed).
			WillReturnRows(sqlmock.NewRows([]string{"hotel_id", "room_type", "rooms"}).
				AddRow(hotelID.String(), string(models.RoomTypeSuite), 2))
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WithArgs(hotelID, string(models.RoomTypeSuite), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "hotel_id", "room_type", "room_price",
				"check_in", "check_out", "nights", "rooms",
				"adults", "children", "guest_first_name", "guest_last_name",
				"guest_email", "guest_phone", "special_requests",
				"total_price", "status", "payment_status", "cancelled_at",
				"created_at", "updated_at", "hotel_name", "hotel_city",
			}).AddRow(
				bookingID.String(), userID.String(), hotelID.String(), string(models.RoomTypeSuite), 300.0,
				checkIn, checkIn.AddDate(0, 0, 2), 2, 2,
				2, 0, "Jane", "Doe",
				"jane@example.com", "+14155550123", nil,
				1200.0, models.BookingStatusCancelled, models.PaymentStatusRefunded, now,
				now, now, "Grand Plaza", "Chicago",
			))

		booking, err := repo.Cancel(bookingID, userID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, booking.Status)
		assert.Equal(t, models.PaymentStatusRefunded, booking.PaymentStatus)
		assert.True(t, booking.CancelledAt.Valid)
		assert.Equal(t, "Grand Plaza", booking.HotelName.String)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"hotel_id", "room_type", "rooms"}))
		mock.ExpectRollback()

		booking, err := repo.Cancel(bookingID, userID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, booking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepositoryGetByUserID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewBookingRepository(mockDB)

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "hotel_id", "room_type", "room_price",
			"check_in", "check_out", "nights", "rooms",
			"adults", "children", "guest_first_name", "guest_last_name",
			"guest_email", "guest_phone", "special_requests",
			"total_price", "status", "payment_status", "cancelled_at",
			"created_at", "updated_at", "hotel_name", "hotel_city",
		}).AddRow(
			uuid.NewString(), userID.String(), uuid.NewString(), string(models.RoomTypeSingle), 80.0,
			now.AddDate(0, 0, 1), now.AddDate(0, 0, 2), 1, 1,
			1, 0, "John", "Doe", "john@example.com", "+14155550100", nil,
			80.0, models.BookingStatusConfirmed, models.PaymentStatusPending, nil,
			now, now, "Harbor Inn", "Boston",
		))

	bookings, err := repo.GetByUserID(userID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, userID, bookings[0].UserID)
	assert.Equal(t, "Harbor Inn", bookings[0].HotelName.String)
	assert.False(t, bookings[0].CancelledAt.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}
