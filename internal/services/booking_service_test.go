package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

var serviceHotelColumns = []string{
	"id", "name", "description", "owner_id",
	"street", "city", "state", "zip_code", "country",
	"latitude", "longitude", "images", "rating", "review_count",
	"amenities", "check_in", "check_out", "cancellation_policy",
	"contact_phone", "contact_email", "is_active",
	"created_at", "updated_at",
}

var serviceRoomColumns = []string{
	"id", "hotel_id", "room_type", "price", "available", "max_guests", "amenities", "position",
}

var serviceBookingColumns = []string{
	"id", "user_id", "hotel_id", "room_type", "room_price",
	"check_in", "check_out", "nights", "rooms",
	"adults", "children", "guest_first_name", "guest_last_name",
	"guest_email", "guest_phone", "special_requests",
	"total_price", "status", "payment_status", "cancelled_at",
	"created_at", "updated_at", "hotel_name", "hotel_city",
}

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	svc := NewBookingService(
		database.NewBookingRepository(db),
		database.NewHotelRepository(db),
		testLogger(),
	)
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, mock
}

func expectHotelFetch(mock sqlmock.Sqlmock, hotelID uuid.UUID, active bool, available int) {
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM hotels h WHERE h.id`).
		WithArgs(hotelID).
		WillReturnRows(sqlmock.NewRows(serviceHotelColumns).AddRow(
			hotelID.String(), "Grand Plaza", "Downtown landmark", uuid.NewString(),
			"1 Main St", "Chicago", "IL", "60601", "USA",
			nil, nil, []byte(`[]`), 4.5, 12,
			"{WiFi}", "15:00", "11:00", nil,
			nil, nil, active,
			now, now,
		))
	mock.ExpectQuery(`SELECT (.+) FROM hotel_rooms`).
		WithArgs(hotelID).
		WillReturnRows(sqlmock.NewRows(serviceRoomColumns).
			AddRow(uuid.NewString(), hotelID.String(), string(models.RoomTypeDouble), 150.0, available, 2, "{}", 0))
}

func validCreateRequest(hotelID uuid.UUID) *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		HotelID:  hotelID.String(),
		RoomType: string(models.RoomTypeDouble),
		CheckIn:  "2026-10-01",
		CheckOut: "2026-10-04",
		Rooms:    2,
		Guests:   models.GuestCount{Adults: 3, Children: 1},
		GuestDetails: models.GuestDetails{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "+14155550123",
		},
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()
		userID := uuid.New()

		expectHotelFetch(mock, hotelID, true, 5)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WithArgs(hotelID, string(models.RoomTypeDouble), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectCommit()

		booking, err := svc.CreateBooking(userID, validCreateRequest(hotelID))
		require.NoError(t, err)
		assert.Equal(t, 3, booking.Nights)
		assert.Equal(t, 150.0*2*3, booking.TotalPrice)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)
		assert.Equal(t, "Grand Plaza", booking.HotelName.String)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Special Requests Stored", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		expectHotelFetch(mock, hotelID, true, 5)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))
		mock.ExpectCommit()

		req := validCreateRequest(hotelID)
		req.SpecialRequests = "  Quiet room away from the elevator  "

		booking, err := svc.CreateBooking(uuid.New(), req)
		require.NoError(t, err)
		assert.Equal(t, "Jane", booking.GuestDetails.FirstName)
		assert.Equal(t, "Doe", booking.GuestDetails.LastName)
		require.True(t, booking.SpecialRequests.Valid)
		assert.Equal(t, "Quiet room away from the elevator", booking.SpecialRequests.String)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Past Check-In", func(t *testing.T) {
		svc, _ := newBookingService(t)
		req := validCreateRequest(uuid.New())
		req.CheckIn = "2026-08-31"

		_, err := svc.CreateBooking(uuid.New(), req)
		var dateErr *InvalidDateError
		require.ErrorAs(t, err, &dateErr)
		assert.Contains(t, dateErr.Message, "past")
	})

	t.Run("Check-Out Not After Check-In", func(t *testing.T) {
		svc, _ := newBookingService(t)
		req := validCreateRequest(uuid.New())
		req.CheckOut = req.CheckIn

		_, err := svc.CreateBooking(uuid.New(), req)
		var dateErr *InvalidDateError
		require.ErrorAs(t, err, &dateErr)
		assert.Contains(t, dateErr.Message, "after check-in")
	})

	t.Run("Unknown Hotel", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM hotels h WHERE h.id`).
			WithArgs(hotelID).
			WillReturnRows(sqlmock.NewRows(serviceHotelColumns))

		_, err := svc.CreateBooking(uuid.New(), validCreateRequest(hotelID))
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Hotel", notFound.Resource)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Inactive Hotel Treated As Missing", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		expectHotelFetch(mock, hotelID, false, 5)

		_, err := svc.CreateBooking(uuid.New(), validCreateRequest(hotelID))
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Room Type Not Offered", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		expectHotelFetch(mock, hotelID, true, 5)

		req := validCreateRequest(hotelID)
		req.RoomType = string(models.RoomTypeVilla)

		_, err := svc.CreateBooking(uuid.New(), req)
		var roomErr *InvalidRoomError
		require.ErrorAs(t, err, &roomErr)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Enough Rooms", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		expectHotelFetch(mock, hotelID, true, 1)

		_, err := svc.CreateBooking(uuid.New(), validCreateRequest(hotelID))
		var invErr *InsufficientInventoryError
		require.ErrorAs(t, err, &invErr)
		assert.Equal(t, 2, invErr.Requested)
		assert.Equal(t, 1, invErr.Available)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Capacity Exceeded", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		expectHotelFetch(mock, hotelID, true, 5)

		req := validCreateRequest(hotelID)
		req.Guests = models.GuestCount{Adults: 4, Children: 1}

		_, err := svc.CreateBooking(uuid.New(), req)
		var capErr *CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 2, capErr.MaxGuests)
		assert.Equal(t, 5, capErr.Guests)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Guest Phone", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		expectHotelFetch(mock, hotelID, true, 5)

		req := validCreateRequest(hotelID)
		req.GuestDetails.Phone = "not-a-phone"

		_, err := svc.CreateBooking(uuid.New(), req)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Concurrent Booking Wins The Last Rooms", func(t *testing.T) {
		svc, mock := newBookingService(t)
		hotelID := uuid.New()

		expectHotelFetch(mock, hotelID, true, 5)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := svc.CreateBooking(uuid.New(), validCreateRequest(hotelID))
		var invErr *InsufficientInventoryError
		require.ErrorAs(t, err, &invErr)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBooking(t *testing.T) {
	bookingRow := func(bookingID, userID, hotelID uuid.UUID, status string) *sqlmock.Rows {
		now := time.Now()
		return sqlmock.NewRows(serviceBookingColumns).AddRow(
			bookingID.String(), userID.String(), hotelID.String(), string(models.RoomTypeDouble), 150.0,
			now.AddDate(0, 0, 7), now.AddDate(0, 0, 10), 3, 2,
			2, 0, "Jane", "Doe", "jane@example.com", "+14155550123", nil,
			900.0, status, models.PaymentStatusPending, nil,
			now, now, "Grand Plaza", "Chicago",
		)
	}

	t.Run("Success", func(t *testing.T) {
		svc, mock := newBookingService(t)
		bookingID := uuid.New()
		userID := uuid.New()
		hotelID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(bookingID, userID, hotelID, models.BookingStatusConfirmed))

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"hotel_id", "room_type", "rooms"}).
				AddRow(hotelID.String(), string(models.RoomTypeDouble), 2))
		mock.ExpectExec(`UPDATE hotel_rooms`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		now := time.Now()
		cancelledRows := sqlmock.NewRows(serviceBookingColumns).AddRow(
			bookingID.String(), userID.String(), hotelID.String(), string(models.RoomTypeDouble), 150.0,
			now.AddDate(0, 0, 7), now.AddDate(0, 0, 10), 3, 2,
			2, 0, "Jane", "Doe", "jane@example.com", "+14155550123", nil,
			900.0, models.BookingStatusCancelled, models.PaymentStatusRefunded, now,
			now, now, "Grand Plaza", "Chicago",
		)
		mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
			WithArgs(bookingID).
			WillReturnRows(cancelledRows)

		booking, err := svc.CancelBooking(bookingID, userID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, booking.Status)
		assert.Equal(t, models.PaymentStatusRefunded, booking.PaymentStatus)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not The Booking Owner", func(t *testing.T) {
		svc, mock := newBookingService(t)
		bookingID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(bookingID, uuid.New(), uuid.New(), models.BookingStatusConfirmed))

		_, err := svc.CancelBooking(bookingID, uuid.New())
		var authErr *AuthorizationError
		require.ErrorAs(t, err, &authErr)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		svc, mock := newBookingService(t)
		bookingID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
			WithArgs(bookingID).
			WillReturnRows(bookingRow(bookingID, userID, uuid.New(), models.BookingStatusCancelled))

		_, err := svc.CancelBooking(bookingID, userID)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		svc, mock := newBookingService(t)
		bookingID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM bookings b`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(serviceBookingColumns))

		_, err := svc.CancelBooking(bookingID, uuid.New())
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
