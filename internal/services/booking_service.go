package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
	"github.com/stayscape/hotel-reservation-backend/pkg/validator"
)

// BookingService implements the reservation flow: validation, pricing and
// the transactional inventory handoff to the repository.
type BookingService struct {
	bookings       *database.BookingRepository
	hotels         *database.HotelRepository
	phoneValidator *validator.PhoneValidator
	logger         *logrus.Logger
	now            func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookings *database.BookingRepository,
	hotels *database.HotelRepository,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:       bookings,
		hotels:         hotels,
		phoneValidator: validator.NewPhoneValidator(),
		logger:         logger,
		now:            time.Now,
	}
}

// CreateBooking validates the request and writes the booking. Checks run
// in a fixed order so clients always see the most fundamental failure:
// dates, then hotel, then room type, then availability, then capacity.
func (s *BookingService) CreateBooking(userID uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error) {
	checkIn, err := parseStayDate(req.CheckIn)
	if err != nil {
		return nil, &InvalidDateError{Message: "Invalid check-in date"}
	}
	checkOut, err := parseStayDate(req.CheckOut)
	if err != nil {
		return nil, &InvalidDateError{Message: "Invalid check-out date"}
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return nil, &InvalidDateError{Message: "Check-in date cannot be in the past"}
	}
	if !checkOut.After(checkIn) {
		return nil, &InvalidDateError{Message: "Check-out date must be after check-in date"}
	}

	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return nil, &NotFoundError{Resource: "Hotel"}
	}

	hotel, err := s.hotels.GetByID(hotelID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Hotel"}
		}
		return nil, fmt.Errorf("failed to load hotel: %w", err)
	}
	if !hotel.IsActive {
		return nil, &NotFoundError{Resource: "Hotel"}
	}

	room := hotel.FindRoom(models.RoomType(req.RoomType))
	if room == nil {
		return nil, &InvalidRoomError{Message: "Selected room type is not available at this hotel"}
	}

	if room.Available < req.Rooms {
		return nil, &InsufficientInventoryError{Requested: req.Rooms, Available: room.Available}
	}

	totalGuests := req.Guests.Total()
	if totalGuests > room.MaxGuests*req.Rooms {
		return nil, &CapacityExceededError{
			MaxGuests: room.MaxGuests,
			Guests:    totalGuests,
			Rooms:     req.Rooms,
		}
	}

	phone, err := s.phoneValidator.Validate(req.GuestDetails.Phone)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid guest phone number"}
	}

	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))

	booking := &models.Booking{
		UserID:    userID,
		HotelID:   hotel.ID,
		RoomType:  room.Type,
		RoomPrice: room.Price,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Nights:    nights,
		Rooms:     req.Rooms,
		Guests:    req.Guests,
		GuestDetails: models.GuestDetails{
			FirstName: strings.TrimSpace(req.GuestDetails.FirstName),
			LastName:  strings.TrimSpace(req.GuestDetails.LastName),
			Email:     req.GuestDetails.Email,
			Phone:     phone,
		},
		TotalPrice:    room.Price * float64(req.Rooms) * float64(nights),
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
	}
	if requests := strings.TrimSpace(req.SpecialRequests); requests != "" {
		booking.SpecialRequests = models.NewNullString(requests)
	}

	if err := s.bookings.Create(booking); err != nil {
		if errors.Is(err, database.ErrInsufficientInventory) {
			// A concurrent booking consumed the rooms between the
			// availability check and the decrement.
			return nil, &InsufficientInventoryError{Requested: req.Rooms, Available: 0}
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.HotelName = models.NullString{NullString: sql.NullString{String: hotel.Name, Valid: true}}
	booking.HotelCity = models.NullString{NullString: sql.NullString{String: hotel.Address.City, Valid: true}}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"hotel_id":   hotel.ID,
		"user_id":    userID,
		"rooms":      booking.Rooms,
		"nights":     booking.Nights,
	}).Info("Booking created")

	return booking, nil
}

// CancelBooking cancels the caller's confirmed booking and restocks the
// rooms. Only the user who made the booking may cancel it.
func (s *BookingService) CancelBooking(bookingID, userID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Booking"}
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	if booking.UserID != userID {
		return nil, &AuthorizationError{Message: "You can only cancel your own bookings"}
	}
	if !booking.IsCancellable() {
		return nil, &ConflictError{Message: "Booking is already " + booking.Status}
	}

	cancelled, err := s.bookings.Cancel(bookingID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Lost a race with another cancel of the same booking.
			return nil, &ConflictError{Message: "Booking is already cancelled"}
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("Booking cancelled")

	return cancelled, nil
}

// GetUserBookings returns the caller's bookings, newest first
func (s *BookingService) GetUserBookings(userID uuid.UUID) ([]models.Booking, error) {
	return s.bookings.GetByUserID(userID)
}

// GetBooking returns one booking, visible to its user and to admins
func (s *BookingService) GetBooking(bookingID uuid.UUID, caller UserRef) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Booking"}
		}
		return nil, err
	}

	if booking.UserID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, &AuthorizationError{Message: "You can only view your own bookings"}
	}

	return booking, nil
}

// UserRef identifies the caller for authorization decisions
type UserRef struct {
	ID   uuid.UUID
	Role string
}

// parseStayDate accepts date-only or RFC 3339 timestamps, normalized to
// midnight UTC so night counts stay whole.
func parseStayDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
