package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

// ErrInsufficientInventory is returned when the requested room count
// exceeds the live availability at commit time.
var ErrInsufficientInventory = fmt.Errorf("insufficient room availability")

const bookingColumns = `
	b.id, b.user_id, b.hotel_id, b.room_type, b.room_price,
	b.check_in, b.check_out, b.nights, b.rooms,
	b.adults, b.children,
	b.guest_first_name, b.guest_last_name, b.guest_email, b.guest_phone,
	b.special_requests, b.total_price, b.status, b.payment_status, b.cancelled_at,
	b.created_at, b.updated_at,
	h.name AS hotel_name, h.city AS hotel_city
`

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking and decrements room availability in one
// transaction. The availability guard in the UPDATE makes concurrent
// overlapping requests serialize: whichever transaction commits first
// wins and the loser sees ErrInsufficientInventory.
func (r *BookingRepository) Create(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	decrement := `
		UPDATE hotel_rooms
		SET available = available - $3
		WHERE hotel_id = $1 AND room_type = $2 AND available >= $3
	`

	result, err := tx.Exec(decrement, booking.HotelID, booking.RoomType, booking.Rooms)
	if err != nil {
		return fmt.Errorf("failed to reserve rooms: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInsufficientInventory
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	insert := `
		INSERT INTO bookings (
			id, user_id, hotel_id, room_type, room_price,
			check_in, check_out, nights, rooms,
			adults, children,
			guest_first_name, guest_last_name, guest_email, guest_phone,
			special_requests, total_price, status, payment_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(
		insert,
		booking.ID, booking.UserID, booking.HotelID, booking.RoomType, booking.RoomPrice,
		booking.CheckIn, booking.CheckOut, booking.Nights, booking.Rooms,
		booking.Guests.Adults, booking.Guests.Children,
		booking.GuestDetails.FirstName, booking.GuestDetails.LastName,
		booking.GuestDetails.Email, booking.GuestDetails.Phone,
		booking.SpecialRequests, booking.TotalPrice, booking.Status, booking.PaymentStatus,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return tx.Commit()
}

// Cancel marks a confirmed booking cancelled and returns the rooms to
// inventory, in one transaction. The status guard keeps a concurrent
// double-cancel from restocking twice. If the hotel's room category was
// removed since booking, the restock silently affects no rows.
func (r *BookingRepository) Cancel(bookingID, userID uuid.UUID) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cancel := `
		UPDATE bookings
		SET status = $3,
			payment_status = $4,
			cancelled_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = $5
		RETURNING hotel_id, room_type, rooms
	`

	var hotelID uuid.UUID
	var roomType models.RoomType
	var roomCount int
	err = tx.QueryRow(cancel, bookingID, userID,
		models.BookingStatusCancelled, models.PaymentStatusRefunded,
		models.BookingStatusConfirmed,
	).Scan(&hotelID, &roomType, &roomCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	restock := `
		UPDATE hotel_rooms
		SET available = available + $3
		WHERE hotel_id = $1 AND room_type = $2
	`
	if _, err := tx.Exec(restock, hotelID, roomType, roomCount); err != nil {
		return nil, fmt.Errorf("failed to restock rooms: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(bookingID)
}

// GetByID retrieves a booking by ID with the hotel's display fields
func (r *BookingRepository) GetByID(id uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN hotels h ON h.id = b.hotel_id
		WHERE b.id = $1
	`
	return r.scanBooking(r.db.QueryRow(query, id))
}

// GetByUserID retrieves a user's bookings, newest first
func (r *BookingRepository) GetByUserID(userID uuid.UUID) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN hotels h ON h.id = b.hotel_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByHotelID retrieves a hotel's bookings, newest first
func (r *BookingRepository) GetByHotelID(hotelID uuid.UUID) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN hotels h ON h.id = b.hotel_id
		WHERE b.hotel_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(query, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// scanBooking scans a single booking row
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	err := row.Scan(
		&booking.ID, &booking.UserID, &booking.HotelID,
		&booking.RoomType, &booking.RoomPrice,
		&booking.CheckIn, &booking.CheckOut, &booking.Nights, &booking.Rooms,
		&booking.Guests.Adults, &booking.Guests.Children,
		&booking.GuestDetails.FirstName, &booking.GuestDetails.LastName,
		&booking.GuestDetails.Email, &booking.GuestDetails.Phone,
		&booking.SpecialRequests, &booking.TotalPrice, &booking.Status, &booking.PaymentStatus, &booking.CancelledAt,
		&booking.CreatedAt, &booking.UpdatedAt,
		&booking.HotelName, &booking.HotelCity,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// scanBookings scans multiple booking rows
func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}
