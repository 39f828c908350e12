package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking status values
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment status values
const (
	PaymentStatusPending  = "pending"
	PaymentStatusRefunded = "refunded"
)

// GuestCount is the party composition for a booking
type GuestCount struct {
	Adults   int `json:"adults" db:"adults" binding:"required,min=1"`
	Children int `json:"children" db:"children" binding:"min=0"`
}

// Total returns the full party size
func (g GuestCount) Total() int {
	return g.Adults + g.Children
}

// GuestDetails are the lead guest's contact details captured at booking time
type GuestDetails struct {
	FirstName string `json:"firstName" db:"guest_first_name" binding:"required"`
	LastName  string `json:"lastName" db:"guest_last_name" binding:"required"`
	Email     string `json:"email" db:"guest_email" binding:"required,email"`
	Phone     string `json:"phone" db:"guest_phone" binding:"required"`
}

// Booking is a confirmed or historical reservation. Price fields are
// snapshots from booking time and never change with later room edits.
type Booking struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	UserID          uuid.UUID    `json:"user" db:"user_id"`
	HotelID         uuid.UUID    `json:"hotel" db:"hotel_id"`
	RoomType        RoomType     `json:"roomType" db:"room_type"`
	RoomPrice       float64      `json:"roomPrice" db:"room_price"`
	CheckIn         time.Time    `json:"checkIn" db:"check_in"`
	CheckOut        time.Time    `json:"checkOut" db:"check_out"`
	Nights          int          `json:"nights" db:"nights"`
	Rooms           int          `json:"rooms" db:"rooms"`
	Guests          GuestCount   `json:"guests"`
	GuestDetails    GuestDetails `json:"guestDetails"`
	SpecialRequests NullString   `json:"specialRequests,omitempty" db:"special_requests"`
	TotalPrice      float64      `json:"totalPrice" db:"total_price"`
	Status          string       `json:"status" db:"status"`
	PaymentStatus   string       `json:"paymentStatus" db:"payment_status"`
	CancelledAt     NullTime     `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`

	// Denormalized display fields joined from the hotel row
	HotelName NullString `json:"hotelName,omitempty" db:"hotel_name"`
	HotelCity NullString `json:"hotelCity,omitempty" db:"hotel_city"`
}

// IsCancellable reports whether the booking can still be cancelled
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusConfirmed
}

// CreateBookingRequest is the body for POST /api/bookings
type CreateBookingRequest struct {
	HotelID         string       `json:"hotelId" binding:"required"`
	RoomType        string       `json:"roomType" binding:"required"`
	CheckIn         string       `json:"checkIn" binding:"required"`
	CheckOut        string       `json:"checkOut" binding:"required"`
	Rooms           int          `json:"rooms" binding:"required,min=1"`
	Guests          GuestCount   `json:"guests" binding:"required"`
	GuestDetails    GuestDetails `json:"guestDetails" binding:"required"`
	SpecialRequests string       `json:"specialRequests"`
}

// BookingListResult is the response body of GET /api/bookings
type BookingListResult struct {
	Bookings []Booking `json:"bookings"`
}
