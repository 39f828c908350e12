package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RoomType enumerates the bookable room categories
type RoomType string

const (
	RoomTypeSingle RoomType = "Single"
	RoomTypeDouble RoomType = "Double"
	RoomTypeTwin   RoomType = "Twin"
	RoomTypeSuite  RoomType = "Suite"
	RoomTypeDeluxe RoomType = "Deluxe"
	RoomTypeVilla  RoomType = "Villa"
)

// ValidRoomTypes lists every accepted room type
var ValidRoomTypes = []RoomType{
	RoomTypeSingle, RoomTypeDouble, RoomTypeTwin,
	RoomTypeSuite, RoomTypeDeluxe, RoomTypeVilla,
}

// IsValid reports whether the room type is one of the known categories
func (t RoomType) IsValid() bool {
	for _, v := range ValidRoomTypes {
		if t == v {
			return true
		}
	}
	return false
}

// StringArray is a custom type for handling TEXT[] columns in PostgreSQL
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return pq.Array([]string{}).Value()
	}
	return pq.Array(a).Value()
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	slice := (*[]string)(a)
	return pq.Array(slice).Scan(src)
}

// HotelImage is one entry of a hotel's ordered image list
type HotelImage struct {
	URL string `json:"url" binding:"required"`
	Alt string `json:"alt,omitempty"`
}

// ImageList is a custom type storing the ordered image list as JSONB
type ImageList []HotelImage

// Value implements the driver.Valuer interface
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]HotelImage{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *ImageList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported source type %T for ImageList", src)
	}
	return json.Unmarshal(b, l)
}

// Address is a hotel's postal address
type Address struct {
	Street  string `json:"street" db:"street" binding:"required"`
	City    string `json:"city" db:"city" binding:"required"`
	State   string `json:"state" db:"state" binding:"required"`
	ZipCode string `json:"zipCode" db:"zip_code" binding:"required"`
	Country string `json:"country" db:"country" binding:"required"`
}

// Location is an optional geographic coordinate pair
type Location struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Policies holds check-in/check-out times and the cancellation policy text
type Policies struct {
	CheckIn      string     `json:"checkIn"`
	CheckOut     string     `json:"checkOut"`
	Cancellation NullString `json:"cancellation,omitempty"`
}

// Contact holds the hotel's public contact details
type Contact struct {
	Phone NullString `json:"phone,omitempty"`
	Email NullString `json:"email,omitempty"`
}

// Room is one bookable room category embedded in a hotel. The available
// counter is the live inventory; total inventory is never stored.
type Room struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	HotelID   uuid.UUID   `json:"-" db:"hotel_id"`
	Type      RoomType    `json:"type" db:"room_type"`
	Price     float64     `json:"price" db:"price"`
	Available int         `json:"available" db:"available"`
	MaxGuests int         `json:"maxGuests" db:"max_guests"`
	Amenities StringArray `json:"amenities" db:"amenities"`
	Position  int         `json:"-" db:"position"`
}

// Hotel represents a listed property with its embedded room categories
type Hotel struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	OwnerID     uuid.UUID   `json:"owner" db:"owner_id"`
	Address     Address     `json:"address"`
	Location    *Location   `json:"location,omitempty"`
	Images      ImageList   `json:"images" db:"images"`
	Rating      float64     `json:"rating" db:"rating"`
	ReviewCount int         `json:"reviewCount" db:"review_count"`
	Amenities   StringArray `json:"amenities" db:"amenities"`
	Rooms       []Room      `json:"rooms"`
	Policies    Policies    `json:"policies"`
	Contact     Contact     `json:"contact"`
	IsActive    bool        `json:"isActive" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// FindRoom returns the hotel's room of the given type, or nil
func (h *Hotel) FindRoom(roomType RoomType) *Room {
	for i := range h.Rooms {
		if h.Rooms[i].Type == roomType {
			return &h.Rooms[i]
		}
	}
	return nil
}

// RoomInput is a room definition supplied on hotel create/update
type RoomInput struct {
	Type      string   `json:"type" binding:"required"`
	Price     float64  `json:"price" binding:"required,gt=0"`
	Available int      `json:"available" binding:"min=0"`
	MaxGuests int      `json:"maxGuests" binding:"required,min=1"`
	Amenities []string `json:"amenities"`
}

// CreateHotelRequest is the body for POST /api/hotels
type CreateHotelRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Address     Address      `json:"address" binding:"required"`
	Location    *Location    `json:"location,omitempty"`
	Images      []HotelImage `json:"images"`
	Amenities   []string     `json:"amenities"`
	Rooms       []RoomInput  `json:"rooms" binding:"required,min=1"`
	Policies    *Policies    `json:"policies,omitempty"`
	Contact     *Contact     `json:"contact,omitempty"`
}

// Validate checks constraints gin binding tags cannot express
func (r *CreateHotelRequest) Validate() error {
	seen := make(map[RoomType]bool, len(r.Rooms))
	for _, room := range r.Rooms {
		rt := RoomType(room.Type)
		if !rt.IsValid() {
			return fmt.Errorf("invalid room type: %s", room.Type)
		}
		if seen[rt] {
			return fmt.Errorf("duplicate room type: %s", room.Type)
		}
		seen[rt] = true
	}
	return nil
}

// UpdateHotelRequest is the body for PUT /api/hotels/:id. All fields are
// optional; nil means leave unchanged.
type UpdateHotelRequest struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Address     *Address     `json:"address,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Images      []HotelImage `json:"images,omitempty"`
	Amenities   []string     `json:"amenities,omitempty"`
	Rooms       []RoomInput  `json:"rooms,omitempty"`
	Policies    *Policies    `json:"policies,omitempty"`
	Contact     *Contact     `json:"contact,omitempty"`
}

// Validate checks room constraints when rooms are being replaced
func (r *UpdateHotelRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.Rooms == nil {
		return nil
	}
	if len(r.Rooms) == 0 {
		return errors.New("a hotel must keep at least one room type")
	}
	seen := make(map[RoomType]bool, len(r.Rooms))
	for _, room := range r.Rooms {
		rt := RoomType(room.Type)
		if !rt.IsValid() {
			return fmt.Errorf("invalid room type: %s", room.Type)
		}
		if seen[rt] {
			return fmt.Errorf("duplicate room type: %s", room.Type)
		}
		seen[rt] = true
	}
	return nil
}

// HotelSortKey enumerates supported search orderings
type HotelSortKey string

const (
	SortByRating    HotelSortKey = "rating"
	SortByPriceLow  HotelSortKey = "priceLow"
	SortByPriceHigh HotelSortKey = "priceHigh"
	SortByName      HotelSortKey = "name"
)

// HotelSearchFilter captures the public search query parameters
type HotelSearchFilter struct {
	City      string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Amenities []string
	SortBy    HotelSortKey
	Page      int
	Limit     int
}

// Pagination is the envelope metadata attached to list responses
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalHotels int64 `json:"totalHotels"`
	Limit       int   `json:"limit"`
}

// HotelSearchResult is the response body of GET /api/hotels
type HotelSearchResult struct {
	Hotels     []Hotel    `json:"hotels"`
	Pagination Pagination `json:"pagination"`
}
