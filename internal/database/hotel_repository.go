package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

const hotelColumns = `
	h.id, h.name, h.description, h.owner_id,
	h.street, h.city, h.state, h.zip_code, h.country,
	h.latitude, h.longitude, h.images, h.rating, h.review_count,
	h.amenities, h.check_in, h.check_out, h.cancellation_policy,
	h.contact_phone, h.contact_email, h.is_active,
	h.created_at, h.updated_at
`

// HotelRepository handles database operations for hotels and their rooms
type HotelRepository struct {
	db DB
}

// NewHotelRepository creates a new HotelRepository
func NewHotelRepository(db DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// Create inserts a hotel and its room categories in a transaction
func (r *HotelRepository) Create(hotel *models.Hotel) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if hotel.ID == uuid.Nil {
		hotel.ID = uuid.New()
	}

	query := `
		INSERT INTO hotels (
			id, name, description, owner_id,
			street, city, state, zip_code, country,
			latitude, longitude, images, amenities,
			check_in, check_out, cancellation_policy,
			contact_phone, contact_email, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		RETURNING rating, review_count, created_at, updated_at
	`

	var lat, lng *float64
	if hotel.Location != nil {
		lat = hotel.Location.Latitude
		lng = hotel.Location.Longitude
	}

	err = tx.QueryRow(
		query,
		hotel.ID, hotel.Name, hotel.Description, hotel.OwnerID,
		hotel.Address.Street, hotel.Address.City, hotel.Address.State,
		hotel.Address.ZipCode, hotel.Address.Country,
		lat, lng, hotel.Images, hotel.Amenities,
		hotel.Policies.CheckIn, hotel.Policies.CheckOut, hotel.Policies.Cancellation,
		hotel.Contact.Phone, hotel.Contact.Email, hotel.IsActive,
	).Scan(&hotel.Rating, &hotel.ReviewCount, &hotel.CreatedAt, &hotel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert hotel: %w", err)
	}

	if err := insertRooms(tx, hotel.ID, hotel.Rooms); err != nil {
		return err
	}

	return tx.Commit()
}

// Update rewrites a hotel's fields and, when rooms is non-nil, replaces its
// room categories. Replacing rooms resets availability to the new counts.
func (r *HotelRepository) Update(hotel *models.Hotel, replaceRooms bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE hotels
		SET name = $2, description = $3,
			street = $4, city = $5, state = $6, zip_code = $7, country = $8,
			latitude = $9, longitude = $10, images = $11, amenities = $12,
			check_in = $13, check_out = $14, cancellation_policy = $15,
			contact_phone = $16, contact_email = $17,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	var lat, lng *float64
	if hotel.Location != nil {
		lat = hotel.Location.Latitude
		lng = hotel.Location.Longitude
	}

	err = tx.QueryRow(
		query,
		hotel.ID, hotel.Name, hotel.Description,
		hotel.Address.Street, hotel.Address.City, hotel.Address.State,
		hotel.Address.ZipCode, hotel.Address.Country,
		lat, lng, hotel.Images, hotel.Amenities,
		hotel.Policies.CheckIn, hotel.Policies.CheckOut, hotel.Policies.Cancellation,
		hotel.Contact.Phone, hotel.Contact.Email,
	).Scan(&hotel.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update hotel: %w", err)
	}

	if replaceRooms {
		if _, err := tx.Exec(`DELETE FROM hotel_rooms WHERE hotel_id = $1`, hotel.ID); err != nil {
			return fmt.Errorf("failed to clear rooms: %w", err)
		}
		if err := insertRooms(tx, hotel.ID, hotel.Rooms); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SetActive flips a hotel's listing status. Deactivating soft-deletes the
// hotel; existing bookings keep their snapshots either way.
func (r *HotelRepository) SetActive(id uuid.UUID, active bool) error {
	query := `
		UPDATE hotels
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, active)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// GetByID retrieves a hotel with its rooms regardless of active status
func (r *HotelRepository) GetByID(id uuid.UUID) (*models.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels h WHERE h.id = $1`

	hotel, err := r.scanHotel(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	rooms, err := r.getRooms(hotel.ID)
	if err != nil {
		return nil, err
	}
	hotel.Rooms = rooms

	return hotel, nil
}

// GetByOwner retrieves all hotels owned by a user, newest first
func (r *HotelRepository) GetByOwner(ownerID uuid.UUID) ([]models.Hotel, error) {
	query := `SELECT ` + hotelColumns + `
		FROM hotels h
		WHERE h.owner_id = $1
		ORDER BY h.created_at DESC
	`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels, err := r.scanHotels(rows)
	if err != nil {
		return nil, err
	}
	return r.attachRooms(hotels)
}

// Search returns active hotels matching the filter plus the total match
// count before pagination. Room price filtering happens in the service
// layer, so the SQL filter covers city, text search, rating and amenities.
func (r *HotelRepository) Search(filter models.HotelSearchFilter) ([]models.Hotel, int64, error) {
	where := []string{"h.is_active = TRUE"}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.City != "" {
		// Substring match, so "York" finds hotels in "New York"
		where = append(where, fmt.Sprintf("h.city ILIKE %s", arg("%"+filter.City+"%")))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf(
			"(h.name ILIKE %s OR h.description ILIKE %s OR h.city ILIKE %s)", p, p, p))
	}
	if filter.MinRating != nil {
		where = append(where, fmt.Sprintf("h.rating >= %s", arg(*filter.MinRating)))
	}
	if len(filter.Amenities) > 0 {
		// Overlap, not containment: a hotel matches when it offers any
		// of the requested amenities.
		where = append(where, fmt.Sprintf("h.amenities && %s", arg(pq.Array(filter.Amenities))))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM hotels h WHERE ` + whereClause
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	var orderBy string
	switch filter.SortBy {
	case models.SortByPriceLow:
		orderBy = "(SELECT MIN(price) FROM hotel_rooms hr WHERE hr.hotel_id = h.id) ASC"
	case models.SortByPriceHigh:
		orderBy = "(SELECT MAX(price) FROM hotel_rooms hr WHERE hr.hotel_id = h.id) DESC"
	case models.SortByName:
		orderBy = "h.name ASC"
	default:
		orderBy = "h.rating DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := `SELECT ` + hotelColumns + `
		FROM hotels h
		WHERE ` + whereClause + `
		ORDER BY ` + orderBy + `
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	hotels, err := r.scanHotels(rows)
	if err != nil {
		return nil, 0, err
	}

	hotels, err = r.attachRooms(hotels)
	if err != nil {
		return nil, 0, err
	}

	return hotels, total, nil
}

// DistinctCities returns the sorted list of cities with active hotels
func (r *HotelRepository) DistinctCities() ([]string, error) {
	query := `
		SELECT DISTINCT city
		FROM hotels
		WHERE is_active = TRUE
		ORDER BY city ASC
	`

	cities := []string{}
	if err := r.db.Select(&cities, query); err != nil {
		return nil, err
	}
	return cities, nil
}

// getRooms returns a hotel's room categories in their defined order
func (r *HotelRepository) getRooms(hotelID uuid.UUID) ([]models.Room, error) {
	query := `
		SELECT id, hotel_id, room_type, price, available, max_guests, amenities, position
		FROM hotel_rooms
		WHERE hotel_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		var room models.Room
		err := rows.Scan(
			&room.ID, &room.HotelID, &room.Type, &room.Price,
			&room.Available, &room.MaxGuests, &room.Amenities, &room.Position,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// attachRooms loads rooms for each hotel in the slice
func (r *HotelRepository) attachRooms(hotels []models.Hotel) ([]models.Hotel, error) {
	for i := range hotels {
		rooms, err := r.getRooms(hotels[i].ID)
		if err != nil {
			return nil, err
		}
		hotels[i].Rooms = rooms
	}
	return hotels, nil
}

// scanHotel scans a single hotel row
func (r *HotelRepository) scanHotel(row scanner) (*models.Hotel, error) {
	hotel := &models.Hotel{}
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&hotel.ID, &hotel.Name, &hotel.Description, &hotel.OwnerID,
		&hotel.Address.Street, &hotel.Address.City, &hotel.Address.State,
		&hotel.Address.ZipCode, &hotel.Address.Country,
		&lat, &lng, &hotel.Images, &hotel.Rating, &hotel.ReviewCount,
		&hotel.Amenities, &hotel.Policies.CheckIn, &hotel.Policies.CheckOut,
		&hotel.Policies.Cancellation,
		&hotel.Contact.Phone, &hotel.Contact.Email, &hotel.IsActive,
		&hotel.CreatedAt, &hotel.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if lat.Valid || lng.Valid {
		hotel.Location = &models.Location{}
		if lat.Valid {
			hotel.Location.Latitude = &lat.Float64
		}
		if lng.Valid {
			hotel.Location.Longitude = &lng.Float64
		}
	}

	return hotel, nil
}

// scanHotels scans multiple hotel rows
func (r *HotelRepository) scanHotels(rows *sql.Rows) ([]models.Hotel, error) {
	hotels := []models.Hotel{}
	for rows.Next() {
		hotel, err := r.scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *hotel)
	}
	return hotels, rows.Err()
}

// insertRooms writes room category rows within a transaction
func insertRooms(tx execer, hotelID uuid.UUID, rooms []models.Room) error {
	query := `
		INSERT INTO hotel_rooms (id, hotel_id, room_type, price, available, max_guests, amenities, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i := range rooms {
		room := &rooms[i]
		if room.ID == uuid.Nil {
			room.ID = uuid.New()
		}
		room.HotelID = hotelID
		room.Position = i
		_, err := tx.Exec(query, room.ID, room.HotelID, room.Type,
			room.Price, room.Available, room.MaxGuests, room.Amenities, room.Position)
		if err != nil {
			return fmt.Errorf("failed to insert room %s: %w", room.Type, err)
		}
	}
	return nil
}

// execer is the subset of sqlx.Tx used by shared insert helpers
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}
