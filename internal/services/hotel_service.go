package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// HotelService implements the hotel catalog: public search and the
// owner-side listing lifecycle.
type HotelService struct {
	hotels *database.HotelRepository
	cache  *CacheService
	logger *logrus.Logger
}

// NewHotelService creates a new HotelService
func NewHotelService(hotels *database.HotelRepository, cache *CacheService, logger *logrus.Logger) *HotelService {
	return &HotelService{hotels: hotels, cache: cache, logger: logger}
}

// Search returns active hotels matching the filter. Price bounds apply to
// individual room categories: non-matching rooms are dropped from each
// hotel and hotels left without rooms are dropped from the page.
func (s *HotelService) Search(ctx context.Context, filter models.HotelSearchFilter) (*models.HotelSearchResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	if cached, ok := s.cache.GetSearch(ctx, filter); ok {
		return cached, nil
	}

	hotels, total, err := s.hotels.Search(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search hotels: %w", err)
	}

	if filter.MinPrice != nil || filter.MaxPrice != nil {
		filtered := hotels[:0]
		for _, hotel := range hotels {
			rooms := []models.Room{}
			for _, room := range hotel.Rooms {
				if filter.MinPrice != nil && room.Price < *filter.MinPrice {
					continue
				}
				if filter.MaxPrice != nil && room.Price > *filter.MaxPrice {
					continue
				}
				rooms = append(rooms, room)
			}
			if len(rooms) == 0 {
				continue
			}
			hotel.Rooms = rooms
			filtered = append(filtered, hotel)
		}
		hotels = filtered
	}

	result := &models.HotelSearchResult{
		Hotels: hotels,
		Pagination: models.Pagination{
			CurrentPage: filter.Page,
			TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
			TotalHotels: total,
			Limit:       filter.Limit,
		},
	}

	s.cache.SetSearch(ctx, filter, result)

	return result, nil
}

// Cities returns the distinct cities with active hotels
func (s *HotelService) Cities(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.GetCities(ctx); ok {
		return cached, nil
	}

	cities, err := s.hotels.DistinctCities()
	if err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}

	s.cache.SetCities(ctx, cities)

	return cities, nil
}

// Get returns one hotel. Inactive hotels are only visible to their owner
// and to admins.
func (s *HotelService) Get(id uuid.UUID, caller *UserRef) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Hotel"}
		}
		return nil, err
	}

	if !hotel.IsActive {
		if caller == nil || (hotel.OwnerID != caller.ID && caller.Role != models.RoleAdmin) {
			return nil, &NotFoundError{Resource: "Hotel"}
		}
	}

	return hotel, nil
}

// ListByOwner returns the caller's hotels, active or not
func (s *HotelService) ListByOwner(ownerID uuid.UUID) ([]models.Hotel, error) {
	return s.hotels.GetByOwner(ownerID)
}

// Create lists a new hotel for the owner
func (s *HotelService) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateHotelRequest) (*models.Hotel, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	hotel := &models.Hotel{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		Address:     req.Address,
		Location:    req.Location,
		Images:      models.ImageList(req.Images),
		Amenities:   models.StringArray(req.Amenities),
		Rooms:       roomsFromInput(req.Rooms),
		Policies:    defaultPolicies(req.Policies),
		IsActive:    true,
	}
	if req.Contact != nil {
		hotel.Contact = *req.Contact
	}

	if err := s.hotels.Create(hotel); err != nil {
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}

	s.cache.InvalidateCatalog(ctx)
	s.logger.WithFields(logrus.Fields{
		"hotel_id": hotel.ID,
		"owner_id": ownerID,
	}).Info("Hotel created")

	return hotel, nil
}

// Update edits a hotel. Owners may only edit their own listings; admins
// may edit any. Supplying rooms replaces the full room set.
func (s *HotelService) Update(ctx context.Context, id uuid.UUID, caller UserRef, req *models.UpdateHotelRequest) (*models.Hotel, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	hotel, err := s.hotels.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Hotel"}
		}
		return nil, err
	}

	if hotel.OwnerID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, &AuthorizationError{Message: "You can only update your own hotels"}
	}

	if req.Name != nil {
		hotel.Name = *req.Name
	}
	if req.Description != nil {
		hotel.Description = *req.Description
	}
	if req.Address != nil {
		hotel.Address = *req.Address
	}
	if req.Location != nil {
		hotel.Location = req.Location
	}
	if req.Images != nil {
		hotel.Images = models.ImageList(req.Images)
	}
	if req.Amenities != nil {
		hotel.Amenities = models.StringArray(req.Amenities)
	}
	if req.Policies != nil {
		hotel.Policies = defaultPolicies(req.Policies)
	}
	if req.Contact != nil {
		hotel.Contact = *req.Contact
	}

	replaceRooms := req.Rooms != nil
	if replaceRooms {
		hotel.Rooms = roomsFromInput(req.Rooms)
	}

	if err := s.hotels.Update(hotel, replaceRooms); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Hotel"}
		}
		return nil, fmt.Errorf("failed to update hotel: %w", err)
	}

	s.cache.InvalidateCatalog(ctx)
	s.logger.WithField("hotel_id", id).Info("Hotel updated")

	return s.hotels.GetByID(id)
}

// Deactivate takes a hotel off the market. Existing bookings are kept,
// and the owner can bring the hotel back with ToggleStatus.
func (s *HotelService) Deactivate(ctx context.Context, id uuid.UUID, caller UserRef) error {
	hotel, err := s.hotels.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &NotFoundError{Resource: "Hotel"}
		}
		return err
	}

	if hotel.OwnerID != caller.ID && caller.Role != models.RoleAdmin {
		return &AuthorizationError{Message: "You can only delete your own hotels"}
	}

	if err := s.hotels.SetActive(id, false); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &NotFoundError{Resource: "Hotel"}
		}
		return fmt.Errorf("failed to deactivate hotel: %w", err)
	}

	s.cache.InvalidateCatalog(ctx)
	s.logger.WithField("hotel_id", id).Info("Hotel deactivated")

	return nil
}

// ToggleStatus flips a hotel between listed and hidden. Owners may only
// toggle their own listings; admins may toggle any.
func (s *HotelService) ToggleStatus(ctx context.Context, id uuid.UUID, caller UserRef) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Hotel"}
		}
		return nil, err
	}

	if hotel.OwnerID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, &AuthorizationError{Message: "You can only manage your own hotels"}
	}

	if err := s.hotels.SetActive(id, !hotel.IsActive); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Resource: "Hotel"}
		}
		return nil, fmt.Errorf("failed to toggle hotel status: %w", err)
	}
	hotel.IsActive = !hotel.IsActive

	s.cache.InvalidateCatalog(ctx)
	s.logger.WithFields(logrus.Fields{
		"hotel_id":  id,
		"is_active": hotel.IsActive,
	}).Info("Hotel status toggled")

	return hotel, nil
}

// roomsFromInput maps request room definitions onto model rooms
func roomsFromInput(inputs []models.RoomInput) []models.Room {
	rooms := make([]models.Room, len(inputs))
	for i, in := range inputs {
		rooms[i] = models.Room{
			Type:      models.RoomType(in.Type),
			Price:     in.Price,
			Available: in.Available,
			MaxGuests: in.MaxGuests,
			Amenities: models.StringArray(in.Amenities),
		}
	}
	return rooms
}

// defaultPolicies fills in the standard check-in and check-out times
func defaultPolicies(p *models.Policies) models.Policies {
	policies := models.Policies{CheckIn: "15:00", CheckOut: "11:00"}
	if p == nil {
		return policies
	}
	if p.CheckIn != "" {
		policies.CheckIn = p.CheckIn
	}
	if p.CheckOut != "" {
		policies.CheckOut = p.CheckOut
	}
	policies.Cancellation = p.Cancellation
	return policies
}
