package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/stayscape/hotel-reservation-backend/internal/config"
	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

var sampleHotels = []models.Hotel{
	{
		Name:        "Saigon Riverside Hotel",
		Description: "Modern hotel on the riverbank in Ho Chi Minh City, Vietnam.",
		Address: models.Address{
			Street: "1 Nguyen Hue Blvd", City: "Ho Chi Minh", State: "Ho Chi Minh",
			ZipCode: "700000", Country: "Vietnam",
		},
		Location: &models.Location{Latitude: floatPtr(10.7769), Longitude: floatPtr(106.7009)},
		Images: models.ImageList{
			{URL: "https://images.unsplash.com/photo-1583417319070-4a69db38a482?w=800", Alt: "Saigon Riverside"},
		},
		Amenities: models.StringArray{"WiFi", "Parking", "Restaurant"},
		Rooms: []models.Room{
			{Type: models.RoomTypeDeluxe, Price: 3500, Available: 10, MaxGuests: 2, Amenities: models.StringArray{"AC", "TV"}},
		},
		Policies: models.Policies{
			CheckIn: "14:00", CheckOut: "11:00",
			Cancellation: models.NewNullString("Free cancellation"),
		},
		Contact: models.Contact{
			Phone: models.NewNullString("+84-28-12345678"),
			Email: models.NewNullString("info@saigonriverside.com"),
		},
		IsActive: true,
	},
	{
		Name:        "Paris Central Hotel",
		Description: "Chic hotel in the heart of Paris, France.",
		Address: models.Address{
			Street: "12 Rue de Rivoli", City: "Paris", State: "Île-de-France",
			ZipCode: "75001", Country: "France",
		},
		Location: &models.Location{Latitude: floatPtr(48.8566), Longitude: floatPtr(2.3522)},
		Images: models.ImageList{
			{URL: "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=800", Alt: "Paris Central"},
		},
		Amenities: models.StringArray{"WiFi", "Parking", "Restaurant"},
		Rooms: []models.Room{
			{Type: models.RoomTypeDouble, Price: 6000, Available: 8, MaxGuests: 2, Amenities: models.StringArray{"AC", "TV"}},
		},
		Policies: models.Policies{
			CheckIn: "15:00", CheckOut: "11:00",
			Cancellation: models.NewNullString("Free cancellation"),
		},
		Contact: models.Contact{
			Phone: models.NewNullString("+33-1-23456789"),
			Email: models.NewNullString("info@pariscentral.com"),
		},
		IsActive: true,
	},
	{
		Name:        "Krabi Beach Resort",
		Description: "Tropical beach resort in Krabi, Thailand.",
		Address: models.Address{
			Street: "Ao Nang Beach", City: "Krabi", State: "Krabi",
			ZipCode: "81000", Country: "Thailand",
		},
		Location: &models.Location{Latitude: floatPtr(8.0632), Longitude: floatPtr(98.9063)},
		Images: models.ImageList{
			{URL: "https://images.unsplash.com/photo-1552465011-b4e21bf6e79a?w=800", Alt: "Krabi Beach"},
		},
		Amenities: models.StringArray{"WiFi", "Pool", "Restaurant"},
		Rooms: []models.Room{
			{Type: models.RoomTypeSuite, Price: 7000, Available: 6, MaxGuests: 3, Amenities: models.StringArray{"AC", "TV"}},
		},
		Policies: models.Policies{
			CheckIn: "13:00", CheckOut: "11:00",
			Cancellation: models.NewNullString("Free cancellation"),
		},
		Contact: models.Contact{
			Phone: models.NewNullString("+66-75-123456"),
			Email: models.NewNullString("info@krabibeach.com"),
		},
		IsActive: true,
	},
	{
		Name:        "Maldives Lagoon Villa",
		Description: "Luxury villa on the water in the Maldives.",
		Address: models.Address{
			Street: "Lagoon Road", City: "Maldives", State: "Malé",
			ZipCode: "20000", Country: "Maldives",
		},
		Location: &models.Location{Latitude: floatPtr(3.2028), Longitude: floatPtr(73.2207)},
		Images: models.ImageList{
			{URL: "https://images.unsplash.com/photo-1512343879784-a960bf40e7f2?w=800", Alt: "Maldives Lagoon"},
		},
		Amenities: models.StringArray{"WiFi", "Pool", "Spa"},
		Rooms: []models.Room{
			{Type: models.RoomTypeVilla, Price: 15000, Available: 3, MaxGuests: 2, Amenities: models.StringArray{"AC", "TV"}},
		},
		Policies: models.Policies{
			CheckIn: "14:00", CheckOut: "12:00",
			Cancellation: models.NewNullString("Free cancellation"),
		},
		Contact: models.Contact{
			Phone: models.NewNullString("+960-1234567"),
			Email: models.NewNullString("info@maldiveslagoon.com"),
		},
		IsActive: true,
	},
	{
		Name:        "Mountain View Lodge",
		Description: "Cozy lodge with Himalayan views in Shimla, India.",
		Address: models.Address{
			Street: "Mall Road", City: "Shimla", State: "Himachal Pradesh",
			ZipCode: "171001", Country: "India",
		},
		Location: &models.Location{Latitude: floatPtr(31.1048), Longitude: floatPtr(77.1734)},
		Images: models.ImageList{
			{URL: "https://images.unsplash.com/photo-1551882547-ff40c63fe5fa?w=800", Alt: "Mountain view"},
		},
		Amenities: models.StringArray{"WiFi", "Parking", "Restaurant", "Fireplace", "Mountain View"},
		Rooms: []models.Room{
			{Type: models.RoomTypeSingle, Price: 2500, Available: 12, MaxGuests: 1, Amenities: models.StringArray{"Heater", "TV", "WiFi"}},
			{Type: models.RoomTypeDouble, Price: 3500, Available: 8, MaxGuests: 2, Amenities: models.StringArray{"Heater", "TV", "WiFi", "Fireplace"}},
		},
		Policies: models.Policies{
			CheckIn: "13:00", CheckOut: "10:00",
			Cancellation: models.NewNullString("Free cancellation until 48 hours before check-in"),
		},
		Contact: models.Contact{
			Phone: models.NewNullString("+91-177-1234567"),
			Email: models.NewNullString("info@mountainview.com"),
		},
		IsActive: true,
	},
}

// Seeds the catalog with demo hotels owned by a demo owner account.
// Existing hotels are removed first so the command is repeatable.
func main() {
	var ownerEmail, ownerPassword string
	flag.StringVar(&ownerEmail, "owner-email", "owner@stayscape.dev", "email for the demo owner account")
	flag.StringVar(&ownerPassword, "owner-password", "", "password for the demo owner account (required when creating it)")
	flag.Parse()

	_ = godotenv.Load()

	db, err := database.NewConnection(config.LoadDatabase())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	users := database.NewUserRepository(db)
	hotels := database.NewHotelRepository(db)

	owner, err := users.GetByEmail(ownerEmail)
	if errors.Is(err, database.ErrNotFound) {
		if ownerPassword == "" {
			log.Fatal("-owner-password is required when the demo owner does not exist yet")
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			log.Fatalf("failed to hash password: %v", hashErr)
		}
		owner = &models.User{
			Name:         "Demo Owner",
			Email:        ownerEmail,
			PasswordHash: string(hash),
			AccessState:  models.AccessOwnerApproved,
		}
		if err := users.Create(owner); err != nil {
			log.Fatalf("failed to create demo owner: %v", err)
		}
		fmt.Printf("Created demo owner %s\n", ownerEmail)
	} else if err != nil {
		log.Fatalf("failed to look up demo owner: %v", err)
	}

	// Drop the existing catalog; bookings cascade with their hotels.
	if _, err := db.Exec(`DELETE FROM hotels`); err != nil {
		log.Fatalf("failed to clear hotels: %v", err)
	}
	fmt.Println("Cleared existing hotels")

	for i := range sampleHotels {
		hotel := sampleHotels[i]
		hotel.OwnerID = owner.ID
		if err := hotels.Create(&hotel); err != nil {
			log.Fatalf("failed to insert hotel %q: %v", hotel.Name, err)
		}
	}
	fmt.Printf("Inserted %d hotels\n", len(sampleHotels))
}
