package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/stayscape/hotel-reservation-backend/internal/config"
	"github.com/stayscape/hotel-reservation-backend/internal/database"
	"github.com/stayscape/hotel-reservation-backend/internal/models"
)

// Promotes an existing user to administrator. Admin access is only ever
// granted through this command, never through the API.
func main() {
	var email string
	flag.StringVar(&email, "email", "", "email address of the user to promote")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		log.Fatal("usage: make-admin -email user@example.com")
	}

	db, err := database.NewConnection(config.LoadDatabase())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	users := database.NewUserRepository(db)

	user, err := users.GetByEmail(email)
	if errors.Is(err, database.ErrNotFound) {
		log.Fatalf("no user found with email %s", email)
	}
	if err != nil {
		log.Fatalf("failed to look up user: %v", err)
	}
	if user.IsAdmin() {
		fmt.Printf("%s is already an administrator\n", email)
		return
	}

	if err := users.SetAccessState(user.ID, models.AccessAdmin); err != nil {
		log.Fatalf("failed to promote user: %v", err)
	}

	fmt.Printf("Promoted %s (%s) to administrator\n", user.Name, email)
}
