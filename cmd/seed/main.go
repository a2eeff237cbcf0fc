// Command main runs the database seeder for BRRADS Empire.
package main

import (
	"flag"
	"log"

	"brrads/internal/config"
	"brrads/internal/database"
	"brrads/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of member accounts to create")
	numRequests := flag.Int("requests", 120, "Number of game requests to create")
	numFanArt := flag.Int("fanart", 40, "Number of fan art pieces to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d requests, %d fan art, clean=%v\n",
		*numUsers, *numRequests, *numFanArt, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumUsers:    *numUsers,
		NumRequests: *numRequests,
		NumFanArt:   *numFanArt,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
