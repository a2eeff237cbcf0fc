// Package seed provides helpers to create demo data for development and
// testing. Not for production use.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"brrads/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumRequests int
	NumFanArt   int
	ShouldClean bool
}

// Seeder populates the database with plausible community data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var gameNames = []string{
	"Hollow Knight", "Celeste", "Hades", "Stardew Valley", "Undertale",
	"Cuphead", "Dead Cells", "Slay the Spire", "Terraria", "Factorio",
	"Outer Wilds", "Subnautica", "Rimworld", "Noita", "Baba Is You",
	"Vampire Survivors", "Balatro", "Lethal Company", "Valheim", "Core Keeper",
	"Enter the Gungeon", "Risk of Rain 2", "Darkest Dungeon", "FTL", "Spelunky 2",
}

// ClearAll removes every row from every table, respecting FK order.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.FanArt{},
		&models.GameRequest{},
		&models.LiveStream{},
		&models.SiteSetting{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table %T: %w", table, err)
		}
	}
	log.Println("Cleared all tables")
	return nil
}

// Run seeds the database per the given options.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	moderators := usersWithRole(users, models.RoleModerator, models.RoleAdmin)

	if err := s.seedRequests(users, opts.NumRequests); err != nil {
		return err
	}
	if err := s.seedFanArt(users, moderators, opts.NumFanArt); err != nil {
		return err
	}
	if err := s.seedStreams(moderators); err != nil {
		return err
	}
	if err := s.seedSettings(); err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d requests, %d fan art pieces", len(users), opts.NumRequests, opts.NumFanArt)
	return nil
}

// seedUsers creates one admin, a couple of moderators, and the rest members.
// Every account gets the password "password123".
func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count+3)

	admin := &models.User{
		Username: "brrad",
		Password: string(hashed),
		Email:    "brrad@example.com",
		FullName: "BRRAD Himself",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	users = append(users, admin)

	for i := 1; i <= 2; i++ {
		users = append(users, &models.User{
			Username: fmt.Sprintf("mod_%s", gofakeit.Username()),
			Password: string(hashed),
			Email:    gofakeit.Email(),
			FullName: gofakeit.Name(),
			Role:     models.RoleModerator,
			IsActive: true,
		})
	}

	for i := 0; i < count; i++ {
		user := &models.User{
			Username: gofakeit.Username(),
			Password: string(hashed),
			Email:    gofakeit.Email(),
			FullName: gofakeit.Name(),
			Role:     models.RoleMember,
			IsActive: s.rand.Intn(20) != 0, // a few disabled accounts
		}
		users = append(users, user)
	}

	for _, user := range users {
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", user.Username, err)
		}
	}
	return users, nil
}

func (s *Seeder) seedRequests(users []*models.User, count int) error {
	statuses := []models.RequestStatus{
		models.RequestStatusPending, models.RequestStatusPending,
		models.RequestStatusApproved, models.RequestStatusApproved,
		models.RequestStatusPlayed,
		models.RequestStatusRejected,
	}

	var created []*models.GameRequest
	for i := 0; i < count; i++ {
		user := users[s.rand.Intn(len(users))]
		status := statuses[s.rand.Intn(len(statuses))]

		request := &models.GameRequest{
			GameName:      gameNames[s.rand.Intn(len(gameNames))] + " " + gofakeit.Word(),
			GameLink:      "https://store.steampowered.com/app/" + gofakeit.DigitN(6),
			RequesterName: user.Username,
			Status:        status,
			RequestedBy:   user.ID,
			CreatedAt:     s.pastTime(60),
		}

		switch status {
		case models.RequestStatusRejected:
			request.RejectionReason = gofakeit.Sentence(8)
		case models.RequestStatusPlayed:
			playedAt := s.pastTime(30)
			request.PlayedAt = &playedAt
		}

		if err := s.db.Create(request).Error; err != nil {
			return fmt.Errorf("failed to create game request: %w", err)
		}
		created = append(created, request)
	}

	// Mark a handful as duplicates of earlier requests.
	if len(created) > 4 {
		for i := 0; i < len(created)/10+1; i++ {
			victim := created[s.rand.Intn(len(created))]
			original := created[s.rand.Intn(len(created))]
			if victim.ID == original.ID {
				continue
			}
			victim.Status = models.RequestStatusDuplicate
			victim.DuplicateOf = &original.ID
			victim.RejectionReason = ""
			victim.PlayedAt = nil
			if err := s.db.Save(victim).Error; err != nil {
				return fmt.Errorf("failed to mark duplicate: %w", err)
			}
		}
	}

	return nil
}

func (s *Seeder) seedFanArt(users, moderators []*models.User, count int) error {
	statuses := []models.FanArtStatus{
		models.FanArtStatusPending,
		models.FanArtStatusApproved, models.FanArtStatusApproved,
		models.FanArtStatusRejected,
	}

	for i := 0; i < count; i++ {
		user := users[s.rand.Intn(len(users))]
		status := statuses[s.rand.Intn(len(statuses))]

		art := &models.FanArt{
			Title:       gofakeit.Sentence(3),
			ArtistName:  user.Username,
			ImagePath:   fmt.Sprintf("/uploads/fanart/art-%d-%s.png", time.Now().UnixMilli(), gofakeit.LetterN(8)),
			Description: gofakeit.Sentence(12),
			Status:      status,
			SubmittedBy: user.ID,
			CreatedAt:   s.pastTime(60),
		}

		if status == models.FanArtStatusApproved && len(moderators) > 0 {
			mod := moderators[s.rand.Intn(len(moderators))]
			approvedAt := s.pastTime(30)
			art.ApprovedBy = &mod.ID
			art.ApprovedAt = &approvedAt
		}

		if err := s.db.Create(art).Error; err != nil {
			return fmt.Errorf("failed to create fan art: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedStreams(moderators []*models.User) error {
	if len(moderators) == 0 {
		return nil
	}
	creator := moderators[0]

	// A few past streams, all ended.
	for i := 0; i < 3; i++ {
		started := s.pastTime(30)
		ended := started.Add(time.Duration(2+s.rand.Intn(4)) * time.Hour)
		stream := &models.LiveStream{
			Title:      gofakeit.Sentence(4),
			YoutubeURL: "https://youtube.com/watch?v=" + gofakeit.LetterN(11),
			IsActive:   false,
			CreatedBy:  creator.ID,
			StartedAt:  &started,
			EndedAt:    &ended,
		}
		if err := s.db.Create(stream).Error; err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedSettings() error {
	settings := map[string]string{
		"welcome_message": "Welcome to the BRRADS Empire!",
		"discord_url":     "https://discord.gg/" + gofakeit.LetterN(8),
		"youtube_url":     "https://youtube.com/@brrads",
	}
	for key, value := range settings {
		if err := s.db.Create(&models.SiteSetting{Key: key, Value: value}).Error; err != nil {
			return fmt.Errorf("failed to create setting %s: %w", key, err)
		}
	}
	return nil
}

// pastTime returns a random time within the last maxDays days.
func (s *Seeder) pastTime(maxDays int) time.Time {
	daysBack := s.rand.Intn(maxDays)
	hoursBack := s.rand.Intn(24)
	minsBack := s.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

func usersWithRole(users []*models.User, roles ...models.Role) []*models.User {
	var out []*models.User
	for _, user := range users {
		for _, role := range roles {
			if user.Role == role {
				out = append(out, user)
				break
			}
		}
	}
	return out
}
