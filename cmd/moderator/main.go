// Command moderator creates or promotes a moderator/admin account.
//
// Usage:
//
//	go run ./cmd/moderator -username brrad -email brrad@example.com -password s3cret -role admin
//
// If the username already exists the account is promoted to the requested
// role instead of created.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"brrads/internal/config"
	"brrads/internal/database"
	"brrads/internal/models"
	"brrads/internal/repository"
	"brrads/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "account username (required)")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password (required for new accounts)")
	role := flag.String("role", string(models.RoleModerator), "role to grant: moderator or admin")

	flag.Parse()

	if err := run(*username, *email, *password, models.Role(*role)); err != nil {
		log.Fatal(err)
	}
}

func run(username, email, password string, role models.Role) error {
	if username == "" {
		return fmt.Errorf("-username is required")
	}
	if !role.AtLeast(models.RoleModerator) || !models.ValidRole(role) {
		return fmt.Errorf("invalid role %q: must be moderator or admin", role)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	users := repository.NewUserRepository(db)
	ctx := context.Background()

	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}

	if existing != nil {
		if existing.Role == role {
			log.Printf("%s already has role %s", username, role)
			return nil
		}
		existing.Role = role
		if err := users.Update(ctx, existing); err != nil {
			return fmt.Errorf("promote user: %w", err)
		}
		log.Printf("promoted %s to %s", username, role)
		return nil
	}

	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return err
		}
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	log.Printf("created %s with role %s (id=%d)", username, role, user.ID)
	return nil
}
