// cmd/createuser/main.go registers a user directly against the database.
// Usage: go run ./cmd/createuser -email cook@example.com -username cook -first Anna -last Petrova -password <password>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/foodgram-backend/internal/pkg/logger"
)

func main() {
	var req user.RegisterRequest
	flag.StringVar(&req.Email, "email", "", "Email address")
	flag.StringVar(&req.Username, "username", "", "Username")
	flag.StringVar(&req.FirstName, "first", "", "First name")
	flag.StringVar(&req.LastName, "last", "", "Last name")
	flag.StringVar(&req.Password, "password", "", "Password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.NewMigration(db.GetDB(), log).RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	profile, err := user.NewService(db.GetDB(), cfg, log).Register(ctx, &req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Created user %s (id %d)\n", profile.Username, profile.ID)
}
