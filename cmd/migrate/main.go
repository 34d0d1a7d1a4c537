package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/clockwise-hr/timeclock-backend-go/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	migrator, err := migrate.New("file://internal/db/migrations", cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error initializing migrator:", err)
		os.Exit(1)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	switch direction {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Steps(-1)
	default:
		fmt.Println("Usage: migrate [up|down]")
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply")
			return
		}
		fmt.Println("Migration failed:", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}
