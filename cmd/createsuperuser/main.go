package main

import (
	"context"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/devgyurak/login-is-boring/internal/account"
	"github.com/devgyurak/login-is-boring/internal/database"
	"github.com/devgyurak/login-is-boring/internal/server"
)

func main() {
	email := flag.String("email", "", "superuser email (required)")
	username := flag.String("username", "", "superuser username (required)")
	password := flag.String("password", "", "superuser password (required)")
	nickname := flag.String("nickname", "", "superuser nickname (optional)")
	flag.Parse()

	if *email == "" || *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if os.Getenv("APP_ENV") == "" {
		os.Setenv("APP_ENV", "development")
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := server.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	manager, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	req := account.SignUpRequest{
		Email:    *email,
		Username: *username,
		Password: *password,
	}
	if *nickname != "" {
		req.Nickname = nickname
	}

	// No dispatcher: superusers are created active, no mail goes out.
	service := account.NewService(logger, account.NewRepository(manager.DB()), nil)

	acc, err := service.CreateSuperuser(context.Background(), req)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	log.Printf("Superuser created: id=%d email=%s", acc.ID, acc.Email)
}
