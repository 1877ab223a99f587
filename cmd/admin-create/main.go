package main // seeds an admin account: admin-create -email owner@example.com -password ...

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/salon-booking/internal/config"
	"github.com/iliyamo/salon-booking/internal/database"
	"github.com/iliyamo/salon-booking/internal/repository"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 10 characters)")
	flag.Parse()
	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("email and password are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; using system environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := repository.NewAdminRepo(db).Create(ctx, *email, *password, cfg.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		log.Fatalf("admin %s already exists", *email)
	}
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin id=%d email=%s", id, *email)
}
