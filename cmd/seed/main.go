package main

import (
	"flag"
	"log"

	"github.com/PrairieWatch/PW-Backend/internal/auth"
	"github.com/PrairieWatch/PW-Backend/internal/blog"
	"github.com/PrairieWatch/PW-Backend/internal/dashboard"
	"github.com/PrairieWatch/PW-Backend/internal/db"
	"github.com/PrairieWatch/PW-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	dataDir := flag.String("data-dir", "data", "Path to data directory")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect()

	auth.Init()
	blog.Init()
	dashboard.Init()

	if err := seeds.SeedAll(*dataDir); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
