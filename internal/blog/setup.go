package blog

import (
	"log"

	"github.com/PrairieWatch/PW-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "blog"); err != nil {
		log.Fatal("Failed to ensure schema blog: ", err)
	}

	if err := db.DB.AutoMigrate(&Post{}, &Comment{}, &Like{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
