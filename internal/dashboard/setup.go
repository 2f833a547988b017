package dashboard

import (
	"log"

	"github.com/PrairieWatch/PW-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "dashboard"); err != nil {
		log.Fatal("Failed to ensure schema dashboard: ", err)
	}

	if err := db.DB.AutoMigrate(&Municipality{}, &Park{}, &Incident{}, &UploadedFile{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
