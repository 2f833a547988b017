package dashboard

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// JSONB wraps json.RawMessage with Scanner/Valuer for GORM jsonb columns.
// Geometry and properties blobs are stored opaquely; an empty value reads
// and writes as an empty object, never NULL.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported type: %T", value)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return json.RawMessage(j).MarshalJSON()
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return fmt.Errorf("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

type Municipality struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"index" json:"name"`
	Status         string `json:"status"` // city, town, rm; free text in the source datasets
	Population2021 int    `gorm:"default:0" json:"population_2021"`
	Geometry       JSONB  `gorm:"type:jsonb;not null;default:'{}'" json:"geometry"`
	Properties     JSONB  `gorm:"type:jsonb;not null;default:'{}'" json:"properties"`
}

type Park struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"index" json:"name"`
	Location   string `json:"location"`
	Management string `json:"management"`
	Owner      string `json:"owner"`
	ParkClass  string `json:"park_class"`
	URL        string `json:"url"`
	Geometry   JSONB  `gorm:"type:jsonb;not null;default:'{}'" json:"geometry"`
	Properties JSONB  `gorm:"type:jsonb;not null;default:'{}'" json:"properties"`
}

type Incident struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"index" json:"name"`
	IncidentType string     `json:"incident_type"` // wildfire or flood; not enforced at the schema level
	Status       string     `json:"status"`        // confirmed, suspected
	StartedAt    *time.Time `json:"started_at,omitempty"`
	Description  string     `json:"description"`
	Geometry     JSONB      `gorm:"type:jsonb;not null;default:'{}'" json:"geometry"`
	Properties   JSONB      `gorm:"type:jsonb;not null;default:'{}'" json:"properties"`

	// Weak reference: cleared, not cascaded, if the uploader account goes away.
	UploadedBy *string   `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type UploadedFile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	FilePath       string         `gorm:"not null" json:"file_path"`
	UploadedBy     string         `gorm:"not null" json:"uploaded_by"`
	UploadedAt     time.Time      `gorm:"autoCreateTime" json:"uploaded_at"`
	Processed      bool           `gorm:"default:false" json:"processed"`
	IncidentsAdded int            `gorm:"default:0" json:"incidents_added"`
	Warnings       pq.StringArray `gorm:"type:text[]" json:"warnings"`
}

func (Municipality) TableName() string {
	return "dashboard.municipalities"
}

func (Park) TableName() string {
	return "dashboard.parks"
}

func (Incident) TableName() string {
	return "dashboard.incidents"
}

func (UploadedFile) TableName() string {
	return "dashboard.uploaded_files"
}
