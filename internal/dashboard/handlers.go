package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PrairieWatch/PW-Backend/internal/cache"
	"github.com/PrairieWatch/PW-Backend/internal/db"
	"github.com/PrairieWatch/PW-Backend/internal/utils"
	"github.com/apex/log"
	"github.com/lib/pq"
	"github.com/paulmach/orb/geojson"
)

func pqArray(ss []string) pq.StringArray {
	if ss == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(ss)
}

// Set once by SetupRoutes; handlers never read config from the environment.
var (
	conf      Config
	respCache *cache.Client
)

var geojsonCacheKeys = []string{
	"dashboard:geojson:all",
	"dashboard:geojson:municipalities",
	"dashboard:geojson:incidents",
	"dashboard:geojson:parks",
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func boolParam(q url.Values, name string, def bool) bool {
	v := q.Get(name)
	if v == "" {
		return def
	}
	return v == "true"
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// DashboardHandler returns the map view's context: counts per layer plus the
// echoed filter state.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	muniFilters := MunicipalityFilters{
		City: boolParam(q, "statusCity", true),
		Town: boolParam(q, "statusTown", true),
		RM:   boolParam(q, "statusRM", true),
	}

	var err error
	muniFilters.PopMin, err = intParam(q, "popMin", conf.Filters.PopMin)
	if err != nil {
		http.Error(w, "Invalid popMin", http.StatusBadRequest)
		return
	}
	muniFilters.PopMax, err = intParam(q, "popMax", conf.Filters.PopMax)
	if err != nil {
		http.Error(w, "Invalid popMax", http.StatusBadRequest)
		return
	}

	incidentFilters := IncidentFilters{
		Wildfires: boolParam(q, "showWildfires", true),
		Floods:    boolParam(q, "showFloods", true),
		Confirmed: boolParam(q, "statusConfirmed", true),
		Suspected: boolParam(q, "statusSuspected", true),
	}
	showParks := boolParam(q, "showParks", true)

	municipalities, err := FilterMunicipalities(db.DB, muniFilters)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	incidents, err := FilterIncidents(db.DB, incidentFilters)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	parks, err := ListParks(db.DB, showParks)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	totalPopulation := 0
	for _, m := range municipalities {
		totalPopulation += m.Population2021
	}
	wildfireCount, floodCount := 0, 0
	for _, i := range incidents {
		switch i.IncidentType {
		case "wildfire":
			wildfireCount++
		case "flood":
			floodCount++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"municipality_count": len(municipalities),
		"total_population":   totalPopulation,
		"wildfire_count":     wildfireCount,
		"flood_count":        floodCount,
		"park_count":         len(parks),
		"filters": map[string]interface{}{
			"status": map[string]bool{
				"city": muniFilters.City,
				"town": muniFilters.Town,
				"rm":   muniFilters.RM,
			},
			"pop_min": muniFilters.PopMin,
			"pop_max": muniFilters.PopMax,
			"incidents": map[string]bool{
				"wildfires": incidentFilters.Wildfires,
				"floods":    incidentFilters.Floods,
				"confirmed": incidentFilters.Confirmed,
				"suspected": incidentFilters.Suspected,
			},
			"show_parks": showParks,
		},
	})
}

// GeoJSONHandler serves the three map layers as FeatureCollections.
// Unrequested layers are present but empty so the client shape is stable.
func GeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("type")
	if dataType == "" {
		dataType = "all"
	}

	cacheKey := "dashboard:geojson:" + dataType
	if payload, ok := respCache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	response := map[string]GeoFeatureCollection{
		"municipalities": NewGeoFeatureCollection(),
		"incidents":      NewGeoFeatureCollection(),
		"parks":          NewGeoFeatureCollection(),
	}

	if dataType == "all" || dataType == "municipalities" {
		var munis []Municipality
		if err := db.DB.Find(&munis).Error; err != nil {
			http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		fc := response["municipalities"]
		for _, m := range munis {
			fc.Append(m.Feature())
		}
		response["municipalities"] = fc
	}

	if dataType == "all" || dataType == "incidents" {
		var incidents []Incident
		if err := db.DB.Find(&incidents).Error; err != nil {
			http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		fc := response["incidents"]
		for _, i := range incidents {
			fc.Append(i.Feature())
		}
		response["incidents"] = fc
	}

	if dataType == "all" || dataType == "parks" {
		var parks []Park
		if err := db.DB.Find(&parks).Error; err != nil {
			http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		fc := response["parks"]
		for _, p := range parks {
			fc.Append(p.Feature())
		}
		response["parks"] = fc
	}

	payload, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	respCache.Set(r.Context(), cacheKey, payload, 5*time.Minute)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func SearchHandler(w http.ResponseWriter, r *http.Request) {
	results, err := SearchAll(db.DB, r.URL.Query().Get("q"), conf.Search.Limit)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// UploadHandler accepts a multipart GeoJSON file and runs the ingestion
// pipeline over it. Extension and size are validated before any of the
// contents are parsed.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Bound the whole request body; the per-file limit is checked below.
	r.Body = http.MaxBytesReader(w, r.Body, conf.Upload.MaxBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "No file provided",
		})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !conf.extAllowed(ext) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Only JSON and GeoJSON files are allowed.",
		})
		return
	}
	if header.Size > conf.Upload.MaxBytes {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": fmt.Sprintf("File size must be under %dMB.", conf.Upload.MaxBytes>>20),
		})
		return
	}

	if err := os.MkdirAll(conf.Upload.Dir, 0o755); err != nil {
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	storedPath := filepath.Join(conf.Upload.Dir,
		fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(header.Filename)))
	dst, err := os.Create(storedPath)
	if err != nil {
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	dst.Close()

	upload := UploadedFile{
		FilePath:   storedPath,
		UploadedBy: userID,
	}
	if err := db.DB.Create(&upload).Error; err != nil {
		http.Error(w, "Failed to record upload", http.StatusInternalServerError)
		return
	}

	src, err := os.Open(storedPath)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}
	defer src.Close()

	result, err := ProcessFeatureCollection(db.DB, src, &userID)
	if err != nil {
		log.WithError(err).WithField("upload_id", upload.ID).Warn("geojson processing failed")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Error processing file: " + err.Error(),
		})
		return
	}

	for _, warning := range result.Warnings {
		log.WithField("upload_id", upload.ID).Warn(warning)
	}
	db.DB.Model(&upload).Updates(map[string]interface{}{
		"processed":       true,
		"incidents_added": result.Added,
		"warnings":        pqArray(result.Warnings),
	})

	respCache.Invalidate(r.Context(), geojsonCacheKeys...)

	var total int64
	db.DB.Model(&Incident{}).Count(&total)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"added":      result.Added,
		"duplicates": result.Duplicates,
		"total":      total,
	})
}

// ReportHandler creates a single incident through the user-report
// normalization path.
func ReportHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name        string          `json:"name"`
		Type        string          `json:"type"`
		Status      string          `json:"status"`
		Description string          `json:"description"`
		StartedAt   string          `json:"started_at"`
		Geometry    json.RawMessage `json:"geometry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Name == "" || input.Type == "" {
		http.Error(w, "Name and type are required", http.StatusBadRequest)
		return
	}

	props := geojson.Properties{
		"name":        input.Name,
		"type":        input.Type,
		"description": input.Description,
	}
	if input.Status != "" {
		props["status"] = input.Status
	}
	if input.StartedAt != "" {
		props["started_at"] = input.StartedAt
	}

	inc := NormalizeReportedIncident(Feature{
		Type:       "Feature",
		Geometry:   input.Geometry,
		Properties: props,
	}, &userID)

	dup, err := incidentExists(db.DB, inc.Name, inc.IncidentType)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "An incident with the same name and type already exists.",
		})
		return
	}

	if err := db.DB.Create(&inc).Error; err != nil {
		http.Error(w, "Failed to create incident", http.StatusInternalServerError)
		return
	}

	respCache.Invalidate(r.Context(), geojsonCacheKeys...)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      inc.ID,
	})
}
