package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/PrairieWatch/PW-Backend/internal/auth"
	"github.com/PrairieWatch/PW-Backend/internal/blog"
	"github.com/PrairieWatch/PW-Backend/internal/cache"
	"github.com/PrairieWatch/PW-Backend/internal/dashboard"
	"github.com/PrairieWatch/PW-Backend/internal/db"
	"github.com/PrairieWatch/PW-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	blog.Init()
	dashboard.Init()

	conf, err := dashboard.LoadConfig(os.Getenv("DASHBOARD_CONFIG"))
	if err != nil {
		log.Fatal("Failed to load dashboard config: ", err)
	}
	respCache := cache.New(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASS"))

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/blog", blog.SetupRoutes())
	r.Mount("/dashboard", dashboard.SetupRoutes(conf, respCache))

	// Kept at the root for compatibility with the original client.
	sessionFetcher := auth.SessionInfo{}
	r.With(middleware.SessionMiddleware(sessionFetcher)).
		Handle("/like_post/", http.HandlerFunc(blog.LikePostHandler))

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
