package blog

import (
	"net/http"

	"github.com/PrairieWatch/PW-Backend/internal/auth"
	"github.com/PrairieWatch/PW-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Get("/posts", PostsHandler)
		r.Post("/posts", CreatePostHandler)
		r.Get("/posts/{postID}", PostDetailHandler)
		r.Delete("/posts/{postID}", DeletePostHandler)
		r.Post("/posts/{postID}/comments", CreateCommentHandler)
		r.Delete("/comments/{commentID}", DeleteCommentHandler)
		r.Get("/profile/{userID}", ProfileHandler)
	})

	return r
}
