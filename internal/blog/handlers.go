package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/PrairieWatch/PW-Backend/internal/auth"
	"github.com/PrairieWatch/PW-Backend/internal/dashboard"
	"github.com/PrairieWatch/PW-Backend/internal/db"
	"github.com/PrairieWatch/PW-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type PostResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	DatePosted    time.Time `json:"date_posted"`
	AuthorID      string    `json:"author_id"`
	Author        string    `json:"author"`
	IncidentID    *uint     `json:"incident_id,omitempty"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
}

type CommentResponse struct {
	ID         uint      `json:"id"`
	PostID     uint      `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	DatePosted time.Time `json:"date_posted"`
}

func uintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	return uint(v), err
}

// usernamesFor maps user ids to usernames for response assembly. Unknown ids
// (removed accounts) just come back empty.
func usernamesFor(ids []string) map[string]string {
	names := map[string]string{}
	if len(ids) == 0 {
		return names
	}
	var users []auth.User
	if err := db.DB.Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return names
	}
	for _, u := range users {
		names[u.UserID] = u.Username
	}
	return names
}

type postIDCount struct {
	PostID uint
	Count  int64
}

func countsByPost(model interface{}) map[uint]int64 {
	counts := map[uint]int64{}
	var rows []postIDCount
	if err := db.DB.Model(model).Select("post_id, count(*) as count").Group("post_id").Find(&rows).Error; err != nil {
		return counts
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts
}

func buildPostResponses(posts []Post) []PostResponse {
	likeCounts := countsByPost(&Like{})
	commentCounts := countsByPost(&Comment{})

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	names := usernamesFor(ids)

	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, PostResponse{
			ID:            p.ID,
			Title:         p.Title,
			Content:       p.Content,
			DatePosted:    p.DatePosted,
			AuthorID:      p.AuthorID,
			Author:        names[p.AuthorID],
			IncidentID:    p.IncidentID,
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
		})
	}
	return responses
}

func PostsHandler(w http.ResponseWriter, r *http.Request) {
	var posts []Post
	if err := db.DB.Order("date_posted desc").Find(&posts).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildPostResponses(posts))
}

func PostDetailHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := uintParam(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var post Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	var comments []Comment
	if err := db.DB.Where("post_id = ?", postID).Order("date_posted asc").Find(&comments).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var likesCount int64
	db.DB.Model(&Like{}).Where("post_id = ?", postID).Count(&likesCount)

	ids := []string{post.AuthorID}
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	names := usernamesFor(ids)

	commentResponses := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		commentResponses = append(commentResponses, CommentResponse{
			ID:         c.ID,
			PostID:     c.PostID,
			AuthorID:   c.AuthorID,
			Author:     names[c.AuthorID],
			Content:    c.Content,
			DatePosted: c.DatePosted,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":          post.ID,
		"title":       post.Title,
		"content":     post.Content,
		"date_posted": post.DatePosted,
		"author_id":   post.AuthorID,
		"author":      names[post.AuthorID],
		"incident_id": post.IncidentID,
		"likes_count": likesCount,
		"comments":    commentResponses,
	})
}

func CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		IncidentID *uint  `json:"incident_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Title == "" || input.Content == "" {
		http.Error(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	if input.IncidentID != nil {
		var incident dashboard.Incident
		if err := db.DB.First(&incident, *input.IncidentID).Error; err != nil {
			http.Error(w, "Incident not found", http.StatusNotFound)
			return
		}
	}

	post := Post{
		Title:      input.Title,
		Content:    input.Content,
		AuthorID:   userID,
		IncidentID: input.IncidentID,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

func DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := uintParam(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var post Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if post.AuthorID != userID {
		http.Error(w, "You can only delete your own posts", http.StatusForbidden)
		return
	}

	db.DB.Where("post_id = ?", postID).Delete(&Comment{})
	db.DB.Where("post_id = ?", postID).Delete(&Like{})
	db.DB.Delete(&post)

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Post deleted")
}

func CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := uintParam(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var post Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Content == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	comment := Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  input.Content,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		http.Error(w, "Failed to create comment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(comment)
}

func DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	commentID, err := uintParam(r, "commentID")
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	var comment Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		http.Error(w, "Comment not found", http.StatusNotFound)
		return
	}
	if comment.AuthorID != userID {
		http.Error(w, "You can only delete your own comments", http.StatusForbidden)
		return
	}

	db.DB.Delete(&comment)

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Comment deleted")
}

func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var user auth.User
	if err := db.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var posts []Post
	if err := db.DB.Where("author_id = ?", userID).Order("date_posted desc").Find(&posts).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id":  user.UserID,
		"username": user.Username,
		"posts":    buildPostResponses(posts),
	})
}

// LikePostHandler toggles the caller's like on a post. The get-then-
// create/delete sequence is not transactional; like the upload dedup check,
// the race is accepted at this system's concurrency level.
func LikePostHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "POST request required"})
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		PostID uint `json:"post_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var post Post
	if err := db.DB.First(&post, input.PostID).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	liked := false
	var existing Like
	err := db.DB.Where("user_id = ? AND post_id = ?", userID, input.PostID).First(&existing).Error
	switch {
	case err == nil:
		db.DB.Delete(&existing)
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := Like{UserID: userID, PostID: input.PostID}
		if err := db.DB.Create(&like).Error; err != nil {
			http.Error(w, "Failed to like post", http.StatusInternalServerError)
			return
		}
		liked = true
	default:
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	var likesCount int64
	db.DB.Model(&Like{}).Where("post_id = ?", input.PostID).Count(&likesCount)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"liked":       liked,
		"likes_count": likesCount,
	})
}
