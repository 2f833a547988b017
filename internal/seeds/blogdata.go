package seeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PrairieWatch/PW-Backend/internal/auth"
	"github.com/PrairieWatch/PW-Backend/internal/blog"
	"github.com/PrairieWatch/PW-Backend/internal/dashboard"
	"github.com/PrairieWatch/PW-Backend/internal/db"
	"github.com/PrairieWatch/PW-Backend/internal/utils"
	"github.com/apex/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedBlogData(dataDir string) error {
	if err := loadUsers(filepath.Join(dataDir, "users.json")); err != nil {
		return err
	}
	if err := loadPosts(filepath.Join(dataDir, "posts.json")); err != nil {
		return err
	}
	return loadComments(filepath.Join(dataDir, "comments.json"))
}

func readJSONFile(path string, v interface{}) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("File not found: %s", path)
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// loadUsers creates accounts from users.json, skipping any username that
// already exists.
func loadUsers(path string) error {
	var usersData []struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	found, err := readJSONFile(path, &usersData)
	if err != nil || !found {
		return err
	}

	count := 0
	for _, u := range usersData {
		var existing auth.User
		if err := db.DB.First(&existing, "username = ?", u.Username).Error; err == nil {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %q: %w", u.Username, err)
		}

		user := auth.User{
			UserID:         utils.GenerateUUID(),
			Username:       u.Username,
			Email:          u.Email,
			HashedPassword: string(hashed),
		}
		if err := db.DB.Create(&user).Error; err != nil {
			return fmt.Errorf("create user %q: %w", u.Username, err)
		}
		count++
	}

	log.Infof("Loaded %d new users from %s", count, path)
	return nil
}

// loadPosts creates posts from posts.json, deduplicated on (title, author).
// A post referencing a missing author is skipped with a warning; a missing
// incident reference only drops the link, the post is still created.
func loadPosts(path string) error {
	var postsData []struct {
		Title          string `json:"title"`
		Content        string `json:"content"`
		AuthorUsername string `json:"author_username"`
		IncidentID     *uint  `json:"incident_id"`
	}
	found, err := readJSONFile(path, &postsData)
	if err != nil || !found {
		return err
	}

	count := 0
	for _, p := range postsData {
		var author auth.User
		if err := db.DB.First(&author, "username = ?", p.AuthorUsername).Error; err != nil {
			log.Warnf("User %q not found for post %q. Skipping.", p.AuthorUsername, p.Title)
			continue
		}

		incidentID := p.IncidentID
		if incidentID != nil {
			var incident dashboard.Incident
			if err := db.DB.First(&incident, *incidentID).Error; err != nil {
				log.Warnf("Incident with ID %d not found for post %q. Post will be created without an incident link.", *incidentID, p.Title)
				incidentID = nil
			}
		}

		var existing blog.Post
		err := db.DB.Where("title = ? AND author_id = ?", p.Title, author.UserID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		post := blog.Post{
			Title:      p.Title,
			Content:    p.Content,
			AuthorID:   author.UserID,
			IncidentID: incidentID,
		}
		if err := db.DB.Create(&post).Error; err != nil {
			return fmt.Errorf("create post %q: %w", p.Title, err)
		}
		count++
	}

	log.Infof("Loaded %d new posts from %s", count, path)
	return nil
}

// loadComments creates comments from comments.json, deduplicated on
// (content, author, post). Dangling author or post references skip the
// record with a warning.
func loadComments(path string) error {
	var commentsData []struct {
		Content        string `json:"content"`
		AuthorUsername string `json:"author_username"`
		PostTitle      string `json:"post_title"`
	}
	found, err := readJSONFile(path, &commentsData)
	if err != nil || !found {
		return err
	}

	count := 0
	for _, c := range commentsData {
		var author auth.User
		if err := db.DB.First(&author, "username = ?", c.AuthorUsername).Error; err != nil {
			log.Warnf("User %q not found for a comment. Skipping.", c.AuthorUsername)
			continue
		}

		var post blog.Post
		if err := db.DB.First(&post, "title = ?", c.PostTitle).Error; err != nil {
			log.Warnf("Post with title %q not found for a comment. Skipping.", c.PostTitle)
			continue
		}

		var existing blog.Comment
		err := db.DB.Where("content = ? AND author_id = ? AND post_id = ?", c.Content, author.UserID, post.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		comment := blog.Comment{
			PostID:   post.ID,
			AuthorID: author.UserID,
			Content:  c.Content,
		}
		if err := db.DB.Create(&comment).Error; err != nil {
			return fmt.Errorf("create comment by %q: %w", c.AuthorUsername, err)
		}
		count++
	}

	log.Infof("Loaded %d new comments from %s", count, path)
	return nil
}
