package blog

import "time"

type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `json:"content"`
	DatePosted time.Time `gorm:"autoCreateTime" json:"date_posted"`
	AuthorID   string    `gorm:"not null;index" json:"author_id"`

	// Optional link to a dashboard incident. Weak reference: cleared when the
	// incident goes away.
	IncidentID *uint `json:"incident_id,omitempty"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	AuthorID   string    `gorm:"not null;index" json:"author_id"`
	Content    string    `gorm:"not null" json:"content"`
	DatePosted time.Time `gorm:"autoCreateTime" json:"date_posted"`
}

type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index:uniq_user_post,unique" json:"user_id"`
	PostID    uint      `gorm:"not null;index:uniq_user_post,unique" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Post) TableName() string {
	return "blog.posts"
}

func (Comment) TableName() string {
	return "blog.comments"
}

func (Like) TableName() string {
	return "blog.likes"
}
