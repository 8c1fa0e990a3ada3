package models

import (
	"time"
)

// User is an account identified by an opaque API key.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	APIKey    string    `gorm:"not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Post is a tweet. CountLikes always equals the number of Like rows that
// reference it; only the reaction service touches it.
type Post struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	Author     User      `gorm:"foreignKey:UserID" json:"author"`
	Content    string    `gorm:"not null" json:"content"`
	CountLikes int       `gorm:"not null;default:0;check:chk_tweets_count_likes,count_likes >= 0" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"-"`
	Media      []Media   `gorm:"foreignKey:PostID" json:"-"`
	Likes      []Like    `gorm:"foreignKey:PostID" json:"-"`
}

func (Post) TableName() string {
	return "tweets"
}

// Media is an uploaded file. PostID stays nil until a post references it.
type Media struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	PostID    *uint     `gorm:"index" json:"-"`
	Position  int       `gorm:"not null;default:0" json:"-"`
	ObjectKey string    `gorm:"not null" json:"-"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `json:"-"`
}

func (Media) TableName() string {
	return "media"
}

// Like is a (user, post) membership; the pair is unique.
type Like struct {
	ID        uint `gorm:"primarykey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_likes_user_post"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_likes_user_post;index"`
	User      User `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
}

// Follow is one directed edge follower -> followee. Both the followers and
// the following views of a user are read from this single table.
type Follow struct {
	ID         uint `gorm:"primarykey"`
	FollowerID uint `gorm:"not null;uniqueIndex:idx_follows_pair;check:chk_follows_not_self,follower_id <> followee_id"`
	FolloweeID uint `gorm:"not null;uniqueIndex:idx_follows_pair;index"`
	Follower   User `gorm:"foreignKey:FollowerID"`
	Followee   User `gorm:"foreignKey:FolloweeID"`
	CreatedAt  time.Time
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &Post{}, &Media{}, &Like{}, &Follow{}}
}
