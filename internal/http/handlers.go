package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/twitclone/internal/models"
	"github.com/sujalbistaa/twitclone/internal/service"
)

const apiKeyHeader = "api-key"

// --- Structs for request binding ---
type CreateTweetInput struct {
	TweetData     string `json:"tweet_data"`
	TweetMediaIDs []uint `json:"tweet_media_ids"`
}

// --- Response views ---
type userRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type likeRef struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
}

type tweetView struct {
	ID          uint      `json:"id"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	Author      userRef   `json:"author"`
	Likes       []likeRef `json:"likes"`
}

type userView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Followers []userRef `json:"followers"`
	Following []userRef `json:"following"`
}

// --- Handlers ---
type Env struct {
	Svc            *service.Service
	MaxUploadBytes int64
}

func (e *Env) GetTweets(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := e.Svc.Authenticate(ctx, c.GetHeader(apiKeyHeader)); err != nil {
		fail(c, err)
		return
	}

	posts, err := e.Svc.ListPosts(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	tweets := make([]tweetView, 0, len(posts))
	for _, p := range posts {
		tweets = append(tweets, newTweetView(p))
	}
	respond(c, http.StatusOK, gin.H{"tweets": tweets})
}

// CreateTweet and UploadMedia check the api-key before touching the body, so
// a bad key always wins over a malformed payload.
func (e *Env) CreateTweet(c *gin.Context) {
	if _, err := e.Svc.Authenticate(c.Request.Context(), c.GetHeader(apiKeyHeader)); err != nil {
		fail(c, err)
		return
	}

	var input CreateTweetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, badRequest("invalid input: "+err.Error()))
		return
	}

	id, err := e.Svc.CreatePost(c.Request.Context(), c.GetHeader(apiKeyHeader), input.TweetData, input.TweetMediaIDs)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"tweet_id": id})
}

func (e *Env) DeleteTweet(c *gin.Context) {
	id, ok := pathID(c, "tweet")
	if !ok {
		return
	}
	if err := e.Svc.DeletePost(c.Request.Context(), c.GetHeader(apiKeyHeader), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (e *Env) LikeTweet(c *gin.Context) {
	id, ok := pathID(c, "tweet")
	if !ok {
		return
	}
	if err := e.Svc.Like(c.Request.Context(), c.GetHeader(apiKeyHeader), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (e *Env) UnlikeTweet(c *gin.Context) {
	id, ok := pathID(c, "tweet")
	if !ok {
		return
	}
	if err := e.Svc.Unlike(c.Request.Context(), c.GetHeader(apiKeyHeader), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (e *Env) UploadMedia(c *gin.Context) {
	if _, err := e.Svc.Authenticate(c.Request.Context(), c.GetHeader(apiKeyHeader)); err != nil {
		fail(c, err)
		return
	}
	if e.MaxUploadBytes > 0 {
		// Leave room for the multipart framing; the service enforces the
		// exact file limit.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, e.MaxUploadBytes+1<<20)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, badRequest("multipart field 'file' is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, badRequest("cannot read uploaded file"))
		return
	}
	defer f.Close()

	id, err := e.Svc.UploadMedia(c.Request.Context(), c.GetHeader(apiKeyHeader), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"media_id": id})
}

func (e *Env) FollowUser(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}
	if err := e.Svc.Follow(c.Request.Context(), c.GetHeader(apiKeyHeader), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (e *Env) UnfollowUser(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}
	if err := e.Svc.Unfollow(c.Request.Context(), c.GetHeader(apiKeyHeader), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (e *Env) GetMe(c *gin.Context) {
	profile, err := e.Svc.Me(c.Request.Context(), c.GetHeader(apiKeyHeader))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": newUserView(profile)})
}

func (e *Env) GetUser(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}
	profile, err := e.Svc.UserProfile(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": newUserView(profile)})
}

func (e *Env) Health(c *gin.Context) {
	if err := e.Svc.Ping(); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func pathID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		fail(c, badRequest("invalid "+what+" id"))
		return 0, false
	}
	return uint(id), true
}

func newTweetView(p models.Post) tweetView {
	v := tweetView{
		ID:          p.ID,
		Content:     p.Content,
		Attachments: make([]string, 0, len(p.Media)),
		Author:      userRef{ID: p.Author.ID, Name: p.Author.Name},
		Likes:       make([]likeRef, 0, len(p.Likes)),
	}
	for _, m := range p.Media {
		v.Attachments = append(v.Attachments, m.URL)
	}
	for _, l := range p.Likes {
		v.Likes = append(v.Likes, likeRef{UserID: l.UserID, Name: l.User.Name})
	}
	return v
}

func newUserView(p *service.Profile) userView {
	return userView{
		ID:        p.User.ID,
		Name:      p.User.Name,
		Followers: userRefs(p.Followers),
		Following: userRefs(p.Following),
	}
}

func userRefs(users []models.User) []userRef {
	out := make([]userRef, 0, len(users))
	for _, u := range users {
		out = append(out, userRef{ID: u.ID, Name: u.Name})
	}
	return out
}
