package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/twitclone/internal/logs"
	"github.com/sujalbistaa/twitclone/internal/service"
	"github.com/sujalbistaa/twitclone/internal/ws"
)

type Options struct {
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxUploadBytes int64
	// StaticPrefix and StaticDir serve locally stored media; leave empty
	// when media lives elsewhere.
	StaticPrefix string
	StaticDir    string
}

// SetupRoutes configures all application routes and middleware. hub may be
// nil to disable the live feed. The returned limiter should have its
// Cleanup loop started by the caller.
func SetupRoutes(router *gin.Engine, svc *service.Service, hub *ws.Hub, logger *slog.Logger, opts Options) *IPRateLimiter {

	// --- Dependencies ---
	env := &Env{Svc: svc, MaxUploadBytes: opts.MaxUploadBytes}

	// --- Middleware ---
	router.Use(logs.Middleware(logger))
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	corsOrigin := opts.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{corsOrigin},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "api-key"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	limiter := NewIPRateLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)
	limited := RateLimitMiddleware(limiter)

	// --- API Routes ---
	api := router.Group("/api")
	{
		api.GET("/tweets", env.GetTweets)
		api.POST("/tweets", limited, env.CreateTweet)
		api.DELETE("/tweets/:id", env.DeleteTweet)
		api.POST("/tweets/:id/likes", env.LikeTweet)
		api.DELETE("/tweets/:id/likes", env.UnlikeTweet)

		api.POST("/medias", limited, env.UploadMedia)

		api.GET("/users/me", env.GetMe)
		api.GET("/users/:id", env.GetUser)
		api.POST("/users/:id/follow", env.FollowUser)
		api.DELETE("/users/:id/follow", env.UnfollowUser)
	}

	router.GET("/healthz", env.Health)

	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			hub.ServeWs(c.Writer, c.Request)
		})
	}

	if opts.StaticPrefix != "" && opts.StaticDir != "" {
		router.Static(opts.StaticPrefix, opts.StaticDir)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"result":        false,
			"error_type":    string(service.KindNotFound),
			"error_message": "route not found",
		})
	})

	return limiter
}
