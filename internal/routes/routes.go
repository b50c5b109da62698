package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/services"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Videos        *handlers.VideoHandler
	Comments      *handlers.CommentHandler
	Tweets        *handlers.TweetHandler
	Likes         *handlers.LikeHandler
	Playlists     *handlers.PlaylistHandler
	Subscriptions *handlers.SubscriptionHandler
	Dashboard     *handlers.DashboardHandler
	Health        *handlers.HealthHandler
}

type Options struct {
	Tokens         *services.TokenService
	UserService    *services.UserService
	Metrics        *middleware.Metrics
	LimiterStorage fiber.Storage
}

func Setup(app *fiber.App, h Handlers, opts Options) {
	api := app.Group("/api/v1")

	// General API rate limiter: 120 req/min per IP
	api.Use(middleware.RateLimit("api", 120, time.Minute, opts.LimiterStorage))

	api.Get("/health", h.Health.Check)
	if opts.Metrics != nil {
		api.Get("/metrics", opts.Metrics.Handler())
	}

	jwt := middleware.JWTProtected(opts.Tokens)
	me := middleware.CurrentUser(opts.UserService)

	// Users: register and login are public with a stricter limit
	// (10 req/min per IP); everything else goes through the auth gate per route.
	credentials := middleware.RateLimit("auth", 10, time.Minute, opts.LimiterStorage)
	users := api.Group("/users")
	users.Post("/register", credentials, h.Auth.Register)
	users.Post("/login", credentials, h.Auth.Login)
	users.Post("/logout", jwt, me, h.Auth.Logout)
	users.Post("/refresh-token", jwt, me, h.Auth.Refresh)
	users.Delete("/delete-account", jwt, me, h.Auth.DeleteAccount)
	users.Patch("/change-password", jwt, me, h.Users.ChangePassword)
	users.Get("/current-user", jwt, me, h.Users.CurrentUser)
	users.Patch("/update-account", jwt, me, h.Users.UpdateAccount)
	users.Patch("/change-avatar", jwt, me, h.Users.ChangeAvatar)
	users.Patch("/change-coverImage", jwt, me, h.Users.ChangeCoverImage)
	users.Get("/c/:username", jwt, me, h.Users.ChannelProfile)
	users.Get("/watch-history", jwt, me, h.Users.WatchHistory)
	users.Delete("/watch-history", jwt, me, h.Users.ClearWatchHistory)
	users.Post("/watch-history/:videoId", jwt, me, h.Users.AddToWatchHistory)
	users.Delete("/watch-history/:videoId", jwt, me, h.Users.RemoveFromWatchHistory)

	videos := api.Group("/videos", jwt, me)
	videos.Get("/search", h.Videos.Search)
	videos.Post("/add-video", h.Videos.Publish)
	videos.Get("/v/:videoId", h.Videos.Get)
	videos.Patch("/v/:videoId", h.Videos.Update)
	videos.Delete("/v/:videoId", h.Videos.Delete)
	videos.Patch("/t/:videoId", h.Videos.TogglePublish)

	comments := api.Group("/comments", jwt, me)
	comments.Get("/:videoId", h.Comments.List)
	comments.Post("/:videoId", h.Comments.Add)
	comments.Patch("/c/:commentId", h.Comments.Update)
	comments.Delete("/c/:commentId", h.Comments.Delete)

	tweets := api.Group("/tweets", jwt, me)
	tweets.Post("/", h.Tweets.Create)
	tweets.Get("/u/:userId", h.Tweets.ListByUser)
	tweets.Patch("/t/:tweetId", h.Tweets.Update)
	tweets.Delete("/t/:tweetId", h.Tweets.Delete)

	likes := api.Group("/likes", jwt, me)
	likes.Post("/video/:videoId", h.Likes.ToggleVideo)
	likes.Post("/comment/:commentId", h.Likes.ToggleComment)
	likes.Post("/tweet/:tweetId", h.Likes.ToggleTweet)
	likes.Get("/videos", h.Likes.LikedVideos)
	likes.Get("/comments", h.Likes.LikedComments)
	likes.Get("/tweets", h.Likes.LikedTweets)

	playlists := api.Group("/playlists", jwt, me)
	playlists.Post("/", h.Playlists.Create)
	playlists.Get("/user/:userId", h.Playlists.ListByUser)
	playlists.Get("/:playlistId", h.Playlists.Get)
	playlists.Patch("/:playlistId", h.Playlists.Update)
	playlists.Delete("/:playlistId", h.Playlists.Delete)
	playlists.Post("/:playlistId/videos/:videoId", h.Playlists.AddVideo)
	playlists.Delete("/:playlistId/videos/:videoId", h.Playlists.RemoveVideo)

	subscriptions := api.Group("/subscriptions", jwt, me)
	subscriptions.Post("/c/:channelId", h.Subscriptions.Toggle)
	subscriptions.Get("/subscribers/:channelId", h.Subscriptions.Subscribers)
	subscriptions.Get("/channels/:subscriberId", h.Subscriptions.SubscribedChannels)

	dashboard := api.Group("/dashboard", jwt, me)
	dashboard.Get("/stats", h.Dashboard.Stats)
	dashboard.Get("/videos/:channelId", h.Dashboard.Videos)
}
