// Command seed fills a database with demo channels, videos and activity.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/database"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/services"
)

func main() {
	sqlitePath := flag.String("sqlite", "", "seed a sqlite file instead of the configured postgres database")
	users := flag.Int("users", 10, "number of channels to create")
	videosPerUser := flag.Int("videos", 3, "videos per channel")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	gofakeit.Seed(*seed)

	ctx := context.Background()
	db, store, err := open(ctx, cfg, *sqlitePath)
	if err != nil {
		slog.Error("seed setup failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	s := newSeeder(db, store)
	if err := s.run(ctx, *users, *videosPerUser); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete", "users", *users, "videos_per_user", *videosPerUser, "password", seedPassword)
}

func open(ctx context.Context, cfg *config.Config, sqlitePath string) (*gorm.DB, media.Store, error) {
	if sqlitePath != "" {
		db, err := gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, media.NewMemoryStore(), nil
	}

	if err := database.Connect(cfg); err != nil {
		return nil, nil, err
	}
	store, err := media.NewStore(ctx, cfg.Media)
	if err != nil {
		return nil, nil, err
	}
	return database.DB, store, nil
}

const seedPassword = "password123"

type seeder struct {
	auth          *services.AuthService
	videos        *services.VideoService
	comments      *services.CommentService
	tweets        *services.TweetService
	likes         *services.LikeService
	playlists     *services.PlaylistService
	subscriptions *services.SubscriptionService
	users         *services.UserService
}

func newSeeder(db *gorm.DB, store media.Store) *seeder {
	engine := query.New(db)
	publisher := events.Noop{}
	return &seeder{
		auth:          services.NewAuthService(db, nil, store, publisher),
		videos:        services.NewVideoService(db, engine, store, publisher),
		comments:      services.NewCommentService(db, engine),
		tweets:        services.NewTweetService(db, engine),
		likes:         services.NewLikeService(db, engine),
		playlists:     services.NewPlaylistService(db, engine),
		subscriptions: services.NewSubscriptionService(db, engine, publisher),
		users:         services.NewUserService(db, engine, store),
	}
}

func image(name string) *media.Upload {
	u := media.FromBytes(name, "image/jpeg", []byte(gofakeit.LoremIpsumSentence(8)))
	return &u
}

func (s *seeder) run(ctx context.Context, userCount, videosPerUser int) error {
	var (
		users  []*models.User
		videos []*models.Video
	)

	for i := 0; i < userCount; i++ {
		user, err := s.auth.Register(ctx, services.RegisterInput{
			Username:   fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:      fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			FullName:   gofakeit.Name(),
			Password:   seedPassword,
			Avatar:     image("avatar.jpg"),
			CoverImage: image("cover.jpg"),
		})
		if err != nil {
			return fmt.Errorf("register user %d: %w", i, err)
		}
		users = append(users, user)

		for j := 0; j < videosPerUser; j++ {
			file := media.FromBytes("video.mp4", "video/mp4", []byte(gofakeit.Paragraph(1, 3, 10, " ")))
			video, err := s.videos.Publish(ctx, user.ID, services.PublishVideoInput{
				Title:       gofakeit.Sentence(4),
				Description: gofakeit.Paragraph(1, 2, 12, " "),
				Duration:    gofakeit.Float64Range(10, 900),
				VideoFile:   &file,
				Thumbnail:   image("thumb.jpg"),
			})
			if err != nil {
				return fmt.Errorf("publish video: %w", err)
			}
			videos = append(videos, video)
		}

		if _, err := s.tweets.Create(ctx, user.ID, gofakeit.Sentence(12)); err != nil {
			return fmt.Errorf("create tweet: %w", err)
		}
	}

	for _, user := range users {
		if err := s.activity(ctx, user, users, videos); err != nil {
			return err
		}
	}
	return nil
}

// activity has user follow, watch, like, comment on and collect a random
// sample of the other channels' content.
func (s *seeder) activity(ctx context.Context, user *models.User, users []*models.User, videos []*models.Video) error {
	for _, other := range users {
		if other.ID == user.ID || !gofakeit.Bool() {
			continue
		}
		if _, err := s.subscriptions.Toggle(ctx, user.ID, other.ID); err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}
	}

	if len(videos) == 0 {
		return nil
	}
	playlist, err := s.playlists.Create(ctx, user.ID, services.PlaylistInput{
		Name:        gofakeit.HipsterWord() + " mix",
		Description: gofakeit.Sentence(6),
	})
	if err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}

	order := seq(len(videos))
	gofakeit.ShuffleInts(order)
	for _, idx := range order[:min(5, len(order))] {
		video := videos[idx]
		if err := s.users.AddToWatchHistory(ctx, user.ID, video.ID); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		if _, err := s.likes.ToggleVideoLike(ctx, user.ID, video.ID); err != nil {
			return fmt.Errorf("like: %w", err)
		}
		if _, err := s.comments.Add(ctx, video.ID, user.ID, gofakeit.Sentence(8)); err != nil {
			return fmt.Errorf("comment: %w", err)
		}
		if err := s.playlists.AddVideo(ctx, playlist.ID, video.ID, user.ID); err != nil {
			return fmt.Errorf("add to playlist: %w", err)
		}
	}
	return nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
