package query

import (
	"time"

	"github.com/google/uuid"
)

// Owner is the public shape of a user embedded in other results.
type Owner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

type ChannelProfile struct {
	ID                        uuid.UUID `json:"id"`
	Username                  string    `json:"username"`
	FullName                  string    `json:"fullName"`
	Email                     string    `json:"email"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
	CreatedAt                 time.Time `json:"createdAt"`
}

type VideoCard struct {
	ID          uuid.UUID `json:"id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	Owner       Owner     `json:"owner"`
}

type CommentView struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	VideoID    uuid.UUID `json:"video"`
	CreatedAt  time.Time `json:"createdAt"`
	LikesCount int64     `json:"likesCount"`
	IsLiked    bool      `json:"isLiked"`
	Owner      Owner     `json:"owner"`
}

type TweetView struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	LikesCount int64     `json:"likesCount"`
	IsLiked    bool      `json:"isLiked"`
	Owner      Owner     `json:"owner"`
}

type ChannelStats struct {
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
}

type PlaylistSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int64     `json:"totalVideos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PlaylistDetail struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	TotalVideos int64       `json:"totalVideos"`
	TotalViews  int64       `json:"totalViews"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Owner       Owner       `json:"owner"`
	Videos      []VideoCard `json:"videos"`
}

// ChannelSummary is a user listed as subscriber or subscribed channel.
type ChannelSummary struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	FullName         string    `json:"fullName"`
	Avatar           string    `json:"avatar"`
	SubscribersCount int64     `json:"subscribersCount"`
	IsSubscribed     bool      `json:"isSubscribed"`
	SubscribedAt     time.Time `json:"subscribedAt"`
}

// rows scanned from joins; owner columns are flattened with an owner_ prefix.

type OwnerColumns struct {
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

func (o OwnerColumns) owner() Owner {
	return Owner{ID: o.OwnerID, Username: o.OwnerUsername, FullName: o.OwnerFullName, Avatar: o.OwnerAvatar}
}

const ownerSelect = "users.id AS owner_id, users.username AS owner_username, users.full_name AS owner_full_name, users.avatar AS owner_avatar"

type videoRow struct {
	ID          uuid.UUID
	VideoFile   string
	Thumbnail   string
	Title       string
	Description string
	Duration    float64
	Views       int64
	IsPublished bool
	CreatedAt   time.Time
	OwnerColumns
}

const videoSelect = "videos.id, videos.video_file, videos.thumbnail, videos.title, videos.description, videos.duration, videos.views, videos.is_published, videos.created_at, " + ownerSelect

func (r videoRow) card() VideoCard {
	return VideoCard{
		ID:          r.ID,
		VideoFile:   r.VideoFile,
		Thumbnail:   r.Thumbnail,
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		Views:       r.Views,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt,
		Owner:       r.owner(),
	}
}

func videoCards(rows []videoRow) []VideoCard {
	out := make([]VideoCard, len(rows))
	for i, r := range rows {
		out[i] = r.card()
	}
	return out
}

type commentRow struct {
	ID         uuid.UUID
	Content    string
	VideoID    uuid.UUID
	CreatedAt  time.Time
	LikesCount int64
	IsLiked    bool
	OwnerColumns
}

func commentViews(rows []commentRow) []CommentView {
	out := make([]CommentView, len(rows))
	for i, r := range rows {
		out[i] = CommentView{
			ID: r.ID, Content: r.Content, VideoID: r.VideoID, CreatedAt: r.CreatedAt,
			LikesCount: r.LikesCount, IsLiked: r.IsLiked, Owner: r.owner(),
		}
	}
	return out
}

type tweetRow struct {
	ID         uuid.UUID
	Content    string
	CreatedAt  time.Time
	LikesCount int64
	IsLiked    bool
	OwnerColumns
}

func tweetViews(rows []tweetRow) []TweetView {
	out := make([]TweetView, len(rows))
	for i, r := range rows {
		out[i] = TweetView{
			ID: r.ID, Content: r.Content, CreatedAt: r.CreatedAt,
			LikesCount: r.LikesCount, IsLiked: r.IsLiked, Owner: r.owner(),
		}
	}
	return out
}
