package dto

// PublishVideo and UpdateVideo are multipart: these fields plus the
// videoFile and thumbnail files.
type PublishVideoRequest struct {
	Title       string  `form:"title"`
	Description string  `form:"description"`
	Duration    float64 `form:"duration"`
}

type UpdateVideoRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

type ContentRequest struct {
	Content string `json:"content"`
}

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LikedResponse struct {
	IsLiked bool `json:"isLiked"`
}

type SubscribedResponse struct {
	Subscribed bool `json:"subscribed"`
}
