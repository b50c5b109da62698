package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/models"
	"go.opentelemetry.io/otel/attribute"
)

const (
	commentSelect = "comments.id, comments.content, comments.video_id, comments.created_at, "
	tweetSelect   = "tweets.id, tweets.content, tweets.created_at, "
)

// VideoComments lists comments on a video with their authors and reactions.
func (e *Engine) VideoComments(ctx context.Context, videoID, viewerID uuid.UUID, p Page, s Sort) (out List[CommentView], err error) {
	ctx, span := e.start(ctx, "VideoComments", attribute.String("video.id", videoID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("comments").
		Joins("JOIN users ON users.id = comments.owner_id").
		Where("comments.video_id = ?", videoID)

	sel := commentSelect +
		likesCountSelect("comment", "comments.id") + ", " +
		isLikedSelect("comment", "comments.id") + ", " +
		ownerSelect

	rows, total, err := list[commentRow](base, OrderBy(s, CommentSortFields, "comments.id"), p, sel, viewerID)
	if err != nil {
		return out, err
	}
	return newList(commentViews(rows), total, p), nil
}

func (e *Engine) LikedComments(ctx context.Context, userID uuid.UUID, p Page, s Sort) (out List[CommentView], err error) {
	ctx, span := e.start(ctx, "LikedComments", attribute.String("user.id", userID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("likes").
		Joins("JOIN comments ON comments.id = likes.target_id").
		Joins("JOIN users ON users.id = comments.owner_id").
		Where("likes.target_type = ? AND likes.liked_by_id = ?", models.TargetComment, userID)

	sel := commentSelect +
		likesCountSelect("comment", "comments.id") + ", " +
		isLikedSelect("comment", "comments.id") + ", " +
		ownerSelect

	rows, total, err := list[commentRow](base, OrderBy(s, LikeSortFields, "likes.id"), p, sel, userID)
	if err != nil {
		return out, err
	}
	return newList(commentViews(rows), total, p), nil
}

// UserTweets lists the tweets posted by ownerID.
func (e *Engine) UserTweets(ctx context.Context, ownerID, viewerID uuid.UUID, p Page, s Sort) (out List[TweetView], err error) {
	ctx, span := e.start(ctx, "UserTweets", attribute.String("user.id", ownerID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("tweets").
		Joins("JOIN users ON users.id = tweets.owner_id").
		Where("tweets.owner_id = ?", ownerID)

	sel := tweetSelect +
		likesCountSelect("tweet", "tweets.id") + ", " +
		isLikedSelect("tweet", "tweets.id") + ", " +
		ownerSelect

	rows, total, err := list[tweetRow](base, OrderBy(s, TweetSortFields, "tweets.id"), p, sel, viewerID)
	if err != nil {
		return out, err
	}
	return newList(tweetViews(rows), total, p), nil
}

func (e *Engine) LikedTweets(ctx context.Context, userID uuid.UUID, p Page, s Sort) (out List[TweetView], err error) {
	ctx, span := e.start(ctx, "LikedTweets", attribute.String("user.id", userID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("likes").
		Joins("JOIN tweets ON tweets.id = likes.target_id").
		Joins("JOIN users ON users.id = tweets.owner_id").
		Where("likes.target_type = ? AND likes.liked_by_id = ?", models.TargetTweet, userID)

	sel := tweetSelect +
		likesCountSelect("tweet", "tweets.id") + ", " +
		isLikedSelect("tweet", "tweets.id") + ", " +
		ownerSelect

	rows, total, err := list[tweetRow](base, OrderBy(s, LikeSortFields, "likes.id"), p, sel, userID)
	if err != nil {
		return out, err
	}
	return newList(tweetViews(rows), total, p), nil
}
