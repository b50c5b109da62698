package query

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/database"
	"github.com/vidtube/backend/internal/models"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	engine *Engine
	spans  *tracetest.SpanRecorder
	base   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	db := database.OpenTest(t)
	return &fixture{
		db:     db,
		engine: New(db, WithTracerProvider(tp)),
		spans:  spans,
		base:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@x.com", FullName: name, Avatar: name + ".png", Password: "hash"}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) video(t *testing.T, owner models.User, title string, views int64, published bool, offset int) models.Video {
	t.Helper()
	v := models.Video{
		Title: title, Description: "about " + title, VideoFile: "v", Thumbnail: "t",
		Views: views, OwnerID: owner.ID,
	}
	v.CreatedAt = f.base.Add(time.Duration(offset) * time.Minute)
	require.NoError(t, f.db.Create(&v).Error)
	if !published {
		require.NoError(t, f.db.Model(&v).Update("is_published", false).Error)
	}
	return v
}

func (f *fixture) like(t *testing.T, by models.User, target models.LikeTarget) {
	t.Helper()
	require.NoError(t, f.db.Create(models.NewLike(by.ID, target)).Error)
}

func (f *fixture) subscribe(t *testing.T, subscriber, channel models.User) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Subscription{SubscriberID: subscriber.ID, ChannelID: channel.ID}).Error)
}

func ids(cards []VideoCard) []uuid.UUID {
	out := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestNewPageDefaultsAndCaps(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: 10}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 3, Limit: 100}, NewPage(3, 1000))
	assert.Equal(t, 20, NewPage(3, 10).Offset())

	far := NewPage(math.MaxInt/10, 100)
	assert.Positive(t, far.Offset())
	assert.Equal(t, math.MaxInt/100, far.Number)
}

func TestSearchVideosPageFarPastEndIsEmpty(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	for i := 0; i < 3; i++ {
		f.video(t, alice, "v", 0, true, i)
	}

	got, err := f.engine.SearchVideos(context.Background(), VideoFilter{ViewerID: alice.ID}, NewPage(92233720368547760, 100), Sort{})
	require.NoError(t, err)
	assert.Empty(t, got.Docs)
	assert.Equal(t, int64(3), got.TotalDocs)
	assert.False(t, got.HasNextPage)
}

func TestNewSortWhitelist(t *testing.T) {
	s := NewSort("password", "DESC", VideoSortFields)
	assert.Equal(t, "createdAt", s.Field)
	assert.True(t, s.Desc)
	assert.False(t, NewSort("views", "", VideoSortFields).Desc)
}

func TestContainsFoldEscapesWildcards(t *testing.T) {
	cond, arg := ContainsFold("videos.title", "100%_Go")
	assert.Contains(t, cond, "LOWER(videos.title) LIKE ?")
	assert.Equal(t, `%100\%\_go%`, arg)
}

func TestSearchVideosPaginatesAscendingByDefault(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	for i := 0; i < 5; i++ {
		f.video(t, alice, "Go tutorial", int64(i), true, i)
	}

	first, err := f.engine.SearchVideos(context.Background(), VideoFilter{Query: "go"}, NewPage(1, 2), NewSort("", "", VideoSortFields))
	require.NoError(t, err)
	second, err := f.engine.SearchVideos(context.Background(), VideoFilter{Query: "GO"}, NewPage(2, 2), NewSort("", "", VideoSortFields))
	require.NoError(t, err)

	require.Len(t, first.Docs, 2)
	require.Len(t, second.Docs, 2)
	assert.NotContains(t, ids(second.Docs), first.Docs[0].ID)
	assert.NotContains(t, ids(second.Docs), first.Docs[1].ID)
	assert.True(t, first.Docs[0].CreatedAt.Before(first.Docs[1].CreatedAt))
	assert.Equal(t, int64(5), first.TotalDocs)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.HasNextPage)
	assert.Equal(t, "alice", first.Docs[0].Owner.Username)

	desc, err := f.engine.SearchVideos(context.Background(), VideoFilter{}, NewPage(1, 1), NewSort("views", "desc", VideoSortFields))
	require.NoError(t, err)
	assert.Equal(t, int64(4), desc.Docs[0].Views)
}

func TestSearchVideosHidesOthersUnpublished(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	f.video(t, alice, "draft", 0, false, 0)
	f.video(t, alice, "public", 0, true, 1)

	asBob, err := f.engine.SearchVideos(context.Background(), VideoFilter{ViewerID: bob.ID}, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	assert.Len(t, asBob.Docs, 1)

	asAlice, err := f.engine.SearchVideos(context.Background(), VideoFilter{ViewerID: alice.ID, OwnerID: alice.ID}, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	assert.Len(t, asAlice.Docs, 2)
}

func TestSearchVideosEmptyIsNotAnError(t *testing.T) {
	f := newFixture(t)

	got, err := f.engine.SearchVideos(context.Background(), VideoFilter{Query: "nothing"}, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	assert.NotNil(t, got.Docs)
	assert.Empty(t, got.Docs)
	assert.Zero(t, got.TotalPages)
}

func TestChannelProfile(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	f.subscribe(t, bob, alice)
	f.subscribe(t, carol, alice)
	f.subscribe(t, alice, carol)

	p, err := f.engine.ChannelProfile(context.Background(), " ALICE ", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.ID)
	assert.Equal(t, int64(2), p.SubscribersCount)
	assert.Equal(t, int64(1), p.ChannelsSubscribedToCount)
	assert.True(t, p.IsSubscribed)

	p, err = f.engine.ChannelProfile(context.Background(), "alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, p.IsSubscribed)

	_, err = f.engine.ChannelProfile(context.Background(), "nobody", bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWatchHistoryKeepsInsertionOrder(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	v1 := f.video(t, alice, "one", 0, true, 0)
	v2 := f.video(t, alice, "two", 0, true, 1)
	v3 := f.video(t, alice, "three", 0, true, 2)

	for i, v := range []models.Video{v3, v1, v2} {
		require.NoError(t, f.db.Create(&models.WatchHistoryEntry{UserID: bob.ID, VideoID: v.ID, Position: int64(i)}).Error)
	}

	got, err := f.engine.WatchHistory(context.Background(), bob.ID, NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{v3.ID, v1.ID, v2.ID}, ids(got.Docs))
	assert.Equal(t, "alice", got.Docs[0].Owner.Username)
}

func TestVideoFeedsHideOthersUnpublished(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	draft := f.video(t, alice, "draft", 0, false, 0)
	public := f.video(t, alice, "public", 0, true, 1)
	own := f.video(t, bob, "own draft", 0, false, 2)

	for i, v := range []models.Video{draft, public, own} {
		f.like(t, bob, models.VideoTarget(v.ID))
		require.NoError(t, f.db.Create(&models.WatchHistoryEntry{UserID: bob.ID, VideoID: v.ID, Position: int64(i)}).Error)
	}

	liked, err := f.engine.LikedVideos(context.Background(), bob.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{public.ID, own.ID}, ids(liked.Docs))
	assert.Equal(t, int64(2), liked.TotalDocs)

	history, err := f.engine.WatchHistory(context.Background(), bob.ID, NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{public.ID, own.ID}, ids(history.Docs))
}

func TestLikedFeedsPromoteTargets(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	v := f.video(t, alice, "liked", 7, true, 0)
	f.video(t, alice, "ignored", 0, true, 1)
	c := models.Comment{Content: "nice", VideoID: v.ID, OwnerID: alice.ID}
	require.NoError(t, f.db.Create(&c).Error)
	tw := models.Tweet{Content: "hello", OwnerID: alice.ID}
	require.NoError(t, f.db.Create(&tw).Error)

	f.like(t, bob, models.VideoTarget(v.ID))
	f.like(t, bob, models.CommentTarget(c.ID))
	f.like(t, bob, models.TweetTarget(tw.ID))
	f.like(t, alice, models.TweetTarget(tw.ID))

	videos, err := f.engine.LikedVideos(context.Background(), bob.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, videos.Docs, 1)
	assert.Equal(t, v.ID, videos.Docs[0].ID)
	assert.Equal(t, int64(7), videos.Docs[0].Views)

	comments, err := f.engine.LikedComments(context.Background(), bob.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, comments.Docs, 1)
	assert.Equal(t, "nice", comments.Docs[0].Content)
	assert.True(t, comments.Docs[0].IsLiked)

	tweets, err := f.engine.LikedTweets(context.Background(), bob.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, tweets.Docs, 1)
	assert.Equal(t, int64(2), tweets.Docs[0].LikesCount)
	assert.Equal(t, "alice", tweets.Docs[0].Owner.Username)
}

func TestChannelStats(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	v1 := f.video(t, alice, "a", 10, true, 0)
	f.video(t, alice, "b", 5, false, 1)
	f.subscribe(t, bob, alice)
	f.like(t, bob, models.VideoTarget(v1.ID))
	f.like(t, alice, models.VideoTarget(v1.ID))
	f.like(t, bob, models.TweetTarget(v1.ID))

	stats, err := f.engine.ChannelStats(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{TotalSubscribers: 1, TotalVideos: 2, TotalViews: 15, TotalLikes: 2}, stats)
}

func TestChannelStatsEmptyChannelIsZero(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")

	stats, err := f.engine.ChannelStats(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{}, stats)
}

func TestSubscribersAndChannels(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")
	f.subscribe(t, bob, alice)
	f.subscribe(t, carol, alice)
	f.subscribe(t, alice, bob)

	subs, err := f.engine.Subscribers(context.Background(), alice.ID, alice.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, subs.Docs, 2)
	byName := map[string]ChannelSummary{}
	for _, s := range subs.Docs {
		byName[s.Username] = s
	}
	assert.True(t, byName["bob"].IsSubscribed)
	assert.False(t, byName["carol"].IsSubscribed)
	assert.Equal(t, int64(1), byName["bob"].SubscribersCount)

	channels, err := f.engine.SubscribedChannels(context.Background(), bob.ID, bob.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, channels.Docs, 1)
	assert.Equal(t, alice.ID, channels.Docs[0].ID)
	assert.Equal(t, int64(2), channels.Docs[0].SubscribersCount)
}

func TestPlaylistByID(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	v1 := f.video(t, bob, "one", 3, true, 0)
	v2 := f.video(t, bob, "two", 4, true, 1)
	draft := f.video(t, bob, "draft", 100, false, 2)

	pl := models.Playlist{Name: "Mix", OwnerID: alice.ID}
	require.NoError(t, f.db.Create(&pl).Error)
	for i, v := range []models.Video{v2, draft, v1} {
		require.NoError(t, f.db.Create(&models.PlaylistVideo{PlaylistID: pl.ID, VideoID: v.ID, Position: int64(i)}).Error)
	}

	got, err := f.engine.PlaylistByID(context.Background(), pl.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "mix", got.Name)
	assert.Equal(t, "alice", got.Owner.Username)
	assert.Equal(t, []uuid.UUID{v2.ID, v1.ID}, ids(got.Videos))
	assert.Equal(t, int64(2), got.TotalVideos)
	assert.Equal(t, int64(7), got.TotalViews)

	summaries, err := f.engine.UserPlaylists(context.Background(), alice.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, summaries.Docs, 1)
	assert.Equal(t, int64(3), summaries.Docs[0].TotalVideos)

	_, err = f.engine.PlaylistByID(context.Background(), uuid.New(), alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVideoCommentsAndTweets(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	v := f.video(t, alice, "v", 0, true, 0)
	c := models.Comment{Content: "first", VideoID: v.ID, OwnerID: bob.ID}
	require.NoError(t, f.db.Create(&c).Error)
	f.like(t, alice, models.CommentTarget(c.ID))
	require.NoError(t, f.db.Create(&models.Tweet{Content: "hi", OwnerID: alice.ID}).Error)

	comments, err := f.engine.VideoComments(context.Background(), v.ID, alice.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, comments.Docs, 1)
	assert.Equal(t, "bob", comments.Docs[0].Owner.Username)
	assert.Equal(t, int64(1), comments.Docs[0].LikesCount)
	assert.True(t, comments.Docs[0].IsLiked)

	tweets, err := f.engine.UserTweets(context.Background(), alice.ID, bob.ID, NewPage(1, 10), Sort{})
	require.NoError(t, err)
	require.Len(t, tweets.Docs, 1)
	assert.False(t, tweets.Docs[0].IsLiked)
}

func TestEngineRecordsSpans(t *testing.T) {
	f := newFixture(t)
	_, _ = f.engine.ChannelProfile(context.Background(), "ghost", uuid.Nil)

	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "query.ChannelProfile", ended[0].Name())
	assert.Len(t, ended[0].Events(), 1)
}
