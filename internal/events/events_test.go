package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failing struct{ Noop }

func (failing) Publish(context.Context, Event) error { return errors.New("broker down") }

func TestEmitSwallowsErrors(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(context.Background(), failing{}, New(VideoDeleted, "a", "b"))
		Emit(context.Background(), nil, New(VideoDeleted, "a", "b"))
	})
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	Emit(context.Background(), r, New(SubscriptionCreated, "u1", "c1"))
	Emit(context.Background(), r, New(SubscriptionDeleted, "u1", "c1"))
	assert.Equal(t, []string{SubscriptionCreated, SubscriptionDeleted}, r.Types())
}

func TestEncodeKeysBySubject(t *testing.T) {
	msg, err := encode(New(VideoPublished, "owner", "video-1"))
	require.NoError(t, err)

	assert.Equal(t, "video-1", string(msg.Key))
	assert.Contains(t, string(msg.Value), `"type":"video.published"`)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "video.published", string(msg.Headers[0].Value))
}
