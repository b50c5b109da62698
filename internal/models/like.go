package models

import "github.com/google/uuid"

type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// LikeTarget is the one thing a Like points at. Build it with VideoTarget,
// CommentTarget or TweetTarget.
type LikeTarget struct {
	kind TargetKind
	id   uuid.UUID
}

func VideoTarget(id uuid.UUID) LikeTarget   { return LikeTarget{kind: TargetVideo, id: id} }
func CommentTarget(id uuid.UUID) LikeTarget { return LikeTarget{kind: TargetComment, id: id} }
func TweetTarget(id uuid.UUID) LikeTarget   { return LikeTarget{kind: TargetTweet, id: id} }

func (t LikeTarget) Kind() TargetKind { return t.kind }
func (t LikeTarget) ID() uuid.UUID    { return t.id }

// Like is a reaction by LikedByID on exactly one target. The unique index
// makes toggles safe under concurrent duplicate requests.
type Like struct {
	Base
	LikedByID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_actor_target,priority:1" json:"likedBy"`
	TargetType TargetKind `gorm:"size:16;not null;uniqueIndex:idx_likes_actor_target,priority:2;index:idx_likes_target,priority:1" json:"targetType"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_actor_target,priority:3;index:idx_likes_target,priority:2" json:"targetId"`
}

func NewLike(likedBy uuid.UUID, target LikeTarget) *Like {
	return &Like{LikedByID: likedBy, TargetType: target.kind, TargetID: target.id}
}

func (l *Like) Target() LikeTarget {
	return LikeTarget{kind: l.TargetType, id: l.TargetID}
}
