package command

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dbakhtin/socialsync/internal/models"
)

// Type ids for comment commands.
const (
	TypePostComment   = "comment.create"
	TypeDeleteComment = "comment.remove"
	TypeLikeComment   = "comment.like"
	TypeUnlikeComment = "comment.unlike"
)

// CommentApplier is a command that projects its pending effect onto a
// fetched comment.
type CommentApplier interface {
	Command
	Apply(c *models.Comment)
}

type commentCommand struct {
	Comment models.Comment
	related string
}

func (c *commentCommand) Handle() string            { return c.Comment.Handle }
func (c *commentCommand) RelatedHandle() string     { return c.related }
func (c *commentCommand) SetRelatedHandle(h string) { c.related = h }
func (c *commentCommand) encode(typeID string) ([]byte, error) {
	return json.Marshal(commentEnvelope{Type: typeID, Comment: c.Comment, RelatedHandle: c.related})
}

type commentEnvelope struct {
	Type          string         `json:"type"`
	Comment       models.Comment `json:"comment"`
	RelatedHandle string         `json:"relatedHandle,omitempty"`
}

func decodeCommentPayload(data []byte) (commentCommand, error) {
	var env commentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return commentCommand{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Comment.Handle == "" {
		return commentCommand{}, fmt.Errorf("%w: missing comment handle", ErrMalformedPayload)
	}
	related := env.RelatedHandle
	if related == "" {
		related = env.Comment.TopicHandle
	}
	return commentCommand{Comment: env.Comment, related: related}, nil
}

func newCommentCommand(c models.Comment) commentCommand {
	return commentCommand{Comment: c, related: c.TopicHandle}
}

// PostComment records a comment written under a topic while offline.
type PostComment struct{ commentCommand }

func NewPostComment(topicHandle, userHandle, text string) *PostComment {
	c := models.Comment{
		Handle:      uuid.NewString(),
		TopicHandle: topicHandle,
		UserHandle:  userHandle,
		Text:        text,
	}
	return &PostComment{newCommentCommand(c)}
}

func (c *PostComment) TypeID() string              { return TypePostComment }
func (c *PostComment) EncodeJSON() ([]byte, error) { return c.encode(TypePostComment) }
func (c *PostComment) Apply(m *models.Comment)     {}

// DeleteComment removes a comment.
type DeleteComment struct{ commentCommand }

func NewDeleteComment(c models.Comment) *DeleteComment {
	return &DeleteComment{newCommentCommand(c)}
}

func (c *DeleteComment) TypeID() string              { return TypeDeleteComment }
func (c *DeleteComment) EncodeJSON() ([]byte, error) { return c.encode(TypeDeleteComment) }
func (c *DeleteComment) Apply(m *models.Comment)     {}

// LikeComment marks a comment as liked.
type LikeComment struct{ commentCommand }

func NewLikeComment(c models.Comment) *LikeComment {
	return &LikeComment{newCommentCommand(c)}
}

func (c *LikeComment) TypeID() string              { return TypeLikeComment }
func (c *LikeComment) EncodeJSON() ([]byte, error) { return c.encode(TypeLikeComment) }
func (c *LikeComment) Apply(m *models.Comment) {
	if !m.Liked {
		m.Liked = true
		m.TotalLikes++
	}
}

// UnlikeComment removes a like from a comment.
type UnlikeComment struct{ commentCommand }

func NewUnlikeComment(c models.Comment) *UnlikeComment {
	return &UnlikeComment{newCommentCommand(c)}
}

func (c *UnlikeComment) TypeID() string              { return TypeUnlikeComment }
func (c *UnlikeComment) EncodeJSON() ([]byte, error) { return c.encode(TypeUnlikeComment) }
func (c *UnlikeComment) Apply(m *models.Comment) {
	if m.Liked {
		m.Liked = false
		if m.TotalLikes > 0 {
			m.TotalLikes--
		}
	}
}
