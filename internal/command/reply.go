package command

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dbakhtin/socialsync/internal/models"
)

// Type ids for reply commands.
const (
	TypePostReply   = "reply.create"
	TypeDeleteReply = "reply.remove"
	TypeLikeReply   = "reply.like"
	TypeUnlikeReply = "reply.unlike"
)

// ReplyApplier is a command that projects its pending effect onto a
// fetched reply.
type ReplyApplier interface {
	Command
	Apply(r *models.Reply)
}

type replyCommand struct {
	Reply   models.Reply
	related string
}

func (c *replyCommand) Handle() string            { return c.Reply.Handle }
func (c *replyCommand) RelatedHandle() string     { return c.related }
func (c *replyCommand) SetRelatedHandle(h string) { c.related = h }
func (c *replyCommand) encode(typeID string) ([]byte, error) {
	return json.Marshal(replyEnvelope{Type: typeID, Reply: c.Reply, RelatedHandle: c.related})
}

type replyEnvelope struct {
	Type          string       `json:"type"`
	Reply         models.Reply `json:"reply"`
	RelatedHandle string       `json:"relatedHandle,omitempty"`
}

func decodeReplyPayload(data []byte) (replyCommand, error) {
	var env replyEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return replyCommand{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Reply.Handle == "" {
		return replyCommand{}, fmt.Errorf("%w: missing reply handle", ErrMalformedPayload)
	}
	related := env.RelatedHandle
	if related == "" {
		related = env.Reply.CommentHandle
	}
	return replyCommand{Reply: env.Reply, related: related}, nil
}

func newReplyCommand(r models.Reply) replyCommand {
	return replyCommand{Reply: r, related: r.CommentHandle}
}

// PostReply records a reply written under a comment while offline.
type PostReply struct{ replyCommand }

func NewPostReply(commentHandle, userHandle, text string) *PostReply {
	r := models.Reply{
		Handle:        uuid.NewString(),
		CommentHandle: commentHandle,
		UserHandle:    userHandle,
		Text:          text,
	}
	return &PostReply{newReplyCommand(r)}
}

func (c *PostReply) TypeID() string              { return TypePostReply }
func (c *PostReply) EncodeJSON() ([]byte, error) { return c.encode(TypePostReply) }
func (c *PostReply) Apply(r *models.Reply)       {}

// DeleteReply removes a reply.
type DeleteReply struct{ replyCommand }

func NewDeleteReply(r models.Reply) *DeleteReply { return &DeleteReply{newReplyCommand(r)} }

func (c *DeleteReply) TypeID() string              { return TypeDeleteReply }
func (c *DeleteReply) EncodeJSON() ([]byte, error) { return c.encode(TypeDeleteReply) }
func (c *DeleteReply) Apply(r *models.Reply)       {}

// LikeReply marks a reply as liked.
type LikeReply struct{ replyCommand }

func NewLikeReply(r models.Reply) *LikeReply { return &LikeReply{newReplyCommand(r)} }

func (c *LikeReply) TypeID() string              { return TypeLikeReply }
func (c *LikeReply) EncodeJSON() ([]byte, error) { return c.encode(TypeLikeReply) }
func (c *LikeReply) Apply(r *models.Reply) {
	if !r.Liked {
		r.Liked = true
		r.TotalLikes++
	}
}

// UnlikeReply removes a like from a reply.
type UnlikeReply struct{ replyCommand }

func NewUnlikeReply(r models.Reply) *UnlikeReply { return &UnlikeReply{newReplyCommand(r)} }

func (c *UnlikeReply) TypeID() string              { return TypeUnlikeReply }
func (c *UnlikeReply) EncodeJSON() ([]byte, error) { return c.encode(TypeUnlikeReply) }
func (c *UnlikeReply) Apply(r *models.Reply) {
	if r.Liked {
		r.Liked = false
		if r.TotalLikes > 0 {
			r.TotalLikes--
		}
	}
}
