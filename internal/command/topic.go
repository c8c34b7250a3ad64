package command

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dbakhtin/socialsync/internal/models"
)

// Type ids for topic commands.
const (
	TypeLikeTopic   = "topic.like"
	TypeUnlikeTopic = "topic.unlike"
	TypePinTopic    = "topic.pin"
	TypeUnpinTopic  = "topic.unpin"
	TypeCreateTopic = "topic.create"
	TypeEditTopic   = "topic.edit"
	TypeRemoveTopic = "topic.remove"
)

// TopicApplier is a command that can project its pending effect onto a
// fetched topic. Apply is idempotent and never fails.
type TopicApplier interface {
	Command
	Apply(t *models.Topic)
}

type topicCommand struct {
	Topic   models.Topic
	related string
}

func (c *topicCommand) Handle() string              { return c.Topic.Handle }
func (c *topicCommand) RelatedHandle() string       { return c.related }
func (c *topicCommand) SetRelatedHandle(h string)   { c.related = h }
func (c *topicCommand) encode(typeID string) ([]byte, error) {
	return json.Marshal(topicEnvelope{Type: typeID, Topic: c.Topic, RelatedHandle: c.related})
}

type topicEnvelope struct {
	Type          string       `json:"type"`
	Topic         models.Topic `json:"topic"`
	RelatedHandle string       `json:"relatedHandle,omitempty"`
}

func decodeTopicPayload(data []byte) (topicCommand, error) {
	var env topicEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return topicCommand{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Topic.Handle == "" {
		return topicCommand{}, fmt.Errorf("%w: missing topic handle", ErrMalformedPayload)
	}
	related := env.RelatedHandle
	if related == "" {
		related = env.Topic.Handle
	}
	return topicCommand{Topic: env.Topic, related: related}, nil
}

func newTopicCommand(t models.Topic) topicCommand {
	return topicCommand{Topic: t, related: t.Handle}
}

// LikeTopic marks a topic as liked by the signed-in user.
type LikeTopic struct{ topicCommand }

func NewLikeTopic(t models.Topic) *LikeTopic { return &LikeTopic{newTopicCommand(t)} }

func (c *LikeTopic) TypeID() string                { return TypeLikeTopic }
func (c *LikeTopic) EncodeJSON() ([]byte, error)   { return c.encode(TypeLikeTopic) }
func (c *LikeTopic) Apply(t *models.Topic) {
	if !t.Liked {
		t.Liked = true
		t.TotalLikes++
	}
}

// UnlikeTopic removes the signed-in user's like from a topic.
type UnlikeTopic struct{ topicCommand }

func NewUnlikeTopic(t models.Topic) *UnlikeTopic { return &UnlikeTopic{newTopicCommand(t)} }

func (c *UnlikeTopic) TypeID() string              { return TypeUnlikeTopic }
func (c *UnlikeTopic) EncodeJSON() ([]byte, error) { return c.encode(TypeUnlikeTopic) }
func (c *UnlikeTopic) Apply(t *models.Topic) {
	if t.Liked {
		t.Liked = false
		if t.TotalLikes > 0 {
			t.TotalLikes--
		}
	}
}

// PinTopic pins a topic to the signed-in user's pinned list.
type PinTopic struct{ topicCommand }

func NewPinTopic(t models.Topic) *PinTopic { return &PinTopic{newTopicCommand(t)} }

func (c *PinTopic) TypeID() string              { return TypePinTopic }
func (c *PinTopic) EncodeJSON() ([]byte, error) { return c.encode(TypePinTopic) }
func (c *PinTopic) Apply(t *models.Topic)       { t.Pinned = true }

// UnpinTopic removes a topic from the pinned list.
type UnpinTopic struct{ topicCommand }

func NewUnpinTopic(t models.Topic) *UnpinTopic { return &UnpinTopic{newTopicCommand(t)} }

func (c *UnpinTopic) TypeID() string              { return TypeUnpinTopic }
func (c *UnpinTopic) EncodeJSON() ([]byte, error) { return c.encode(TypeUnpinTopic) }
func (c *UnpinTopic) Apply(t *models.Topic)       { t.Pinned = false }

// CreateTopic posts a new topic. Offline-created topics get a client
// generated handle so they can be addressed until the server assigns one.
type CreateTopic struct{ topicCommand }

func NewCreateTopic(userHandle, title, text string) *CreateTopic {
	t := models.Topic{
		Handle:     uuid.NewString(),
		UserHandle: userHandle,
		Title:      title,
		Text:       text,
	}
	return &CreateTopic{newTopicCommand(t)}
}

func (c *CreateTopic) TypeID() string              { return TypeCreateTopic }
func (c *CreateTopic) EncodeJSON() ([]byte, error) { return c.encode(TypeCreateTopic) }
func (c *CreateTopic) Apply(t *models.Topic)       {}

// EditTopic rewrites a topic's title and text.
type EditTopic struct{ topicCommand }

func NewEditTopic(t models.Topic) *EditTopic { return &EditTopic{newTopicCommand(t)} }

func (c *EditTopic) TypeID() string              { return TypeEditTopic }
func (c *EditTopic) EncodeJSON() ([]byte, error) { return c.encode(TypeEditTopic) }
func (c *EditTopic) Apply(t *models.Topic) {
	t.Title = c.Topic.Title
	t.Text = c.Topic.Text
}

// RemoveTopic deletes a topic. Feed processors drop matching items; Apply
// itself has nothing to project.
type RemoveTopic struct{ topicCommand }

func NewRemoveTopic(t models.Topic) *RemoveTopic { return &RemoveTopic{newTopicCommand(t)} }

func (c *RemoveTopic) TypeID() string              { return TypeRemoveTopic }
func (c *RemoveTopic) EncodeJSON() ([]byte, error) { return c.encode(TypeRemoveTopic) }
func (c *RemoveTopic) Apply(t *models.Topic)       {}
