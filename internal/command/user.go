package command

import (
	"encoding/json"
	"fmt"

	"github.com/dbakhtin/socialsync/internal/models"
)

// Type ids for user relation commands.
const (
	TypeFollow        = "user.follow"
	TypeUnfollow      = "user.unfollow"
	TypeBlock         = "user.block"
	TypeUnblock       = "user.unblock"
	TypeAcceptPending = "user.acceptPending"
	TypeRejectPending = "user.rejectPending"
	TypeCancelPending = "user.cancelPending"
)

// UserApplier is a command that projects its pending effect onto a
// fetched user.
type UserApplier interface {
	Command
	Apply(u *models.User)
}

// User commands learn their related handle late: accepting a pending
// request happens from a list where the parent context is not known at
// construction time, so the related handle stays settable.
type userCommand struct {
	User    models.User
	related string
}

func (c *userCommand) Handle() string            { return c.User.Handle }
func (c *userCommand) RelatedHandle() string     { return c.related }
func (c *userCommand) SetRelatedHandle(h string) { c.related = h }
func (c *userCommand) encode(typeID string) ([]byte, error) {
	return json.Marshal(userEnvelope{Type: typeID, User: c.User, RelatedHandle: c.related})
}

type userEnvelope struct {
	Type          string      `json:"type"`
	User          models.User `json:"user"`
	RelatedHandle string      `json:"relatedHandle,omitempty"`
}

func decodeUserPayload(data []byte) (userCommand, error) {
	var env userEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return userCommand{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.User.Handle == "" {
		return userCommand{}, fmt.Errorf("%w: missing user handle", ErrMalformedPayload)
	}
	return userCommand{User: env.User, related: env.RelatedHandle}, nil
}

func newUserCommand(u models.User) userCommand {
	return userCommand{User: u, related: u.Handle}
}

// Follow requests to follow a user.
type Follow struct{ userCommand }

func NewFollow(u models.User) *Follow { return &Follow{newUserCommand(u)} }

func (c *Follow) TypeID() string              { return TypeFollow }
func (c *Follow) EncodeJSON() ([]byte, error) { return c.encode(TypeFollow) }
func (c *Follow) Apply(u *models.User) {
	u.FollowerStatus = models.FollowStatusPending
}

// Unfollow stops following a user.
type Unfollow struct{ userCommand }

func NewUnfollow(u models.User) *Unfollow { return &Unfollow{newUserCommand(u)} }

func (c *Unfollow) TypeID() string              { return TypeUnfollow }
func (c *Unfollow) EncodeJSON() ([]byte, error) { return c.encode(TypeUnfollow) }
func (c *Unfollow) Apply(u *models.User) {
	u.FollowerStatus = models.FollowStatusNone
}

// Block blocks a user.
type Block struct{ userCommand }

func NewBlock(u models.User) *Block { return &Block{newUserCommand(u)} }

func (c *Block) TypeID() string              { return TypeBlock }
func (c *Block) EncodeJSON() ([]byte, error) { return c.encode(TypeBlock) }
func (c *Block) Apply(u *models.User) {
	u.FollowerStatus = models.FollowStatusBlocked
}

// Unblock unblocks a user.
type Unblock struct{ userCommand }

func NewUnblock(u models.User) *Unblock { return &Unblock{newUserCommand(u)} }

func (c *Unblock) TypeID() string              { return TypeUnblock }
func (c *Unblock) EncodeJSON() ([]byte, error) { return c.encode(TypeUnblock) }
func (c *Unblock) Apply(u *models.User) {
	u.FollowerStatus = models.FollowStatusNone
}

// AcceptPending accepts a follow request. The accepted user becomes a
// follower, which is what the followers list processor injects.
type AcceptPending struct{ userCommand }

func NewAcceptPending(u models.User) *AcceptPending {
	c := &AcceptPending{userCommand{User: u}}
	return c
}

func (c *AcceptPending) TypeID() string              { return TypeAcceptPending }
func (c *AcceptPending) EncodeJSON() ([]byte, error) { return c.encode(TypeAcceptPending) }
func (c *AcceptPending) Apply(u *models.User) {
	u.FollowerStatus = models.FollowStatusAccepted
}

// RejectPending declines a follow request.
type RejectPending struct{ userCommand }

func NewRejectPending(u models.User) *RejectPending {
	return &RejectPending{userCommand{User: u}}
}

func (c *RejectPending) TypeID() string              { return TypeRejectPending }
func (c *RejectPending) EncodeJSON() ([]byte, error) { return c.encode(TypeRejectPending) }
func (c *RejectPending) Apply(u *models.User) {
	u.FollowerStatus = models.FollowStatusNone
}

// CancelPending withdraws the signed-in user's own follow request.
type CancelPending struct{ userCommand }

func NewCancelPending(u models.User) *CancelPending {
	return &CancelPending{newUserCommand(u)}
}

func (c *CancelPending) TypeID() string              { return TypeCancelPending }
func (c *CancelPending) EncodeJSON() ([]byte, error) { return c.encode(TypeCancelPending) }
func (c *CancelPending) Apply(u *models.User) {
	u.FollowerStatus = models.FollowStatusNone
}
