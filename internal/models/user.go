package models

// FollowStatus describes the relation between the signed-in user and
// another user as the server last reported it.
type FollowStatus string

const (
	FollowStatusNone     FollowStatus = "none"
	FollowStatusFollow   FollowStatus = "follow"
	FollowStatusPending  FollowStatus = "pending"
	FollowStatusBlocked  FollowStatus = "blocked"
	FollowStatusAccepted FollowStatus = "accepted"
)

// User is a compact user view as returned in list responses.
type User struct {
	Handle         string       `json:"userHandle"`
	Username       string       `json:"username"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Bio            string       `json:"bio"`
	PhotoURL       string       `json:"photoUrl"`
	FollowerStatus FollowStatus `json:"followerStatus"`
	FollowingCount int64        `json:"followingCount"`
	FollowersCount int64        `json:"followersCount"`
}
