package models

// UsersListResponse is one page of a user list (followers, following,
// likers). Cursor is opaque; empty means the last page.
type UsersListResponse struct {
	Items  []User `json:"data"`
	Cursor string `json:"cursor"`
}

// TopicsListResponse is one page of a topic feed.
type TopicsListResponse struct {
	Items  []Topic `json:"data"`
	Cursor string  `json:"cursor"`
}

// CommentsListResponse is one page of comments under a topic.
type CommentsListResponse struct {
	Items  []Comment `json:"data"`
	Cursor string    `json:"cursor"`
}
