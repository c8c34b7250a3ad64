// Package models defines the social entities the action cache projects
// pending commands onto: topics, comments, replies and users, plus the
// paginated list responses the server returns for them.
package models

// Topic is a feed post.
type Topic struct {
	Handle        string `json:"topicHandle"`
	UserHandle    string `json:"userHandle"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	ImageURL      string `json:"imageUrl"`
	Liked         bool   `json:"liked"`
	Pinned        bool   `json:"pinned"`
	TotalLikes    int64  `json:"totalLikes"`
	TotalComments int64  `json:"totalComments"`
	CreatedAtUnix int64  `json:"createdAt"`
}

// Comment belongs to a topic.
type Comment struct {
	Handle       string `json:"commentHandle"`
	TopicHandle  string `json:"topicHandle"`
	UserHandle   string `json:"userHandle"`
	Text         string `json:"text"`
	Liked        bool   `json:"liked"`
	TotalLikes   int64  `json:"totalLikes"`
	TotalReplies int64  `json:"totalReplies"`
}

// Reply belongs to a comment.
type Reply struct {
	Handle        string `json:"replyHandle"`
	CommentHandle string `json:"commentHandle"`
	UserHandle    string `json:"userHandle"`
	Text          string `json:"text"`
	Liked         bool   `json:"liked"`
	TotalLikes    int64  `json:"totalLikes"`
}
