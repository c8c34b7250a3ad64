package service

import (
	"encoding/json"
	"net/http"

	"github.com/dbakhtin/socialsync/internal/command"
)

// BuildRequest maps a command to the REST call that performs it. The
// second return value is false for commands this builder does not
// recognize; callers skip those rather than failing a whole batch.
func BuildRequest(cmd command.Command) (*Request, bool) {
	switch c := cmd.(type) {
	case *command.LikeTopic:
		return &Request{Method: http.MethodPost, Path: "/topics/" + c.Handle() + "/likes"}, true
	case *command.UnlikeTopic:
		return &Request{Method: http.MethodDelete, Path: "/topics/" + c.Handle() + "/likes/me"}, true
	case *command.PinTopic:
		return &Request{Method: http.MethodPost, Path: "/users/me/pins", Body: jsonBody(map[string]string{"topicHandle": c.Handle()})}, true
	case *command.UnpinTopic:
		return &Request{Method: http.MethodDelete, Path: "/users/me/pins/" + c.Handle()}, true
	case *command.CreateTopic:
		return &Request{Method: http.MethodPost, Path: "/topics", Body: jsonBody(c.Topic)}, true
	case *command.EditTopic:
		return &Request{Method: http.MethodPut, Path: "/topics/" + c.Handle(), Body: jsonBody(map[string]string{
			"title": c.Topic.Title,
			"text":  c.Topic.Text,
		})}, true
	case *command.RemoveTopic:
		return &Request{Method: http.MethodDelete, Path: "/topics/" + c.Handle()}, true

	case *command.PostComment:
		return &Request{Method: http.MethodPost, Path: "/topics/" + c.RelatedHandle() + "/comments", Body: jsonBody(c.Comment)}, true
	case *command.DeleteComment:
		return &Request{Method: http.MethodDelete, Path: "/comments/" + c.Handle()}, true
	case *command.LikeComment:
		return &Request{Method: http.MethodPost, Path: "/comments/" + c.Handle() + "/likes"}, true
	case *command.UnlikeComment:
		return &Request{Method: http.MethodDelete, Path: "/comments/" + c.Handle() + "/likes/me"}, true

	case *command.PostReply:
		return &Request{Method: http.MethodPost, Path: "/comments/" + c.RelatedHandle() + "/replies", Body: jsonBody(c.Reply)}, true
	case *command.DeleteReply:
		return &Request{Method: http.MethodDelete, Path: "/replies/" + c.Handle()}, true
	case *command.LikeReply:
		return &Request{Method: http.MethodPost, Path: "/replies/" + c.Handle() + "/likes"}, true
	case *command.UnlikeReply:
		return &Request{Method: http.MethodDelete, Path: "/replies/" + c.Handle() + "/likes/me"}, true

	case *command.Follow:
		return &Request{Method: http.MethodPost, Path: "/users/me/following", Body: jsonBody(map[string]string{"userHandle": c.Handle()})}, true
	case *command.Unfollow:
		return &Request{Method: http.MethodDelete, Path: "/users/me/following/" + c.Handle()}, true
	case *command.Block:
		return &Request{Method: http.MethodPost, Path: "/users/me/blocked_users", Body: jsonBody(map[string]string{"userHandle": c.Handle()})}, true
	case *command.Unblock:
		return &Request{Method: http.MethodDelete, Path: "/users/me/blocked_users/" + c.Handle()}, true
	case *command.AcceptPending:
		return &Request{Method: http.MethodPost, Path: "/users/me/followers", Body: jsonBody(map[string]string{"userHandle": c.Handle()})}, true
	case *command.RejectPending:
		return &Request{Method: http.MethodDelete, Path: "/users/me/pending_users/" + c.Handle()}, true
	case *command.CancelPending:
		return &Request{Method: http.MethodDelete, Path: "/users/me/following/" + c.Handle() + "/request"}, true
	}
	return nil, false
}

func jsonBody(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// All bodies are plain structs and maps; marshalling them
		// cannot fail at runtime.
		panic(err)
	}
	return b
}
