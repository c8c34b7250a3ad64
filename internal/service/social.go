package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dbakhtin/socialsync/internal/cache"
	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/models"
)

// Snapshot type ids for incoming caches of list responses.
const (
	SnapshotFollowers = "followers.snapshot"
	SnapshotFollowing = "following.snapshot"
	SnapshotFeed      = "feed.snapshot"
)

// UsersListProcessor reconciles a fetched user list with pending
// commands before it reaches the UI.
type UsersListProcessor interface {
	Apply(ctx context.Context, resp *models.UsersListResponse) error
}

// TopicsListProcessor does the same for topic feeds.
type TopicsListProcessor interface {
	Apply(ctx context.Context, resp *models.TopicsListResponse) error
}

// SocialService is the action API presenters call. Online, actions
// execute immediately; offline (or when the call fails in a retryable
// way) the action is cached for the uploader to replay, so it is never
// lost.
type SocialService struct {
	remote    RemoteService
	cache     cache.Cache
	reachable func() bool
	followers UsersListProcessor
	following UsersListProcessor
	feed      TopicsListProcessor
	log       logging.Logger
}

// Processors bundles the list reconcilers a SocialService runs over
// fetched pages. Nil fields disable reconciliation for that list.
type Processors struct {
	Followers UsersListProcessor
	Following UsersListProcessor
	Feed      TopicsListProcessor
}

func NewSocialService(remote RemoteService, c cache.Cache, reachable func() bool,
	p Processors, log logging.Logger) *SocialService {
	return &SocialService{
		remote:    remote,
		cache:     c,
		reachable: reachable,
		followers: p.Followers,
		following: p.Following,
		feed:      p.Feed,
		log:       log,
	}
}

func (s *SocialService) LikeTopic(ctx context.Context, t models.Topic) error {
	return s.do(ctx, command.NewLikeTopic(t))
}

func (s *SocialService) UnlikeTopic(ctx context.Context, t models.Topic) error {
	return s.do(ctx, command.NewUnlikeTopic(t))
}

func (s *SocialService) PinTopic(ctx context.Context, t models.Topic) error {
	return s.do(ctx, command.NewPinTopic(t))
}

func (s *SocialService) UnpinTopic(ctx context.Context, t models.Topic) error {
	return s.do(ctx, command.NewUnpinTopic(t))
}

func (s *SocialService) PostTopic(ctx context.Context, userHandle, title, text string) error {
	return s.do(ctx, command.NewCreateTopic(userHandle, title, text))
}

func (s *SocialService) EditTopic(ctx context.Context, t models.Topic) error {
	return s.do(ctx, command.NewEditTopic(t))
}

func (s *SocialService) RemoveTopic(ctx context.Context, t models.Topic) error {
	return s.do(ctx, command.NewRemoveTopic(t))
}

func (s *SocialService) PostComment(ctx context.Context, topicHandle, userHandle, text string) error {
	return s.do(ctx, command.NewPostComment(topicHandle, userHandle, text))
}

func (s *SocialService) DeleteComment(ctx context.Context, c models.Comment) error {
	return s.do(ctx, command.NewDeleteComment(c))
}

func (s *SocialService) LikeComment(ctx context.Context, c models.Comment) error {
	return s.do(ctx, command.NewLikeComment(c))
}

func (s *SocialService) UnlikeComment(ctx context.Context, c models.Comment) error {
	return s.do(ctx, command.NewUnlikeComment(c))
}

func (s *SocialService) PostReply(ctx context.Context, commentHandle, userHandle, text string) error {
	return s.do(ctx, command.NewPostReply(commentHandle, userHandle, text))
}

func (s *SocialService) DeleteReply(ctx context.Context, r models.Reply) error {
	return s.do(ctx, command.NewDeleteReply(r))
}

func (s *SocialService) LikeReply(ctx context.Context, r models.Reply) error {
	return s.do(ctx, command.NewLikeReply(r))
}

func (s *SocialService) UnlikeReply(ctx context.Context, r models.Reply) error {
	return s.do(ctx, command.NewUnlikeReply(r))
}

func (s *SocialService) Follow(ctx context.Context, u models.User) error {
	return s.do(ctx, command.NewFollow(u))
}

func (s *SocialService) Unfollow(ctx context.Context, u models.User) error {
	return s.do(ctx, command.NewUnfollow(u))
}

func (s *SocialService) Block(ctx context.Context, u models.User) error {
	return s.do(ctx, command.NewBlock(u))
}

func (s *SocialService) Unblock(ctx context.Context, u models.User) error {
	return s.do(ctx, command.NewUnblock(u))
}

func (s *SocialService) AcceptPending(ctx context.Context, u models.User) error {
	return s.do(ctx, command.NewAcceptPending(u))
}

func (s *SocialService) RejectPending(ctx context.Context, u models.User) error {
	return s.do(ctx, command.NewRejectPending(u))
}

func (s *SocialService) CancelPending(ctx context.Context, u models.User) error {
	return s.do(ctx, command.NewCancelPending(u))
}

// do runs one action: cache it when offline, execute it when online, and
// fall back to the cache when execution fails in a retryable way.
func (s *SocialService) do(ctx context.Context, cmd command.Command) error {
	if !s.reachable() {
		_, err := s.cache.CacheOutgoing(ctx, cmd)
		return err
	}

	req, ok := BuildRequest(cmd)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRequest, cmd.TypeID())
	}

	if _, err := s.remote.Execute(ctx, req); err != nil {
		if !IsTransient(err) {
			return err
		}
		s.log.Warn(ctx, "deferring failed action to the cache",
			"type", cmd.TypeID(), "handle", cmd.Handle(), "error", err)
		if _, cerr := s.cache.CacheOutgoing(ctx, cmd); cerr != nil {
			return cerr
		}
		return nil
	}
	return nil
}

// GetFollowers fetches one page of the signed-in user's followers,
// reconciled with pending commands. Offline, the last cached snapshot is
// served instead; the processor still runs so optimistic actions stay
// visible.
func (s *SocialService) GetFollowers(ctx context.Context, cursor string, limit int) (*models.UsersListResponse, error) {
	var resp models.UsersListResponse

	if s.reachable() {
		body, err := s.remote.Execute(ctx, &Request{
			Method: http.MethodGet,
			Path:   "/users/me/followers?cursor=" + cursor + "&limit=" + strconv.Itoa(limit),
		})
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode followers response: %w", err)
		}
		if _, err := s.cache.CacheIncoming(ctx, SnapshotFollowers, "me", body); err != nil {
			s.log.Warn(ctx, "failed to snapshot followers response", "error", err)
		}
	} else {
		snap, err := s.cache.FetchIncoming(ctx, SnapshotFollowers, "me")
		if err != nil {
			return nil, err
		}
		if snap != nil {
			if err := json.Unmarshal(snap.Payload, &resp); err != nil {
				return nil, fmt.Errorf("failed to decode followers snapshot: %w", err)
			}
		}
	}

	if s.followers != nil {
		if err := s.followers.Apply(ctx, &resp); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// GetFollowing fetches one page of the accounts the signed-in user
// follows. Pending unfollows are hidden and pending follows injected by
// the processor.
func (s *SocialService) GetFollowing(ctx context.Context, cursor string, limit int) (*models.UsersListResponse, error) {
	var resp models.UsersListResponse

	if s.reachable() {
		body, err := s.remote.Execute(ctx, &Request{
			Method: http.MethodGet,
			Path:   "/users/me/following?cursor=" + cursor + "&limit=" + strconv.Itoa(limit),
		})
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode following response: %w", err)
		}
		if _, err := s.cache.CacheIncoming(ctx, SnapshotFollowing, "me", body); err != nil {
			s.log.Warn(ctx, "failed to snapshot following response", "error", err)
		}
	} else {
		snap, err := s.cache.FetchIncoming(ctx, SnapshotFollowing, "me")
		if err != nil {
			return nil, err
		}
		if snap != nil {
			if err := json.Unmarshal(snap.Payload, &resp); err != nil {
				return nil, fmt.Errorf("failed to decode following snapshot: %w", err)
			}
		}
	}

	if s.following != nil {
		if err := s.following.Apply(ctx, &resp); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// GetTopics fetches one page of the home feed, reconciled with pending
// topic commands.
func (s *SocialService) GetTopics(ctx context.Context, cursor string, limit int) (*models.TopicsListResponse, error) {
	var resp models.TopicsListResponse

	if s.reachable() {
		body, err := s.remote.Execute(ctx, &Request{
			Method: http.MethodGet,
			Path:   "/topics?cursor=" + cursor + "&limit=" + strconv.Itoa(limit),
		})
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode topics response: %w", err)
		}
		if _, err := s.cache.CacheIncoming(ctx, SnapshotFeed, "home", body); err != nil {
			s.log.Warn(ctx, "failed to snapshot topics response", "error", err)
		}
	} else {
		snap, err := s.cache.FetchIncoming(ctx, SnapshotFeed, "home")
		if err != nil {
			return nil, err
		}
		if snap != nil {
			if err := json.Unmarshal(snap.Payload, &resp); err != nil {
				return nil, fmt.Errorf("failed to decode topics snapshot: %w", err)
			}
		}
	}

	if s.feed != nil {
		if err := s.feed.Apply(ctx, &resp); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}
