// Package processors reconciles freshly fetched list responses with
// commands still pending in the cache, so optimistic local actions stay
// visible until the server confirms or rejects them.
package processors

import (
	"context"

	"github.com/dbakhtin/socialsync/internal/cache"
	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/models"
	"github.com/dbakhtin/socialsync/internal/transactions"
)

// Followers injects users whose pending follow requests were accepted
// locally but are not yet reflected in the server's followers list.
type Followers struct {
	cache cache.Cache
	log   logging.Logger
}

func NewFollowers(c cache.Cache, log logging.Logger) *Followers {
	return &Followers{cache: c, log: log}
}

// Apply merges pending accept-pending commands into resp. Existing items
// win: a user already present in the response means the command is
// reconciled and contributes nothing. Original ordering is preserved;
// synthesized users append at the end. Running Apply twice produces the
// same list as running it once.
func (p *Followers) Apply(ctx context.Context, resp *models.UsersListResponse) error {
	cmds, err := p.cache.FetchOutgoing(ctx, transactions.Predicate{TypeID: command.TypeAcceptPending})
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(resp.Items))
	for _, u := range resp.Items {
		seen[u.Handle] = struct{}{}
	}

	for _, c := range cmds {
		accept, ok := c.(*command.AcceptPending)
		if !ok {
			continue
		}
		if _, dup := seen[accept.Handle()]; dup {
			continue
		}
		u := accept.User
		accept.Apply(&u)
		resp.Items = append(resp.Items, u)
		seen[u.Handle] = struct{}{}
	}
	return nil
}

// Following injects users the signed-in user asked to follow while
// offline, shown with the pending status the server would report.
type Following struct {
	cache cache.Cache
	log   logging.Logger
}

func NewFollowing(c cache.Cache, log logging.Logger) *Following {
	return &Following{cache: c, log: log}
}

func (p *Following) Apply(ctx context.Context, resp *models.UsersListResponse) error {
	follows, err := p.cache.FetchOutgoing(ctx, transactions.Predicate{TypeID: command.TypeFollow})
	if err != nil {
		return err
	}
	unfollows, err := p.cache.FetchOutgoing(ctx, transactions.Predicate{TypeID: command.TypeUnfollow})
	if err != nil {
		return err
	}

	dropped := make(map[string]struct{}, len(unfollows))
	for _, c := range unfollows {
		dropped[c.Handle()] = struct{}{}
	}

	// A pending unfollow hides the user even if the server still lists
	// them.
	kept := resp.Items[:0]
	for _, u := range resp.Items {
		if _, gone := dropped[u.Handle]; !gone {
			kept = append(kept, u)
		}
	}
	resp.Items = kept

	seen := make(map[string]struct{}, len(resp.Items))
	for _, u := range resp.Items {
		seen[u.Handle] = struct{}{}
	}

	for _, c := range follows {
		follow, ok := c.(*command.Follow)
		if !ok {
			continue
		}
		if _, dup := seen[follow.Handle()]; dup {
			continue
		}
		if _, gone := dropped[follow.Handle()]; gone {
			continue
		}
		u := follow.User
		follow.Apply(&u)
		resp.Items = append(resp.Items, u)
		seen[u.Handle] = struct{}{}
	}
	return nil
}
