package processors

import (
	"context"

	"github.com/dbakhtin/socialsync/internal/cache"
	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/models"
	"github.com/dbakhtin/socialsync/internal/transactions"
)

// Topics reconciles a fetched feed with pending topic commands: locally
// created topics are injected, locally removed ones are hidden, and
// like/pin/edit effects are projected onto matching items.
type Topics struct {
	cache cache.Cache
	log   logging.Logger
}

func NewTopics(c cache.Cache, log logging.Logger) *Topics {
	return &Topics{cache: c, log: log}
}

func (p *Topics) Apply(ctx context.Context, resp *models.TopicsListResponse) error {
	cmds, err := p.cache.FetchOutgoing(ctx, transactions.Predicate{})
	if err != nil {
		return err
	}

	removed := make(map[string]struct{})
	var creates []*command.CreateTopic
	var appliers []command.TopicApplier

	for _, c := range cmds {
		switch cmd := c.(type) {
		case *command.RemoveTopic:
			removed[cmd.Handle()] = struct{}{}
		case *command.CreateTopic:
			creates = append(creates, cmd)
		case command.TopicApplier:
			appliers = append(appliers, cmd)
		}
	}

	kept := resp.Items[:0]
	for _, t := range resp.Items {
		if _, gone := removed[t.Handle]; !gone {
			kept = append(kept, t)
		}
	}
	resp.Items = kept

	seen := make(map[string]int, len(resp.Items))
	for i, t := range resp.Items {
		seen[t.Handle] = i
	}

	for _, c := range creates {
		if _, dup := seen[c.Handle()]; dup {
			continue
		}
		if _, gone := removed[c.Handle()]; gone {
			continue
		}
		resp.Items = append(resp.Items, c.Topic)
		seen[c.Handle()] = len(resp.Items) - 1
	}

	// Project pending like/pin/edit effects onto whatever the list now
	// contains, offline-created topics included.
	for _, a := range appliers {
		if i, ok := seen[a.RelatedHandle()]; ok {
			a.Apply(&resp.Items[i])
		}
	}
	return nil
}
