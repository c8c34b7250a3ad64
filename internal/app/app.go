// Package app wires the socialsync client together: local database,
// transaction cache, REST service, reachability tracker and uploader.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dbakhtin/socialsync/internal/cache"
	"github.com/dbakhtin/socialsync/internal/config"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/processors"
	"github.com/dbakhtin/socialsync/internal/reachability"
	"github.com/dbakhtin/socialsync/internal/service"
	"github.com/dbakhtin/socialsync/internal/session"
	"github.com/dbakhtin/socialsync/internal/transactions"
	"github.com/dbakhtin/socialsync/internal/uploader"
)

const probeTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	db       *sql.DB
	log      logging.Logger
	remote   *service.HTTPService
	cache    cache.Cache
	tracker  *reachability.Tracker
	daemon   *uploader.Daemon
	social   *service.SocialService
	sessions *session.Store

	mu    sync.Mutex
	token string
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	db, err := transactions.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a := &App{
		config:   c,
		db:       db,
		log:      log,
		sessions: session.NewStore(db),
	}

	// Resume the previous session if one is stored and still valid.
	if sess, err := a.sessions.Load(ctx); err == nil {
		if !sess.Expired(time.Now()) {
			a.token = sess.Token
		}
	} else if !errors.Is(err, session.ErrNoSession) {
		return nil, err
	}

	repo := transactions.NewSQLiteRepository(db)
	txCache := cache.New(repo, log)
	a.cache = txCache

	a.remote = service.NewHTTPService(c.APIBaseURL, a.currentToken, log,
		service.WithRetries(uint64(c.RetryAttempts), 100*time.Millisecond),
		service.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
	)

	a.tracker = reachability.New(log)

	a.social = service.NewSocialService(a.remote, txCache, a.tracker.IsReachable,
		service.Processors{
			Followers: processors.NewFollowers(txCache, log),
			Following: processors.NewFollowing(txCache, log),
			Feed:      processors.NewTopics(txCache, log),
		}, log)

	a.daemon = uploader.New(txCache, a.remote, a.tracker, log,
		uploader.WithConcurrency(c.DrainConcurrency))

	return a, nil
}

// Social exposes the action API for presenters.
func (a *App) Social() *service.SocialService {
	return a.social
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}

// SignIn stores the session and makes its token the one attached to
// outgoing requests.
func (a *App) SignIn(ctx context.Context, sess *session.Session) error {
	if err := a.sessions.Save(ctx, sess); err != nil {
		return err
	}
	a.mu.Lock()
	a.token = sess.Token
	a.mu.Unlock()
	return nil
}

// SignOut clears the stored session. Queued commands are kept; they
// replay under the next session's token.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.token = ""
	a.mu.Unlock()
	return nil
}

func (a *App) currentToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// ListQueued writes one line per queued outgoing command, oldest first.
func (a *App) ListQueued(ctx context.Context, w io.Writer) error {
	cmds, err := a.cache.FetchOutgoing(ctx, transactions.Predicate{})
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		fmt.Fprintf(w, "%s\thandle=%s", cmd.TypeID(), cmd.Handle())
		if rh := cmd.RelatedHandle(); rh != "" {
			fmt.Fprintf(w, "\trelated=%s", rh)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// Status reports queue depth and whether the backend answers a probe.
func (a *App) Status(ctx context.Context, w io.Writer) error {
	n, err := a.cache.CountOutgoing(ctx, transactions.Predicate{})
	if err != nil {
		return err
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	reachable := a.remote.Ping(probeCtx) == nil
	cancel()

	fmt.Fprintf(w, "queued: %d\nreachable: %v\n", n, reachable)
	return nil
}

// DrainOnce replays the queue a single time and returns. Fails when the
// backend does not answer the initial probe.
func (a *App) DrainOnce(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := a.remote.Ping(probeCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}

	done := make(chan struct{})
	var once sync.Once

	tracker := reachability.New(a.log)
	tracker.SetReachable(true)

	d := uploader.New(a.cache, a.remote, tracker, a.log,
		uploader.WithConcurrency(a.config.DrainConcurrency),
		uploader.WithDrainHook(func(uint64) { once.Do(func() { close(done) }) }),
	)
	d.Start()
	defer d.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the reachability watcher and the uploader, then blocks
// until ctx is cancelled or an interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.daemon.Start()
	defer a.daemon.Stop()

	go a.tracker.Watch(ctx, a.remote.Ping, a.config.OnlineCheckInterval, probeTimeout)

	<-ctx.Done()
	a.log.Info(context.Background(), "shutting down")
	return nil
}
