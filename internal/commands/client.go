package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/bell/internal/core/config"
	"github.com/hay-kot/bell/internal/core/eventloop"
	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/internal/core/session"
	"github.com/hay-kot/bell/internal/data/api"
	"github.com/hay-kot/bell/internal/data/push"
)

// backend bundles the collaborators every command hands to the manager.
type backend struct {
	session   session.Session
	api       *api.Client
	transport notify.Transport // nil when push is disabled or misconfigured
}

func newBackend(cfg *config.Config) (*backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config (run 'bell config validate'): %w", err)
	}

	sess := session.New(cfg.Server.Token)

	client, err := api.New(api.Options{
		BaseURL:           cfg.APIURL(),
		Token:             sess.Token,
		Timeout:           cfg.Server.Timeout,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		UserID:            sess.Subject,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	b := &backend{session: sess, api: client}
	if cfg.Server.DisablePush {
		return b, nil
	}

	transport, err := push.New(push.Options{URL: cfg.PushURL(), Token: sess.Token})
	if err != nil {
		log.Warn().Err(err).Msg("push transport unavailable, running pull-only")
		return b, nil
	}
	b.transport = transport

	return b, nil
}

// recordingAPI remembers failed requests. The manager only logs request
// failures, one-shot commands need them to set the exit status.
type recordingAPI struct {
	notify.API

	mu   sync.Mutex
	errs []error
}

func (r *recordingAPI) record(err error) error {
	if err != nil {
		r.mu.Lock()
		r.errs = append(r.errs, err)
		r.mu.Unlock()
	}
	return err
}

func (r *recordingAPI) List(ctx context.Context) (notify.ListResult, error) {
	res, err := r.API.List(ctx)
	return res, r.record(err)
}

func (r *recordingAPI) MarkRead(ctx context.Context, id notify.ID) error {
	return r.record(r.API.MarkRead(ctx, id))
}

func (r *recordingAPI) MarkAllRead(ctx context.Context) error {
	return r.record(r.API.MarkAllRead(ctx))
}

func (r *recordingAPI) Delete(ctx context.Context, id notify.ID) error {
	return r.record(r.API.Delete(ctx, id))
}

// Err joins every recorded failure.
func (r *recordingAPI) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.errs...)
}

// errNotAuthenticated is returned by one-shot commands when no usable token is
// configured.
var errNotAuthenticated = errors.New("not authenticated")

func requireSession(s session.Session) error {
	if err := s.Require(); err != nil {
		return fmt.Errorf("%w: %w", errNotAuthenticated, err)
	}
	return nil
}

// oneShot builds a manager that applies every request inline. Push is never
// opened, so mutations reconcile through the pull API.
func oneShot(ctx context.Context, b *backend) (*notify.Manager, *recordingAPI) {
	rec := &recordingAPI{API: b.api}
	mgr := notify.NewManager(notify.Deps{
		Session: b.session,
		API:     rec,
		Loop:    eventloop.Inline{Ctx: ctx},
	}, notify.Options{})
	return mgr, rec
}

// parseIDs trims, drops blanks and de-duplicates ids while keeping order.
func parseIDs(args []string) ([]notify.ID, error) {
	seen := make(map[notify.ID]struct{}, len(args))
	ids := make([]notify.ID, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			id := notify.ID(part)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("no notification ids given")
	}
	return ids, nil
}
