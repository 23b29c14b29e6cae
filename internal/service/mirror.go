package service

import (
	"context"
	"sync"
	"time"

	"github.com/BloggingApp/feed-service/internal/metrics"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"go.uber.org/zap"
)

const DefaultMirrorTimeout = 3 * time.Second

// RemoteMirror is the optional best-effort document store. The local store stays authoritative:
// nothing in this package depends on a mirror call succeeding.
type RemoteMirror interface {
	Available() bool
	GetUser(ctx context.Context, id string) (*model.User, error)
	QueryPostsByUser(ctx context.Context, userID string) ([]model.Post, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error
	AppendComment(ctx context.Context, postID string, comment model.Comment) error
	SavePost(ctx context.Context, post model.Post) error
	DeletePost(ctx context.Context, postID string) error
	SaveUser(ctx context.Context, user model.User) error
}

// NewMirror picks the implementation once: a postgres-backed mirror when pg is set, a no-op otherwise.
func NewMirror(pg *postgres.PostgresRepository) RemoteMirror {
	if pg == nil {
		return noopMirror{}
	}
	return &postgresMirror{pg: pg}
}

type noopMirror struct{}

func (noopMirror) Available() bool { return false }

func (noopMirror) GetUser(context.Context, string) (*model.User, error) { return nil, nil }

func (noopMirror) QueryPostsByUser(context.Context, string) ([]model.Post, error) { return nil, nil }

func (noopMirror) UpdateUser(context.Context, string, map[string]interface{}) error { return nil }

func (noopMirror) AppendComment(context.Context, string, model.Comment) error { return nil }

func (noopMirror) SavePost(context.Context, model.Post) error { return nil }

func (noopMirror) DeletePost(context.Context, string) error { return nil }

func (noopMirror) SaveUser(context.Context, model.User) error { return nil }

type postgresMirror struct {
	pg *postgres.PostgresRepository
}

func (m *postgresMirror) Available() bool { return true }

func (m *postgresMirror) GetUser(ctx context.Context, id string) (*model.User, error) {
	return m.pg.User.FindByID(ctx, id)
}

func (m *postgresMirror) QueryPostsByUser(ctx context.Context, userID string) ([]model.Post, error) {
	return m.pg.Post.FindByUser(ctx, userID)
}

func (m *postgresMirror) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	return m.pg.User.Update(ctx, id, fields)
}

func (m *postgresMirror) AppendComment(ctx context.Context, postID string, comment model.Comment) error {
	return m.pg.Post.AppendComment(ctx, postID, comment)
}

func (m *postgresMirror) SavePost(ctx context.Context, post model.Post) error {
	return m.pg.Post.Upsert(ctx, post)
}

func (m *postgresMirror) DeletePost(ctx context.Context, postID string) error {
	return m.pg.Post.Delete(ctx, postID)
}

func (m *postgresMirror) SaveUser(ctx context.Context, user model.User) error {
	return m.pg.User.Create(ctx, user)
}

// mirrorRunner runs mirror writes in the background and mirror reads inline, both bounded by timeout.
type mirrorRunner struct {
	mirror  RemoteMirror
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func newMirrorRunner(mirror RemoteMirror, logger *zap.Logger, timeout time.Duration) *mirrorRunner {
	if mirror == nil {
		mirror = noopMirror{}
	}
	if timeout <= 0 {
		timeout = DefaultMirrorTimeout
	}
	return &mirrorRunner{
		mirror:  mirror,
		logger:  logger,
		timeout: timeout,
	}
}

// Go fires fn without waiting for it. Failures are logged and counted, never retried.
func (r *mirrorRunner) Go(op string, fn func(ctx context.Context, m RemoteMirror) error) {
	if !r.mirror.Available() {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		r.record(op, fn(ctx, r.mirror))
	}()
}

// Call runs fn inline and reports whether it succeeded. An unavailable mirror reports false.
func (r *mirrorRunner) Call(ctx context.Context, op string, fn func(ctx context.Context, m RemoteMirror) error) bool {
	if !r.mirror.Available() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := fn(ctx, r.mirror)
	r.record(op, err)
	return err == nil
}

func (r *mirrorRunner) record(op string, err error) {
	if err != nil {
		metrics.MirrorCalls.WithLabelValues(op, metrics.ResultError).Inc()
		r.logger.Sugar().Warnf("failed to %s on remote mirror: %s", op, err.Error())
		return
	}
	metrics.MirrorCalls.WithLabelValues(op, metrics.ResultOK).Inc()
}

// Wait blocks until every background mirror call has finished.
func (r *mirrorRunner) Wait() {
	r.wg.Wait()
}
