package platform

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/notey/pkg/content"
	"github.com/aretw0/notey/pkg/core"
	"github.com/aretw0/notey/pkg/export"
	"github.com/aretw0/notey/pkg/notes"
	"github.com/aretw0/notey/pkg/persist"
	"github.com/aretw0/notey/pkg/session"
)

// Notebook is a fully wired note collection with its editing session.
type Notebook struct {
	*session.Session

	Path    string
	Adapter string
	Store   core.Store
	Codec   persist.Codec

	close func() error
}

// Close stops the session and releases the store.
func (n *Notebook) Close() error {
	n.Session.Close()
	return n.close()
}

// New opens the notebook at uri and starts a session on it.
//
//	nb, err := notey.New("~/.notey", notey.WithAdapter("sqlite"))
//
// The uri is a directory for "fs" and "sqlite" and ignored for "memory".
func New(uri string, opts ...Option) (*Notebook, error) {
	ctx := context.Background()

	r, err := resolve(uri, opts)
	if err != nil {
		return nil, err
	}
	o := r.opts

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, closeStore, err := openStore(ctx, r)
	if err != nil {
		return nil, err
	}

	repo := notes.NewRepository(
		persist.NewAdapter[[]core.Note](store, r.codec, logger),
		notes.WithClock(o.clock),
		notes.WithIDGenerator(o.newID),
		notes.WithLogger(logger),
	)

	policy := content.DefaultPolicy()
	if p, ok := o.config["sanitize"].(content.Policy); ok {
		policy = p
	}
	pipeline, err := content.NewPipeline(content.WithPolicy(policy))
	if err != nil {
		return nil, errors.Join(err, closeStore())
	}

	sessOpts := []session.Option{
		session.WithLogger(logger),
		session.WithClock(o.clock),
	}
	if d, ok := o.config["status_delay"].(time.Duration); ok {
		sessOpts = append(sessOpts, session.WithStatusDelay(d))
	}
	if d, ok := o.config["cooldown"].(time.Duration); ok {
		sessOpts = append(sessOpts, session.WithCooldown(d))
	}
	if dt, err := defaultDocType(o); err != nil {
		return nil, errors.Join(err, closeStore())
	} else if dt != "" {
		sessOpts = append(sessOpts, session.WithDefaultDocType(dt))
	}
	if hidden, _ := o.config["preview_hidden"].(bool); hidden {
		sessOpts = append(sessOpts, session.WithPreviewHidden())
	}
	exportDir, _ := o.config["export_dir"].(string)
	if exportDir == "" {
		exportDir = "."
	}
	sessOpts = append(sessOpts, session.WithDownloader(export.NewDirDownloader(exportDir, logger)))

	sess := session.New(repo, pipeline, sessOpts...)
	if err := sess.Start(ctx); err != nil {
		sess.Close()
		return nil, errors.Join(err, closeStore())
	}

	logger.Debug("notebook opened", "path", r.path, "adapter", o.adapter, "codec", r.codec.Name(), "notes", repo.Len())

	return &Notebook{
		Session: sess,
		Path:    r.path,
		Adapter: o.adapter,
		Store:   store,
		Codec:   r.codec,
		close:   closeStore,
	}, nil
}

func defaultDocType(o *options) (core.DocType, error) {
	switch v := o.config["default_doc_type"].(type) {
	case core.DocType:
		return core.ParseDocType(string(v))
	case string:
		return core.ParseDocType(v)
	default:
		return "", nil
	}
}
