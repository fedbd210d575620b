package app

import (
	"context"
	"sync"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/gemora/store-manager/config"
	"github.com/gemora/store-manager/internal/apisrv/auth"
	"github.com/gemora/store-manager/internal/dependency"
	"github.com/gemora/store-manager/internal/entity"
	"github.com/gemora/store-manager/internal/feed"
	"github.com/gemora/store-manager/internal/projection"
	"github.com/gemora/store-manager/internal/store"
)

// collection names shared between the change feed and the projections
const (
	collectionProducts = "products"
	collectionReceipts = "order_receipts"
	collectionBanners  = "banners"
)

// App is the main application
type App struct {
	hs   *Server
	db   dependency.Repository
	feed *feed.RedisFeed
	c    *config.Config
	done chan struct{}
	exit sync.Once

	catalogView  *projection.Projection[entity.Product]
	receiptsView *projection.Projection[entity.OrderReceipt]
	bannersView  *projection.Projection[entity.Banner]
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting store manager")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql", slog.String("err", err.Error()))
		return err
	}

	a.feed, err = feed.New(ctx, a.c.Feed)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to redis", slog.String("err", err.Error()))
		return err
	}

	files, err := a.c.Bucket.Init()
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to init file store", slog.String("err", err.Error()))
		return err
	}

	authS, err := auth.New(&a.c.Auth)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create auth server", slog.String("err", err.Error()))
		return err
	}

	if err := a.startProjections(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "failed to start projections", slog.String("err", err.Error()))
		return err
	}

	a.hs = InitServer(
		&Config{
			Port:   a.c.HTTP.Port,
			Origin: a.c.HTTP.Origin,
			Debug:  a.c.HTTP.Debug,
		},
		a.db, files, a.feed, authS,
		a.catalogView, a.receiptsView, a.bannersView,
	)

	go func() {
		if err := a.hs.Serve(); err != nil {
			slog.Default().ErrorContext(ctx, "http server exited", slog.String("err", err.Error()))
			a.exit.Do(func() { close(a.done) })
		}
	}()

	return nil
}

func (a *App) startProjections(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		a.catalogView, err = projection.New(gctx, collectionProducts, a.db.Catalog().GetAllProducts, a.feed)
		return err
	})
	g.Go(func() error {
		var err error
		a.receiptsView, err = projection.New(gctx, collectionReceipts, a.db.Receipts().GetAllReceipts, a.feed)
		return err
	})
	g.Go(func() error {
		var err error
		a.bannersView, err = projection.New(gctx, collectionBanners, a.db.Banners().GetBanners, a.feed)
		return err
	})

	return g.Wait()
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	for _, p := range []interface{ Stop() }{a.catalogView, a.receiptsView, a.bannersView} {
		if p != nil {
			p.Stop()
		}
	}
	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			slog.Default().ErrorContext(ctx, "failed to close change feed", slog.String("err", err.Error()))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	a.exit.Do(func() { close(a.done) })
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
