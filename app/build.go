package app

import (
	"context"
	"errors"

	"github.com/Abraxas-365/mockup2html/archive"
	"github.com/Abraxas-365/mockup2html/eventx"
	"github.com/Abraxas-365/mockup2html/eventx/eventxmemory"
	"github.com/Abraxas-365/mockup2html/eventx/eventxsqs"
	"github.com/Abraxas-365/mockup2html/fsx"
	"github.com/Abraxas-365/mockup2html/fsx/fsxlocal"
	"github.com/Abraxas-365/mockup2html/fsx/fsxs3"
	"github.com/Abraxas-365/mockup2html/inference"
	"github.com/Abraxas-365/mockup2html/logx"
	"github.com/Abraxas-365/mockup2html/markup"
	"github.com/Abraxas-365/mockup2html/project"
	"github.com/Abraxas-365/mockup2html/session"
	"github.com/Abraxas-365/mockup2html/storex"
)

// Components is everything a command needs to run conversions
type Components struct {
	Settings Settings
	Store    fsx.FileSystem
	Cache    storex.KV
	Bus      eventx.EventBus
	Archiver *archive.Archiver
	Service  *project.Service

	closers []func(context.Context) error
}

// Build opens the configured drivers. Extra options are applied to the
// service after the defaults, so callers can add a Downloader.
func Build(ctx context.Context, s Settings, opts ...project.Option) (*Components, error) {
	store, err := OpenStore(ctx, s.Store)
	if err != nil {
		return nil, err
	}
	return BuildWithStore(ctx, s, store, opts...)
}

// BuildWithStore is Build over an already opened object store
func BuildWithStore(ctx context.Context, s Settings, store fsx.FileSystem, opts ...project.Option) (*Components, error) {
	c := &Components{Settings: s, Store: store}

	var err error
	if c.Cache, err = c.openCache(ctx, s.Cache); err != nil {
		return nil, err
	}
	if c.Bus, err = openBus(ctx, s.Events); err != nil {
		c.Close(ctx)
		return nil, err
	}
	c.closers = append(c.closers, c.Bus.Close)

	c.Archiver = archive.New(store,
		archive.WithBaseURL(s.Store.BaseURL),
		archive.WithMaxInFlight(s.Store.MaxInFlight),
	)

	detector := inference.NewClient(inference.Config{
		URL:     s.Inference.URL,
		APIKey:  s.Inference.Key,
		Timeout: s.Inference.Timeout,
	}, nil)

	base := []project.Option{
		project.WithPublisher(c.Bus),
		project.WithSynthesizer(markup.NewSynthesizer(markup.WithSkipUnknown(s.SkipUnknown))),
	}
	c.Service = project.NewService(detector, c.Archiver, session.New(c.Cache), append(base, opts...)...)
	return c, nil
}

// Close waits for pending archive writes, then releases drivers
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	if c.Archiver != nil {
		if err := c.Archiver.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStore returns the object store named by s.Driver
func OpenStore(ctx context.Context, s StoreSettings) (fsx.FileSystem, error) {
	if s.Driver == "s3" {
		return fsxs3.NewFromConfig(ctx, fsxs3.Config{
			Bucket:   s.Bucket,
			Prefix:   s.Prefix,
			Region:   s.Region,
			Endpoint: s.Endpoint,
		})
	}
	return fsxlocal.New(s.Root)
}

func (c *Components) openCache(ctx context.Context, s CacheSettings) (storex.KV, error) {
	if s.Driver != "mongo" {
		return storex.NewMemoryKV(), nil
	}

	client, err := storex.ConnectMongo(ctx, s.URI)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, client.Disconnect)

	logx.Info("Session cache: mongo %s.%s", s.Database, s.Collection)
	return storex.NewMongoKV(client.Database(s.Database).Collection(s.Collection)), nil
}

func openBus(ctx context.Context, s EventSettings) (eventx.EventBus, error) {
	var opts []eventxmemory.Option
	if s.Driver == "sqs" {
		pub, err := eventxsqs.NewFromConfig(ctx, s.Queue)
		if err != nil {
			return nil, err
		}
		opts = append(opts, eventxmemory.WithForward(pub))
	}

	bus := eventxmemory.New(opts...)
	bus.Subscribe("*", func(ctx context.Context, e eventx.Event) error {
		logx.Debug("event %s %s", e.Type(), e.ID())
		return nil
	})
	return bus, nil
}
