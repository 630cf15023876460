package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/dayview/pkg/errors"
	pkgio "github.com/matzehuels/dayview/pkg/io"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/observability"
)

// Load reads the events named by opts.Input.
func (r *Runner) Load(ctx context.Context, opts Options) ([]layout.Event, error) {
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()

	events, err := load(opts)
	hooks.OnLoadComplete(ctx, opts.Input, len(events), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded events", "input", opts.Input, "events", len(events))
	return events, nil
}

func load(opts Options) ([]layout.Event, error) {
	var ropts []pkgio.ReadOption
	if !opts.Day.IsZero() {
		ropts = append(ropts, pkgio.WithDay(opts.Day))
	}

	if opts.Input == StdinInput {
		if opts.Stdin == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "stdin input without a reader")
		}
		format := opts.InputFormat
		if format == "" {
			format = pkgio.FormatJSON
		}
		return pkgio.ReadEvents(opts.Stdin, format, ropts...)
	}
	if opts.InputFormat != "" {
		return pkgio.ImportEventsAs(opts.Input, opts.InputFormat, ropts...)
	}
	return pkgio.ImportEvents(opts.Input, ropts...)
}

// LoadLayout reads a stored layout and merges its view options into opts.
func (r *Runner) LoadLayout(ctx context.Context, opts *Options) ([]layout.Placed, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()

	doc, err := pkgio.ImportLayout(opts.Input)
	hooks.OnLoadComplete(ctx, opts.Input, len(doc.Events), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.ApplyLayoutDocument(doc.Options, doc.Title)
	return doc.Events, nil
}
