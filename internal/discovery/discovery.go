package discovery

import (
	"context"
	"io"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/egoavara/plughub/internal/catalog"
	"github.com/egoavara/plughub/internal/plugintype"
)

// Fetcher retrieves the catalog index of one plugin type
type Fetcher interface {
	FetchIndex(ctx context.Context, t plugintype.Type) (*catalog.Index, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, t plugintype.Type) (*catalog.Index, error)

func (f FetcherFunc) FetchIndex(ctx context.Context, t plugintype.Type) (*catalog.Index, error) {
	return f(ctx, t)
}

// Outcome is the result of fetching one type: exactly one of Index and Err is set
type Outcome struct {
	Type  plugintype.Type
	Index *catalog.Index
	Err   error
}

// OK reports whether the index was retrieved
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Options tunes a discovery run
type Options struct {
	// Parallelism bounds concurrent fetches; values below 2 fetch sequentially
	Parallelism int
	// Styles renders headers and warnings; zero value renders plain text
	Styles Styles
}

// Collect fetches every type and returns one outcome per type in the order of
// types, regardless of the order fetches complete in.
func Collect(ctx context.Context, fetcher Fetcher, types []plugintype.Type, parallelism int) []Outcome {
	outcomes := make([]Outcome, len(types))
	if len(types) == 0 {
		return outcomes
	}

	fetch := func(i int) {
		t := types[i]
		idx, err := fetcher.FetchIndex(ctx, t)
		switch {
		case err != nil:
			outcomes[i] = Outcome{Type: t, Err: err}
		case idx == nil:
			outcomes[i] = Outcome{Type: t, Index: catalog.NewIndex(t)}
		default:
			outcomes[i] = Outcome{Type: t, Index: idx}
		}
	}

	if parallelism < 2 {
		for i := range types {
			fetch(i)
		}
		return outcomes
	}

	// Each goroutine owns one slot of outcomes and never returns an error,
	// so one failing type cannot cancel the others.
	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := range types {
		g.Go(func() error {
			fetch(i)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Report summarizes a finished discovery run
type Report struct {
	Outcomes []Outcome
}

// Failed returns the types whose index could not be retrieved, in order
func (r Report) Failed() []plugintype.Type {
	var failed []plugintype.Type
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o.Type)
		}
	}
	return failed
}

// Succeeded returns the number of types listed
func (r Report) Succeeded() int {
	return len(r.Outcomes) - len(r.Failed())
}

// Err joins the per-type errors; nil when every type was listed
func (r Report) Err() error {
	var result *multierror.Error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			result = multierror.Append(result, o.Err)
		}
	}
	return result.ErrorOrNil()
}

// Run collects the indexes for scope and renders them. Catalog failures never
// fail the run; they are rendered as warnings on errOut and kept in the Report.
func Run(ctx context.Context, fetcher Fetcher, scope plugintype.Scope, out, errOut io.Writer, opts Options) (Report, error) {
	outcomes := Collect(ctx, fetcher, scope.Types(), opts.Parallelism)
	if err := Render(out, errOut, outcomes, opts.Styles); err != nil {
		return Report{Outcomes: outcomes}, err
	}
	return Report{Outcomes: outcomes}, nil
}
