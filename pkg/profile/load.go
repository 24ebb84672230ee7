package profile

import (
	"context"
	"strings"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// Fetcher returns the raw manifest for a profile id.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

type loadOptions struct {
	strict bool
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithStrictCycles makes Load fail with ErrInheritanceCycle instead of
// returning the chain linked so far.
func WithStrictCycles(strict bool) LoadOption {
	return func(o *loadOptions) { o.strict = strict }
}

// Load fetches id and every ancestor named by inheritsFrom, linking them into
// one profile. Each id is fetched at most once. A repeated id ends the walk.
func Load(ctx context.Context, id string, fetcher Fetcher, opts ...LoadOption) (Profile, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.Wrap(errors.ErrProfileNotFound, "empty profile id")
	}

	visited := make(map[string]bool)
	var linked Profile
	for next := id; next != ""; {
		if visited[next] {
			if o.strict {
				return nil, errors.Wrapf(errors.ErrInheritanceCycle, "%s inherits from %s again", id, next)
			}
			logger.Warn("Inheritance cycle detected, stopping", logger.Fields{"profile": id, "repeated": next})
			break
		}
		visited[next] = true

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fetcher.Fetch(ctx, next)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch profile %s", next)
		}
		p, err := Parse(data)
		if err != nil {
			return nil, errors.Wrapf(err, "profile %s", next)
		}
		if linked, err = Link(p, linked); err != nil {
			return nil, err
		}
		next = p.InheritsFrom()
	}
	return linked, nil
}
