package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/anonto42/ecobite/web/internal/models"
)

// savedKgPerPost is the fixed unit-weight heuristic used when stats are
// computed client-side: every shared post counts as 1.2 kg of food saved.
const savedKgPerPost = 1.2

// StatsService defines the stats operations the view controllers depend on.
type StatsService interface {
	GlobalStats(ctx context.Context) (*models.GlobalStats, error)
	MyStats(ctx context.Context) (*models.UserStats, error)
	ComputeStats(ctx context.Context) (*models.StatsSummary, error)
}

// GlobalStats fetches the dedicated aggregate. A backend without the endpoint
// yields an error wrapping ErrEndpointUnavailable.
func (c *Client) GlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	var stats models.GlobalStats
	err := c.do(ctx, call{
		op:       "global stats",
		method:   http.MethodGet,
		path:     "/stats/global",
		fallback: "failed to fetch stats",
	}, &stats)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && isMissingEndpoint(fe.StatusCode) {
			return nil, fmt.Errorf("global stats: %w", ErrEndpointUnavailable)
		}
		return nil, err
	}
	return &stats, nil
}

func isMissingEndpoint(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}

// MyStats fetches the viewer's own aggregate.
func (c *Client) MyStats(ctx context.Context) (*models.UserStats, error) {
	var stats models.UserStats
	err := c.do(ctx, call{
		op:       "my stats",
		method:   http.MethodGet,
		path:     "/stats/me",
		fallback: "failed to fetch profile stats",
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ComputeStats builds the summary client-side from three concurrent listings
// (available, claimed, expired). All three must succeed; the first failure
// cancels the others and fails the whole summary.
func (c *Client) ComputeStats(ctx context.Context) (*models.StatsSummary, error) {
	scopes := [...]string{"available", "claimed", "expired"}
	var lists [len(scopes)][]models.Post

	g, gctx := errgroup.WithContext(ctx)
	for i, scope := range scopes {
		g.Go(func() error {
			posts, err := c.ListPosts(gctx, ListFilter{Status: scope})
			if err != nil {
				return fmt.Errorf("compute stats (%s): %w", scope, err)
			}
			lists[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	available, shared, expired := len(lists[0]), len(lists[1]), len(lists[2])
	all := make([]models.Post, 0, available+shared+expired)
	for _, l := range lists {
		all = append(all, l...)
	}

	return &models.StatsSummary{
		Available: available,
		Shared:    shared,
		Expired:   expired,
		Total:     available + shared + expired,
		SavedKg:   models.FormatKg(float64(shared) * savedKgPerPost),
		List:      all,
	}, nil
}
