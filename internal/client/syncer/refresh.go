package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
)

// Pull fetches the authoritative job list and merges it into the store
// without pushing anything. It returns the number of merged jobs.
func (e *Engine) Pull(ctx context.Context) (int, error) {
	if !e.avail.IsOnline() {
		return 0, common.ErrNetworkUnavailable
	}
	p := &pass{Engine: e}
	if err := p.pull(ctx, false); err != nil {
		return 0, e.promote(ctx, err)
	}
	res := p.result()
	if res.PullFailed {
		return 0, fmt.Errorf("pull jobs: %w", common.ErrRemoteRejected)
	}
	return res.Pulled, nil
}

// RefreshNotes fetches the notes of one job and merges them into the store.
// A job the backend does not know yet has no remote notes; zero is returned.
func (e *Engine) RefreshNotes(ctx context.Context, jobLocalID string) (int, error) {
	job, err := e.store.GetJobByLocalID(ctx, jobLocalID)
	if err != nil {
		return 0, err
	}
	if !job.HasServerID() {
		return 0, nil
	}
	if !e.avail.IsOnline() {
		return 0, common.ErrNetworkUnavailable
	}

	notes, err := e.remote.ListNotes(ctx, job.ServerID)
	if err != nil {
		return 0, e.promote(ctx, err)
	}

	merged := 0
	for _, n := range notes {
		if n.ServerID == "" {
			continue
		}
		if _, err := e.store.MergeServerNote(ctx, job.LocalID, n); err != nil {
			return merged, fmt.Errorf("merge note %s: %w", n.ServerID, err)
		}
		merged++
	}
	return merged, nil
}

// promote publishes the unauthorized signal for err if it carries one.
func (e *Engine) promote(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrUnauthorized) {
		e.log.Warn(ctx, "request rejected: unauthorized")
		e.bus.Publish(Event{Kind: EventUnauthorized, Err: common.ErrUnauthorized})
		return common.ErrUnauthorized
	}
	return err
}
