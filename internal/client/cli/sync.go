package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
)

func (a *App) Sync(ctx context.Context) error {
	res, err := a.sync.SyncNow(ctx)
	switch {
	case errors.Is(err, common.ErrNetworkUnavailable):
		fmt.Fprintln(a.out, "Offline: changes are kept locally and will sync when the connection returns")
		return nil
	case errors.Is(err, common.ErrUnauthorized):
		return errors.New("session expired, please login again")
	case err != nil:
		return err
	}

	fmt.Fprintf(a.out, "Jobs: %d created, %d updated, %d failed\n", res.JobsCreated, res.JobsUpdated, res.JobsFailed)
	fmt.Fprintf(a.out, "Notes: %d created, %d updated, %d failed\n", res.NotesCreated, res.NotesUpdated, res.NotesFailed)
	fmt.Fprintf(a.out, "Videos: %d uploaded, %d failed\n", res.VideosUploaded, res.VideosFailed)
	if res.Skipped > 0 {
		fmt.Fprintf(a.out, "%d records wait for a later pass\n", res.Skipped)
	}
	if res.PullFailed {
		fmt.Fprintln(a.out, "Could not refresh jobs from the server")
	} else if res.Pulled > 0 {
		fmt.Fprintf(a.out, "%d jobs refreshed from the server\n", res.Pulled)
	}
	return nil
}

// Pull refreshes every job, or the notes of one job when a ref is given.
func (a *App) Pull(ctx context.Context, args []string) error {
	if len(args) == 0 {
		n, err := a.sync.Pull(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d jobs refreshed\n", n)
		return nil
	}

	job, err := a.jobs.GetJob(ctx, args[0])
	if err != nil {
		return err
	}
	n, err := a.sync.RefreshNotes(ctx, job.LocalID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d notes refreshed\n", n)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	c, err := a.jobs.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Jobs: %d pending, %d failed\n", c.PendingJobs, c.FailedJobs)
	fmt.Fprintf(a.out, "Notes: %d pending, %d failed\n", c.PendingNotes, c.FailedNotes)
	fmt.Fprintf(a.out, "Videos: %d waiting for upload\n", c.PendingVideos)
	if a.avail != nil && !a.avail.IsOnline() {
		fmt.Fprintln(a.out, "Offline")
	}
	return nil
}
