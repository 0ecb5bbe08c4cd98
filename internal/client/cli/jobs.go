package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
)

// argOrPrompt returns args[i] when present, otherwise asks for it.
func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	v, err := ask(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s: nothing entered", strings.ToLower(prompt))
	}
	return v, nil
}

// readJobPayload prompts for every editable field, offering the values of
// current as defaults.
func (a *App) readJobPayload(current models.JobPayload) (models.JobPayload, error) {
	p := current
	var err error

	field := func(dst *string, prompt string) {
		if err != nil {
			return
		}
		*dst, err = AskField(a.reader, prompt, *dst, a.out)
	}

	field(&p.Title, "Title")
	field(&p.Description, "Description")
	field(&p.ClientName, "Client name")
	field(&p.City, "City")
	if err != nil {
		return models.JobPayload{}, err
	}

	if p.Budget, err = AskBudget(a.reader, current.Budget, a.out); err != nil {
		return models.JobPayload{}, err
	}
	field(&p.StartDate, "Start date (YYYY-MM-DD)")
	if err != nil {
		return models.JobPayload{}, err
	}
	if p.Status, err = AskJobStatus(a.reader, current.Status, a.out); err != nil {
		return models.JobPayload{}, err
	}
	return p, nil
}

func (a *App) AddJob(ctx context.Context) error {
	p, err := a.readJobPayload(models.JobPayload{})
	if err != nil {
		return err
	}
	job, err := a.jobs.CreateJob(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Job %s saved\n", job.LocalID)
	return nil
}

func (a *App) EditJob(ctx context.Context, args []string) error {
	ref, err := a.argOrPrompt(args, 0, "Enter job id")
	if err != nil {
		return err
	}
	job, err := a.jobs.GetJob(ctx, ref)
	if err != nil {
		return err
	}
	p, err := a.readJobPayload(job.Payload())
	if err != nil {
		return err
	}
	if _, err := a.jobs.EditJob(ctx, job.LocalID, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Job updated")
	return nil
}

// DeleteJob removes the job on this device only.
func (a *App) DeleteJob(ctx context.Context, args []string) error {
	ref, err := a.argOrPrompt(args, 0, "Enter job id to delete")
	if err != nil {
		return err
	}
	if err := a.jobs.DeleteJob(ctx, ref); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Job deleted from this device")
	return nil
}

func (a *App) ListJobs(ctx context.Context) error {
	jobs, err := a.jobs.ListJobs(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(a.out, "No jobs")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCLIENT\tCITY\tBUDGET\tSTATUS\tSYNC")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.LocalID, j.Title, j.ClientName, j.City, j.Budget.StringFixed(2), j.Status.DisplayName(), j.SyncStatus)
	}
	return tw.Flush()
}
