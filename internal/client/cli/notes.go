package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Notes(ctx context.Context, args []string) error {
	ref, err := a.argOrPrompt(args, 0, "Enter job id")
	if err != nil {
		return err
	}
	job, err := a.jobs.GetJob(ctx, ref)
	if err != nil {
		return err
	}
	notes, err := a.jobs.Notes(ctx, job.LocalID)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return nil
	}
	for _, n := range notes {
		first, _, _ := strings.Cut(n.Content, "\n")
		fmt.Fprintf(a.out, "%s [%s] %s\n", n.LocalID, n.SyncStatus, first)
	}
	return nil
}

func (a *App) AddNote(ctx context.Context, args []string) error {
	ref, err := a.argOrPrompt(args, 0, "Enter job id")
	if err != nil {
		return err
	}
	content, err := AskNoteText(a.reader, "Note text", a.out)
	if err != nil {
		return err
	}
	note, err := a.jobs.AddNote(ctx, ref, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Note %s saved\n", note.LocalID)
	return nil
}

func (a *App) EditNote(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter note id")
	if err != nil {
		return err
	}
	content, err := AskNoteText(a.reader, "New note text", a.out)
	if err != nil {
		return err
	}
	if _, err := a.jobs.EditNote(ctx, id, content); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Note updated")
	return nil
}

// AddVideo stages a copy of a local file; the original can be removed once
// this returns.
func (a *App) AddVideo(ctx context.Context, args []string) error {
	ref, err := a.argOrPrompt(args, 0, "Enter job id")
	if err != nil {
		return err
	}
	path, err := a.argOrPrompt(args, 1, "Enter video file path")
	if err != nil {
		return err
	}
	v, err := a.jobs.AttachVideo(ctx, ref, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Video queued for upload as %s\n", v.FilePath)
	return nil
}
