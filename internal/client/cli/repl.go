package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	AddJob(ctx context.Context) error
	EditJob(ctx context.Context, args []string) error
	DeleteJob(ctx context.Context, args []string) error
	ListJobs(ctx context.Context) error

	Notes(ctx context.Context, args []string) error
	AddNote(ctx context.Context, args []string) error
	EditNote(ctx context.Context, args []string) error
	AddVideo(ctx context.Context, args []string) error

	Sync(ctx context.Context) error
	Pull(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it to a.
//
//	Not logged in:
//	  - help, register, login, exit | quit
//
//	Logged in:
//	  - addjob                    create a job
//	  - editjob [ref]             edit a job
//	  - deljob [ref]              delete a job locally
//	  - jobs | l                  list jobs
//	  - notes [ref]               list the notes of a job
//	  - addnote [ref]             add a note to a job
//	  - editnote [id]             edit a note
//	  - addvideo [ref] [path]     stage a video for upload
//	  - sync                      push local changes now
//	  - pull | refresh [ref]      fetch jobs, or the notes of one job
//	  - status                    show unsynced counts
//	  - logout, exit | quit
//
// A ref is a job's local or server id. Handler errors are printed and the
// loop continues. The loop exits on EOF or exit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("jk %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if requiresLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: addjob, editjob, deljob, (l)jobs, notes, addnote, editnote, addvideo, sync, pull, refresh, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)

		case "addjob":
			cmdErr = a.AddJob(ctx)
		case "editjob":
			cmdErr = a.EditJob(ctx, args)
		case "deljob":
			cmdErr = a.DeleteJob(ctx, args)
		case "l", "jobs":
			cmdErr = a.ListJobs(ctx)

		case "notes":
			cmdErr = a.Notes(ctx, args)
		case "addnote":
			cmdErr = a.AddNote(ctx, args)
		case "editnote":
			cmdErr = a.EditNote(ctx, args)
		case "addvideo":
			cmdErr = a.AddVideo(ctx, args)

		case "sync":
			cmdErr = a.Sync(ctx)
		case "pull", "refresh":
			cmdErr = a.Pull(ctx, args)
		case "status":
			cmdErr = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}

func requiresLogin(cmd string) bool {
	switch cmd {
	case "logout", "addjob", "editjob", "deljob", "l", "jobs", "notes", "addnote",
		"editnote", "addvideo", "sync", "pull", "refresh", "status":
		return true
	}
	return false
}
