package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) AddJob(context.Context) error { return f.record("addjob", nil) }
func (f *fakeExec) EditJob(_ context.Context, args []string) error {
	return f.record("editjob", args)
}
func (f *fakeExec) DeleteJob(_ context.Context, args []string) error {
	return f.record("deljob", args)
}
func (f *fakeExec) ListJobs(context.Context) error { return f.record("jobs", nil) }
func (f *fakeExec) Notes(_ context.Context, args []string) error {
	return f.record("notes", args)
}
func (f *fakeExec) AddNote(_ context.Context, args []string) error {
	return f.record("addnote", args)
}
func (f *fakeExec) EditNote(_ context.Context, args []string) error {
	return f.record("editnote", args)
}
func (f *fakeExec) AddVideo(_ context.Context, args []string) error {
	return f.record("addvideo", args)
}
func (f *fakeExec) Sync(context.Context) error { return f.record("sync", nil) }
func (f *fakeExec) Pull(_ context.Context, args []string) error {
	return f.record("pull", args)
}
func (f *fakeExec) Status(context.Context) error { return f.record("status", nil) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func runLines(exec *fakeExec, lines ...string) {
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, r)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runLines(exec,
		"help",
		"login",
		"help",
		"addjob",
		"jobs",
		"editjob abc",
		"addnote abc",
		"addvideo abc /tmp/v.mp4",
		"refresh abc",
		"sync",
		"status",
		"foobar",
		"exit",
		"jobs",
	)

	assert.Equal(t, []string{"login", "addjob", "jobs", "editjob", "addnote", "addvideo", "pull", "sync", "status"}, exec.calls)
	assert.Equal(t, []string{"abc", "/tmp/v.mp4"}, exec.args[5])
	assert.Equal(t, []string{"abc"}, exec.args[6])
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runLines(exec, "addjob", "sync", "quit")

	assert.Empty(t, exec.calls)
	assert.Contains(t, strings.Join(*out, ""), "Please login first")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	runLines(exec, "jobs", "status")

	assert.Equal(t, []string{"jobs", "status"}, exec.calls)
	assert.Contains(t, strings.Join(*out, ""), "Error: boom")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runLines(exec, "", "   ", "sync")

	assert.Equal(t, []string{"sync"}, exec.calls)
}
