package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/jobkeeper/internal/client/cli"
	"github.com/dmitrijs2005/jobkeeper/internal/client/client"
	"github.com/dmitrijs2005/jobkeeper/internal/client/config"
	"github.com/dmitrijs2005/jobkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/jobkeeper/internal/client/scheduler"
	"github.com/dmitrijs2005/jobkeeper/internal/client/services"
	"github.com/dmitrijs2005/jobkeeper/internal/client/staging"
	"github.com/dmitrijs2005/jobkeeper/internal/client/store"
	"github.com/dmitrijs2005/jobkeeper/internal/client/syncer"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
)

const stagingDebounce = 2 * time.Second

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	log, closer := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, MaxSizeMB: 10, MaxBackups: 3})
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer st.Close()

	var auth services.AuthService
	api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, client.TokenFunc(func(ctx context.Context) (string, error) {
		return auth.Token(ctx)
	}), log)
	auth = services.NewAuthService(api, st, log)

	monitor := connectivity.NewMonitor(api, cfg.OnlineCheckInterval, log)

	stager, err := staging.NewStager(cfg.StagingDir)
	if err != nil {
		return err
	}

	engine := syncer.New(st, api, monitor, log, syncer.Options{
		Concurrency: cfg.SyncConcurrency,
		PullOnSync:  cfg.PullOnSync,
		OnUploaded: func(path string) {
			if err := stager.Discard(path); err != nil {
				log.Warn(ctx, "discard uploaded video", "path", path, "error", err)
			}
		},
	})
	go invalidateOnReject(ctx, engine, auth, log)

	followConn := engine.Follow(monitor)
	monitor.Start(ctx)

	watcher, err := staging.NewWatcher(stager.Dir(), stagingDebounce, engine.Trigger, log)
	if err != nil {
		return err
	}
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error(ctx, "staging watcher stopped", "error", err)
		}
	}()

	if cfg.SyncSchedule != "" {
		sched, err := scheduler.New(cfg.SyncSchedule, log)
		if err != nil {
			return err
		}
		err = sched.Start(ctx, func(ctx context.Context) {
			if _, err := engine.SyncNow(ctx); err != nil {
				log.Debug(ctx, "scheduled sync", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		_ = followConn(ctx)
	}()

	jobs := services.NewJobService(st, engine, stager)
	app := cli.NewApp(jobs, auth, engine, monitor, os.Stdin, os.Stdout, log)

	replDone := make(chan struct{})
	go func() {
		defer close(replDone)
		app.Run(ctx)
	}()

	select {
	case <-replDone:
	case <-ctx.Done():
	}
	stop()
	<-engineDone
	return nil
}

// invalidateOnReject drops the stored token once the backend rejects it, so
// the prompt can ask the user to login again.
func invalidateOnReject(ctx context.Context, engine *syncer.Engine, auth services.AuthService, log logging.Logger) {
	ch, cancel := engine.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Kind != syncer.EventUnauthorized {
				continue
			}
			if err := auth.Invalidate(ctx); err != nil {
				log.Error(ctx, "invalidate session", "error", err)
			}
		}
	}
}
