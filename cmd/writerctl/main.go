// Command writerctl is a terminal client for the writerhub API. The signed-in
// identity is kept in a session file (or Redis key) between invocations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/writerhub/marketplace/internal/client"
	"github.com/writerhub/marketplace/internal/infrastructure/config"
	redisstore "github.com/writerhub/marketplace/internal/infrastructure/db/redis"
	"github.com/writerhub/marketplace/internal/infrastructure/queue"
	"github.com/writerhub/marketplace/internal/session"
	"github.com/writerhub/marketplace/pkg/logger"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app is what a command runs against.
type app struct {
	manager *session.Manager
	client  *client.Client
	in      io.Reader
	out     io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	stderr = &lockedWriter{w: stderr}
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return exitUsage
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return exitUsage
	}

	fs := pflag.NewFlagSet("writerctl "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.Flags(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsage
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: stderr})

	c, err := client.New(cfg.ServerURL, nil)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}

	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	defer closeStore()

	dispatcher := queue.NewDispatcher(1, queue.MultiSink{
		queue.NewWriterSink(stderr),
		queue.NewLogSink(log.With().Str("component", "notify").Logger()),
	}, log)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	manager := session.NewManager(store, c, dispatcher, log).WithChannel(cfg.Session.Channel)
	if err := manager.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore session")
	}

	a := &app{manager: manager, client: c, in: stdin, out: stdout}
	if err := cmd.run(ctx, a, fs); err != nil {
		log.Debug().Err(err).Str("command", name).Msg("command failed")
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}
	return exitOK
}

func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.Session.Backend != config.BackendRedis {
		return session.NewFileStore(cfg.Session.Path), func() {}, nil
	}
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewSessionStore(rdb, cfg.Redis.Key), func() { _ = rdb.Close() }, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: writerctl <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}
}

// lockedWriter serializes writes from the notification worker and the
// command itself.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
