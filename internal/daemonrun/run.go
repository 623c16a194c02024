// Package daemonrun wires the daemon process: logger, workspace, history
// journal, sort engine, scheduler, watcher, and the control socket. It is
// the body of the `dropsort daemon run` command.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"dropsort/internal/categories"
	"dropsort/internal/config"
	"dropsort/internal/daemon"
	"dropsort/internal/history"
	"dropsort/internal/ipc"
	"dropsort/internal/logging"
	"dropsort/internal/notifications"
	"dropsort/internal/scheduler"
	"dropsort/internal/sorter"
	"dropsort/internal/watcher"
	"dropsort/internal/workspace"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
	// SocketPath overrides the derived control socket path when non-empty.
	SocketPath string
	// AutoStart begins sorting immediately instead of waiting for a start
	// request over the control socket.
	AutoStart bool
}

// Run starts the dropsort daemon runtime loop and blocks until the process
// receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	manager, err := workspace.DefaultManager()
	if err != nil {
		return fmt.Errorf("resolve workspace manager: %w", err)
	}
	ws, err := manager.Resolve(cfg.Paths.Workspace)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	if err := ws.Ensure(); err != nil {
		return fmt.Errorf("prepare workspace: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "dropsortd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	hist, err := history.Open(ws.StateDir())
	if err != nil {
		logger.Error("open history journal", logging.Error(err))
		return err
	}
	defer hist.Close()

	notifier := notifications.NewService(cfg)
	source := categories.NewStore(ws.StateDir(), cfg.Sorter.FallbackCategory)
	engine := sorter.NewEngineWithDependencies(cfg, source, hist, notifier, logger)
	sched := scheduler.New(cfg, engine, ws, notifier, logger)

	var watch *watcher.Watcher
	if cfg.Watcher.Enabled {
		watch = watcher.New(cfg, sched, logger)
	}

	d, err := daemon.New(cfg, ws, sched, watch, hist, notifier, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := cfg.SocketPath()
	if opts.SocketPath != "" {
		socketPath = opts.SocketPath
	}
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if opts.AutoStart {
		if err := d.Start(signalCtx); err != nil {
			logger.Warn("daemon start failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check workspace access and any other running instance"),
			)
		}
	}

	logger.Info("dropsort daemon ready",
		logging.String("socket", socketPath),
		logging.String("workspace", ws.Root),
		logging.Bool("auto_start", opts.AutoStart),
	)

	<-signalCtx.Done()
	logger.Info("dropsort daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
