package main

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/orbitduel/internal/config"
	"github.com/tomz197/orbitduel/internal/draw"
	"github.com/tomz197/orbitduel/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	shutdownTimeout    = 5 * time.Second
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "orbitduel-ssh"})

func main() {
	if err := run(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func run() error {
	addr := net.JoinHostPort(
		config.GetEnv("SSH_HOST", defaultHost),
		config.GetEnv("SSH_PORT", defaultPort),
	)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Game input is latency sensitive; disable Nagle's algorithm.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "hostKey", hostKeyPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		logger.Info("shutting down", "signal", s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// gameMiddleware runs a private match for each SSH session. Both
// players share the session's keyboard, so a pair can duel over one
// connection (e.g. tmux or a shared terminal).
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		slog := logger.With("user", sess.User())
		slog.Info("new session", "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		tracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				tracker.update(win.Width, win.Height)
			}
		}()

		err := loop.Run(bufio.NewReader(sess), sess, loop.Options{
			TermSizeFunc: tracker.getSize,
			Logger:       slog,
		})
		if err != nil {
			slog.Error("game error", "err", err)
		}
		slog.Info("session ended")

		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu   sync.RWMutex
	size draw.Screen
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{size: draw.Screen{Width: width, Height: height}}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = draw.Screen{Width: width, Height: height, CenterX: width / 2, CenterY: height / 2}
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size.Width, s.size.Height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
