package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/orbitduel/internal/audio"
	"github.com/tomz197/orbitduel/internal/loop"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "orbitduel"})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	// Audio is best effort: a failed speaker leaves the game silent.
	player := audio.NewPlayer()
	if err := player.Init(); err != nil {
		logger.Warn("audio unavailable, running silent", "err", err)
	}
	defer player.Close()

	reader := bufio.NewReader(os.Stdin)
	opts := loop.Options{
		Sound:  player,
		Logger: logger,
	}
	if err := loop.Run(reader, os.Stdout, opts); err != nil {
		_ = term.Restore(fd, oldState)
		logger.Fatal("game error", "err", err)
	}
}
