package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-cmd/cmd"
	"github.com/sirupsen/logrus"
)

// runStreaming runs name with args, forwarding its output lines to log,
// until it exits or ctx is done. Stopping it on cancellation is not an error.
func runStreaming(ctx context.Context, log logrus.FieldLogger, name string, args ...string) error {
	c := cmd.NewCmdOptions(cmd.Options{Streaming: true}, name, args...)
	statusCh := c.Start()

	stdout, stderr := c.Stdout, c.Stderr
	for {
		select {
		case <-ctx.Done():
			if err := c.Stop(); err != nil {
				log.WithError(err).Warn("failed to stop process")
			}
			<-statusCh
			return nil
		case line, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			if line = strings.TrimSpace(line); line != "" {
				log.Info(line)
			}
		case line, ok := <-stderr:
			if !ok {
				stderr = nil
				continue
			}
			if line = strings.TrimSpace(line); line != "" {
				log.Warn(line)
			}
		case status := <-statusCh:
			return exitError(name, status)
		}
	}
}

// runBuffered runs name to completion and returns its combined output
func runBuffered(ctx context.Context, name string, args ...string) ([]string, error) {
	c := cmd.NewCmdOptions(cmd.Options{Buffered: true}, name, args...)
	statusCh := c.Start()

	select {
	case <-ctx.Done():
		c.Stop()
		<-statusCh
		return nil, ctx.Err()
	case status := <-statusCh:
		output := append(status.Stdout, status.Stderr...)
		return output, exitError(name, status)
	}
}

func exitError(name string, status cmd.Status) error {
	if status.Error != nil {
		return fmt.Errorf("%s: %w", name, status.Error)
	}
	if status.Exit != 0 {
		msg := fmt.Sprintf("%s exited with status %d", name, status.Exit)
		if len(status.Stderr) > 0 {
			msg += ": " + strings.Join(status.Stderr, "; ")
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
