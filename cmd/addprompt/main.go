package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

const (
	appName        = "addprompt"
	appDescription = "Adds the caption of prompt.txt below image.png in every folder of a base path."
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()

	os.Exit(exitCode(err, interrupted))
}

// exitCode maps the result of a run to the process exit status: 0 on
// success, 130 when interrupted and 1 otherwise.
func exitCode(err error, interrupted bool) int {
	switch {
	case err == nil:
		return 0
	case interrupted || errors.Is(err, context.Canceled):
		log.Warn("interrupted, stopped before all folders were processed")
		return 130
	case errors.Is(err, errUsage):
		return 1
	default:
		log.WithFields(log.Fields{
			"app.name": appName,
			"error":    err.Error(),
		}).Error("application exited with an error")
		return 1
	}
}
