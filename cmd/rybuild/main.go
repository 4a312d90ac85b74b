// Package main is the entry point for the rybuild build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/rybuild/cmd/rybuild/commands"
	"go.trai.ch/rybuild/internal/app"
	"go.trai.ch/rybuild/internal/core/domain"
	_ "go.trai.ch/rybuild/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr,
		func(ctx context.Context) (*app.Components, func(), error) {
			c, _, err := graft.ExecuteFor[*app.Components](ctx)
			return c, func() {}, err
		}))
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// No logger yet.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()
	defer func() { _ = components.App.Close() }()

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		var failed *domain.FailedModulesError
		if errors.As(err, &failed) && len(failed.Modules) > 0 {
			if failed.Cause != nil {
				components.Logger.Error(failed.Cause)
			}
			_, _ = fmt.Fprintln(stderr, "Build failed for modules: "+strings.Join(failed.Modules, ", "))
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
