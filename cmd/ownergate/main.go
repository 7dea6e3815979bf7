package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/tzrikka/ownergate/internal/logger"
	"github.com/tzrikka/ownergate/internal/otel"
	"github.com/tzrikka/ownergate/pkg/check"
	"github.com/tzrikka/ownergate/pkg/config"
)

func main() {
	bi, _ := debug.ReadBuildInfo()

	cmd := &cli.Command{
		Name:      "ownergate",
		Usage:     "Check that all code owners have approved a pull request",
		ArgsUsage: "<pr-number> <owner/repo>",
		Version:   bi.Main.Version,
		Flags:     config.Flags(),
		Action:    run,
	}

	err := cmd.Run(context.Background(), os.Args)
	switch {
	case err == nil:
	case errors.Is(err, check.ErrMissingApprovals):
		os.Exit(1) // Per-file annotations were already printed.
	default:
		check.Annotate("%s", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger.Init(cmd.Bool("dev") || cmd.Bool("pretty-log"))

	args := cmd.Args()
	if args.Len() != 2 {
		return fmt.Errorf("expected 2 arguments (PR number, repository), got %d", args.Len())
	}

	number, err := strconv.Atoi(args.Get(0))
	if err != nil {
		return fmt.Errorf("invalid PR number %q", args.Get(0))
	}

	shutdown, err := otel.InitMetrics(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdown(ctx)
	}()

	return check.Run(ctx, cmd, number, args.Get(1))
}
