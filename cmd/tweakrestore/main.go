package main

import (
	"context"
	"os"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/danieljhkim/tweakrestore/internal/cli"
)

var version = "dev"

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	cli.SetVersion(version)
	if err := cli.Execute(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("tweakrestore command failed")
		return 1
	}
	return 0
}
