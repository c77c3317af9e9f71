package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mrdunski/subscription-updater/cmd/history"
	"github.com/mrdunski/subscription-updater/cmd/prepare"
	"github.com/mrdunski/subscription-updater/cmd/run"
	"github.com/mrdunski/subscription-updater/cmd/serve"
	"github.com/mrdunski/subscription-updater/cmd/status"
	"github.com/mrdunski/subscription-updater/logger"
	"github.com/mrdunski/subscription-updater/telemetry"
)

var CLI struct {
	logger.LogConfig
	telemetry.TeleConfig
	Config kong.ConfigFlag `help:"JSON file with flag values." env:"UPDATER_CONFIG" optional:""`

	Run     run.Cmd     `cmd:"" help:"runs a single update cycle"`
	Prepare prepare.Cmd `cmd:"" help:"writes the blocked users file only"`
	Status  status.Cmd  `cmd:"" help:"lists changes of the working tree"`
	Serve   serve.Cmd   `cmd:"" help:"runs update cycles on schedule, file changes and manual dispatch"`
	History history.Cmd `cmd:"" help:"lists published commits"`
}

func main() {
	kongCtx := kong.Parse(&CLI,
		kong.Name("subscription-updater"),
		kong.Description("Keeps a subscription repository up to date."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "/etc/subscription-updater.json", "~/.subscription-updater.json"),
	)
	CLI.LogConfig.InitLogger(kongCtx)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := CLI.TeleConfig.NewRecorder()
	kongCtx.BindTo(ctx, (*context.Context)(nil))
	kongCtx.BindTo(recorder, (*telemetry.ContinuousRecorder)(nil))

	err := kongCtx.Run()
	recorder.Record()
	kongCtx.FatalIfErrorf(err)
}
