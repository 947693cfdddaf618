package main

import (
	"io"
	"log/slog"
	"os"

	"chanrot/capacity"
	"chanrot/hide"
	"chanrot/parallel"
	"chanrot/reveal"

	"github.com/alecthomas/kong"
)

type cli struct {
	Workers   int        `help:"Number of images processed in parallel, 0 for one per CPU" default:"0" env:"CHANROT_WORKERS"`
	LogLevel  slog.Level `help:"Minimum log level (debug, info, warn, error)" default:"info" env:"CHANROT_LOG_LEVEL"`
	LogFormat string     `help:"Log output format" enum:"text,json" default:"text" env:"CHANROT_LOG_FORMAT"`

	Hide     hide.CLICmd     `cmd:"" help:"Hide a message in images by rotating pixel color channels"`
	Reveal   reveal.CLICmd   `cmd:"" help:"Reveal a message by comparing stego images with their original"`
	Capacity capacity.CLICmd `cmd:"" help:"Show how many characters images can hold"`
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("chanrot"),
		kong.Description("Hide text in lossless images by permuting color channels."),
		kong.UsageOnError(),
	)

	slog.SetDefault(newLogger(os.Stderr, c.LogLevel, c.LogFormat))
	slog.Debug("running", "command", kctx.Command(), "workers", c.Workers)

	kctx.BindTo(os.Stdout, (*io.Writer)(nil))
	err := kctx.Run(parallel.Start(c.Workers))
	kctx.FatalIfErrorf(err)
}
