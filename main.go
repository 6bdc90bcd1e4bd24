package main

import (
	"log/slog"
	"os"

	"framediff/diff"
	"framediff/parallel"
	"framediff/seqindex"

	"github.com/alecthomas/kong"
)

type cli struct {
	LogLevel  slog.Level `help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string     `help:"Log output format" enum:"text,json" default:"text"`

	Diff  diff.CLICmd     `cmd:"" help:"Write the difference between consecutive frames of an input"`
	Index seqindex.CLICmd `cmd:"" help:"Inspect the sequence index"`
}

func (c *cli) AfterApply() error {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("framediff"),
		kong.Description("Frame difference extraction for picture sequences."),
		kong.UsageOnError(),
	)

	pool := parallel.Start(c.Diff.Workers)
	err := kctx.Run(pool.Do, pool.Wait)
	kctx.FatalIfErrorf(err)
}
