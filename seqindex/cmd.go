package seqindex

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

type IndexParams struct {
	File string `help:"Index file" default:"out/videos.toml" type:"path"`
}

type CLICmd struct {
	List struct {
		IndexParams
	} `cmd:"" help:"List inputs and their sequence numbers"`
	Forget struct {
		IndexParams
		Input string `arg:"" help:"Input identifier to remove"`
	} `cmd:"" help:"Remove an input from the index so it gets a new sequence number"`

	out io.Writer `kong:"-"`
}

func (c *CLICmd) Run(kctx *kong.Context) error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	switch kctx.Selected().Name {
	case "list":
		t, err := Load(c.List.File)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, t.String())
		return err
	case "forget":
		t, err := Load(c.Forget.File)
		if err != nil {
			return err
		}
		if !t.Remove(c.Forget.Input) {
			return fmt.Errorf("input %q not found in %q", c.Forget.Input, c.Forget.File)
		}
		return t.Save(c.Forget.File)
	}
	return fmt.Errorf("unsupported index operation %q", kctx.Selected().Name)
}
