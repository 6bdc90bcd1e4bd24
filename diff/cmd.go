// Package diff turns a picture sequence into frame difference pictures:
// every output frame holds the per channel absolute difference between a
// frame and the one before it.
package diff

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"framediff/frame"
	"framediff/parallel"
	"framediff/seqindex"
	"framediff/smooth"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Input       string  `arg:"" help:"Animated GIF, PPM or still picture to process" type:"existingfile"`
	Out         string  `help:"Destination folder for difference sequences" default:"out" type:"path"`
	Index       string  `help:"Sequence index file. Relative to out dir if not absolute." default:"videos.toml"`
	Format      string  `help:"Output format of difference frames" enum:"ppm,ppm.zst,png,bmp,tiff" default:"ppm"`
	PixelFormat string  `help:"Working pixel format of decoded frames" enum:"rgb24,bgr24,argb32,bgra32,rgba32" default:"rgb24"`
	Width       int     `help:"Max width" group:"scale"`
	Height      int     `help:"Max height" group:"scale"`
	Crop        bool    `help:"Crop frames to maintain requested aspect ratio" default:"false" group:"scale"`
	Fill        string  `help:"If given and not cropping, will fill background with this color to maintain destination aspect ratio" group:"scale"`
	Filter      string  `help:"Scaling filter (nearest, approxbilinear, bilinear, catmullrom)" default:"bilinear" group:"scale"`
	Gain        float64 `help:"Multiply differences by this factor, wrapping at 256" default:"1" group:"diff"`
	Invert      bool    `help:"Invert difference frames" default:"false" group:"diff"`
	InvertStill bool    `help:"Invert difference frames with no motion at all" default:"false" group:"diff"`
	Smoothing   float64 `help:"Weight of the previous motion level when smoothing, in [0, 1]" default:"0.9" group:"diff"`
	Perceptual  bool    `help:"Also log the mean CIEDE2000 distance between frames" default:"false" group:"diff"`
	Workers     int     `help:"Number of concurrent frame writers, 0 for one per CPU" default:"0"`
	DryRun      bool    `help:"Compute differences without writing frames or the index" default:"false"`

	scaler frame.Scaler `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	input, err := filepath.Abs(c.Input)
	if err != nil {
		return fmt.Errorf("invalid input path %q: %w", c.Input, err)
	}
	c.Input = input

	if !filepath.IsAbs(c.Index) {
		c.Index = filepath.Join(c.Out, c.Index)
	}

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid height: %d", c.Height)
	case c.Gain < 0:
		return fmt.Errorf("invalid gain: %g", c.Gain)
	case c.Smoothing < 0 || c.Smoothing > 1:
		return fmt.Errorf("invalid smoothing: %g", c.Smoothing)
	case c.Workers < 0:
		return fmt.Errorf("invalid number of workers: %d", c.Workers)
	}

	c.scaler = frame.Scaler{Width: c.Width, Height: c.Height, Crop: c.Crop}
	if c.scaler.Format, err = frame.ParsePixelFormat(c.PixelFormat); err != nil {
		return err
	}
	if c.scaler.Filter, err = frame.ParseFilter(c.Filter); err != nil {
		return err
	}
	if !c.Crop && c.Fill != "" {
		if c.scaler.Fill, err = frame.ParseHexColor(c.Fill); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	src, err := frame.Open(c.Input, &c.scaler)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			slog.Error("could not close input", "file", c.Input, "error", closeErr)
		}
	}()
	rate := src.Rate()

	index, err := seqindex.Load(c.Index)
	if err != nil {
		return err
	}
	rec, created := index.Acquire(c.Input, rate.Num, rate.Den)
	if created && !c.DryRun {
		if err := index.Save(c.Index); err != nil {
			return err
		}
	}

	dir := sequenceDir(c.Out, rec.Index)
	if !c.DryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create destination folder %q: %w", dir, err)
		}
	}

	logger := slog.Default().With("sequence", rec.Index)
	logger.Info("starting processing", "file", c.Input, "rate", rate, "dir", dir)

	proc := &processor{
		gain:        c.Gain,
		invert:      c.Invert,
		invertStill: c.InvertStill,
		perceptual:  c.Perceptual,
		motion:      smooth.New(c.Smoothing),
	}

	var producedCount, skippedCount, errCount atomic.Uint64
	var prev *frame.Frame
	for {
		cur, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errCount.Add(1)
			logger.Error("could not decode frame", "error", err)
			break
		}
		frameLog := logger.With("frame", cur.Index)

		path := framePath(dir, cur.Index, c.Format)
		found, err := exists(path)
		if err != nil {
			errCount.Add(1)
			frameLog.Error("could not check destination", "error", err)
			prev = cur
			continue
		}
		if found {
			skippedCount.Add(1)
			frameLog.Debug("frame already produced", "path", path)
			prev = cur
			continue
		}

		start := time.Now()
		next := cur.Clone()
		cloneTime := time.Since(start)

		start = time.Now()
		st, err := proc.process(prev, cur)
		transformTime := time.Since(start)
		prev = next
		if err != nil {
			errCount.Add(1)
			frameLog.Error("could not process frame", "error", err)
			continue
		}

		if c.DryRun {
			producedCount.Add(1)
			frameLog.Info("frame processed", "mean", st.mean, "smoothed", st.smoothed,
				"perceptual", st.perceptual, "clone", cloneTime, "transform", transformTime)
			continue
		}

		worker(func() error {
			b, err := cur.Bitmap()
			if err != nil {
				errCount.Add(1)
				frameLog.Error("could not view frame", "error", err)
				return nil
			}
			start := time.Now()
			if err := save(b, c.Format, path); err != nil {
				errCount.Add(1)
				frameLog.Error("could not save frame", "path", path, "error", err)
				return nil
			}
			producedCount.Add(1)
			frameLog.Info("frame produced", "mean", st.mean, "smoothed", st.smoothed,
				"perceptual", st.perceptual, "clone", cloneTime, "transform", transformTime,
				"save", time.Since(start))
			return nil
		})
	}

	if err := wait(); err != nil {
		return err
	}

	produced := producedCount.Load()
	skipped := skippedCount.Load()
	errors := errCount.Load()
	level, _ := proc.motion.Value()
	logger.Info("stats", "produced", produced, "skipped", skipped, "errors", errors,
		"motion", level, "total", produced+skipped+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d frames", errors)
	}
	return nil
}
