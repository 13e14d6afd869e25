// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command img2ascii converts an image into ASCII art.
//
// By default the converted text is written to stdout; --watch opens an
// interactive terminal viewer that refits the art on every resize.
package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/gogpu/ascii"
	_ "github.com/gogpu/ascii/gpu" // enable GPU conversion
)

func main() {
	app := cli.NewApp()

	app.Name = "img2ascii"
	app.Usage = "convert an image to ASCII art"
	app.ArgsUsage = "<image file>"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "width, w",
			Value: 120,
			Usage: "output width in characters (0 = image width)",
		},
		cli.StringFlag{
			Name:  "charset, c",
			Usage: "path to a 256-entry levels file (dark to light)",
		},
		cli.StringFlag{
			Name:  "pack, p",
			Value: "none",
			Usage: "output packing: none, word or unit",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "CPU worker count (0 = GOMAXPROCS)",
		},
		cli.BoolFlag{
			Name:  "no-gpu",
			Usage: "disable the GPU backend",
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "write output to a file instead of stdout",
		},
		cli.BoolFlag{
			Name:  "watch",
			Usage: "open an interactive terminal viewer",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "enable debug logging to stderr",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "img2ascii:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing image file argument")
	}

	if c.Bool("verbose") {
		ascii.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	src, err := loadStdImage(c.Args().First())
	if err != nil {
		return err
	}

	table := ascii.DefaultTable()
	if path := c.String("charset"); path != "" {
		table, err = ascii.LoadTable(path)
		if err != nil {
			return err
		}
	}

	packing, err := ascii.ParsePacking(c.String("pack"))
	if err != nil {
		return err
	}

	opts := []ascii.Option{
		ascii.WithTable(table),
		ascii.WithPacking(packing),
		ascii.WithDownsample(true),
		ascii.WithWorkers(c.Int("workers")),
		ascii.WithGPU(!c.Bool("no-gpu")),
	}

	if c.Bool("watch") {
		return runViewer(src, packing, opts)
	}

	conv := ascii.NewConverter(opts...)
	defer conv.Close()

	w, h := ascii.FitColumns(src, c.Int("width"), packing, true)
	frame, err := conv.Convert(ascii.FromImage(ascii.Resize(src, w, h)))
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		return os.WriteFile(out, []byte(frame.String()+"\n"), 0o644)
	}
	_, err = fmt.Println(frame)
	return err
}

// loadStdImage decodes an image file, keeping the standard image type so
// the viewer can rescale it per terminal size.
func loadStdImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
