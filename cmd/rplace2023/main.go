// Command rplace2023 converts the r/place 2023 CSV placement history
// into a compact binary log, reports summary statistics over it, and
// replays it on screen via a GPU compute-shader canvas reconstruction.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ComfyFluffy/rplace-2023/canvas"
	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/driver"
	_ "github.com/ComfyFluffy/rplace-2023/driver/wgpuhal"
	"github.com/ComfyFluffy/rplace-2023/ingest"
	"github.com/ComfyFluffy/rplace-2023/internal/config"
	"github.com/ComfyFluffy/rplace-2023/query"
	_ "github.com/ComfyFluffy/rplace-2023/wsi/glfw"
)

func main() {
	config.InitLogging()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "query":
		err = runQuery(os.Args[2:])
	case "view":
		err = runView(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Printf("rplace2023: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rplace2023 <convert|query|view> [flags]")
}

// runConvert compacts the CSV shard directory into a single
// gzip-enveloped binary log.
func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	dir := fs.String("dir", ".", "directory containing the CSV history shards")
	out := fs.String("out", "pixels.bin.gz", "output path for the binary event log")
	fs.Parse(args)

	return ingest.ConvertShards(context.Background(), *dir, *out)
}

// runQuery prints summary statistics over a binary log.
func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	path := fs.String("log", "pixels.bin.gz", "binary event log to analyze")
	fs.Parse(args)

	r, err := codec.Open(*path)
	if err != nil {
		return err
	}
	defer r.Close()

	rep, err := query.Scan(r)
	if err != nil {
		return err
	}
	printReport(rep)
	return nil
}

func printReport(rep *query.Report) {
	fmt.Printf("points: %d (min=%+v max=%+v)\n", rep.PointCount, rep.MinPoint, rep.MaxPoint)
	fmt.Printf("never-written pixels: %d\n", rep.NeverWritten)
	fmt.Printf("large discs (r>10): %d\n", len(rep.LargeDiscs))
	for _, e := range rep.LargeDiscs {
		fmt.Printf("  t=%dms center=(%d,%d) r=%d\n", e.TMs, e.Shape.Disc.X, e.Shape.Disc.Y, e.Shape.Disc.R)
	}
	fmt.Printf("large rects (>10x10): %d\n", len(rep.LargeRects))
	for _, e := range rep.LargeRects {
		fmt.Printf("  t=%dms (%d,%d)-(%d,%d)\n", e.TMs, e.Shape.Rect.X1, e.Shape.Rect.Y1, e.Shape.Rect.X2, e.Shape.Rect.Y2)
	}
}

// runView opens the default GPU driver and replays the log in a
// window at the given speed multiplier.
func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	path := fs.String("log", "pixels.bin.gz", "binary event log to replay")
	speed := fs.Uint("speed", 1, "playback speed multiplier")
	fs.Parse(args)

	r, err := codec.Open(*path)
	if err != nil {
		return err
	}
	defer r.Close()

	drivers := driver.Drivers()
	if len(drivers) == 0 {
		return driver.ErrNotInstalled
	}
	gpu, err := drivers[0].Open()
	if err != nil {
		return err
	}
	defer drivers[0].Close()

	present, ok := gpu.(driver.Presenter)
	if !ok {
		return driver.ErrCannotPresent
	}

	v, err := canvas.NewViewer(gpu, present, uint32(*speed))
	if err != nil {
		return err
	}
	defer v.Destroy()

	v.Run(r)
	return nil
}
