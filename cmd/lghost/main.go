// Copyright 2025 go-lghost Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command lghost applies ghost reduction to image files.
//
// Usage:
//
//	lghost -mode 1,2 -shift 4,-3 -intensity 40,-20 frame0001.png frame0002.png
//	lghost -mode 3 -shift 6 -intensity 90 -planes 0,1,2 -opt 256 -outdir out scan.tiff
//	lghost -float -mode 1 -shift 2 -intensity 100 photo.jpg
//
// Inputs may be PNG, TIFF, BMP, JPEG or WebP. Gray images are filtered as
// gray, JPEG and lossy WebP as YUV, everything else as RGB (16-bit when the
// source is). Results are written next to the inputs with a "_lghost" suffix,
// or with their original names into -outdir. JPEG and WebP inputs are written
// as PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/ajroetker/go-lghost/hwy"
	"github.com/ajroetker/go-lghost/hwy/contrib/ghost"
)

var (
	modeList      = flag.String("mode", "1", "Comma-separated tap modes: 1 rise-fall, 2 level, 3 rise only, 4 fall only")
	shiftList     = flag.String("shift", "", "Comma-separated tap shifts in pixels, one per mode (required)")
	intensityList = flag.String("intensity", "", "Comma-separated tap intensities in [-128, 127], one per mode (required)")
	planeList     = flag.String("planes", "", "Comma-separated planes to filter (default: 0 for gray and YUV, all for RGB)")
	opt           = flag.String("opt", "auto", "Kernel width: auto, scalar, 128, 256, 512 (or 0-4)")
	workers       = flag.Int("workers", runtime.GOMAXPROCS(0), "Number of worker goroutines")
	floatMode     = flag.Bool("float", false, "Filter in 32-bit float instead of integer samples")
	outDir        = flag.String("outdir", "", "Output directory (default: next to each input)")
	verbose       = flag.Bool("v", false, "Log kernel selection and per-file progress")
)

// config is the parsed command line.
type config struct {
	params  ghost.Params
	workers int
	float   bool
	outDir  string
}

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ghost.SetLogger(logger)

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: no input files\n\n")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger.Info("lghost: starting",
		"files", flag.NArg(),
		"level", hwy.CurrentName(),
		"opt", cfg.params.Opt.String(),
		"workers", cfg.workers)

	if err := run(context.Background(), logger, cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseConfig() (config, error) {
	var cfg config
	var err error
	if cfg.params.Mode, err = parseIntList("mode", *modeList); err != nil {
		return cfg, err
	}
	if cfg.params.Shift, err = parseIntList("shift", *shiftList); err != nil {
		return cfg, err
	}
	if cfg.params.Intensity, err = parseIntList("intensity", *intensityList); err != nil {
		return cfg, err
	}
	if cfg.params.Planes, err = parseIntList("planes", *planeList); err != nil {
		return cfg, err
	}
	if cfg.params.Opt, err = ghost.ParseCapability(*opt); err != nil {
		return cfg, err
	}
	if len(cfg.params.Shift) == 0 || len(cfg.params.Intensity) == 0 {
		return cfg, fmt.Errorf("-shift and -intensity are required")
	}
	cfg.workers = max(*workers, 1)
	cfg.float = *floatMode
	cfg.outDir = *outDir
	return cfg, nil
}

// parseIntList parses a comma-separated list of integers. An empty string
// yields a nil list.
func parseIntList(name, s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("-%s: invalid integer %q", name, part)
		}
		out = append(out, n)
	}
	return out, nil
}
