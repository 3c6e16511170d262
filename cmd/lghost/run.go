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

package main

import (
	"bufio"
	"context"
	"fmt"
	stdimage "image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-lghost/hwy/contrib/ghost"
	"github.com/ajroetker/go-lghost/hwy/contrib/image"
	"github.com/ajroetker/go-lghost/hwy/contrib/workerpool"
)

// run loads every input, filters all pictures of the same shape with one
// filter on a shared pool and writes the results.
func run(ctx context.Context, logger *slog.Logger, cfg config, paths []string) error {
	outs, err := outputPaths(paths, cfg.outDir)
	if err != nil {
		return err
	}
	if cfg.outDir != "" {
		if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
			return err
		}
	}

	pics := make([]*picture, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := load(path)
			if err != nil {
				return err
			}
			if cfg.float {
				p.promote()
			}
			logger.Debug("lghost: loaded", "path", path, "format", p.format.String(), "width", p.width, "height", p.height)
			pics[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	pool := workerpool.New(cfg.workers)
	defer pool.Close()
	if err := filterPictures(logger, cfg.params, pool, pics); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, p := range pics {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := outs[i]
			if err := save(out, p); err != nil {
				return err
			}
			logger.Info("lghost: wrote", "path", out)
			return nil
		})
	}
	return g.Wait()
}

// frameKey identifies pictures that can share a filter.
type frameKey struct {
	format image.Format
	width  int
	height int
}

func filterPictures(logger *slog.Logger, params ghost.Params, pool *workerpool.Pool, pics []*picture) error {
	var keys []frameKey
	groups := make(map[frameKey][]*picture)
	for _, p := range pics {
		k := frameKey{format: p.format, width: p.width, height: p.height}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], p)
	}

	for _, k := range keys {
		var err error
		switch {
		case k.format.SampleType == image.Float:
			err = filterGroup[float32](k, params, pool, groups[k])
		case k.format.BytesPerSample() == 1:
			err = filterGroup[uint8](k, params, pool, groups[k])
		default:
			err = filterGroup[uint16](k, params, pool, groups[k])
		}
		if err != nil {
			return err
		}
		logger.Debug("lghost: filtered", "format", k.format.String(), "width", k.width, "height", k.height, "files", len(groups[k]))
	}
	return nil
}

func filterGroup[P image.Pixel](key frameKey, params ghost.Params, pool *workerpool.Pool, group []*picture) error {
	f, err := ghost.New[P](key.format, key.width, key.height, params, ghost.WithPool(pool))
	if err != nil {
		return fmt.Errorf("%s: %w", group[0].path, err)
	}

	frames := make([]*image.Frame[P], len(group))
	for i, p := range group {
		frames[i] = p.frame.(*image.Frame[P])
	}
	out, err := f.ProcessFrames(frames)
	if err != nil {
		return fmt.Errorf("%s %dx%d: %w", key.format, key.width, key.height, err)
	}
	for i, p := range group {
		p.frame = out[i]
	}
	return nil
}

func load(path string) (*picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := stdimage.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return newPicture(path, img), nil
}

func save(path string, p *picture) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	img := p.image()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case ".bmp":
		err = bmp.Encode(w, img)
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return w.Flush()
}

// outputPaths maps every input to its output path and rejects inputs that
// would be written to the same file.
func outputPaths(paths []string, outDir string) ([]string, error) {
	outs := make([]string, len(paths))
	from := make(map[string]string, len(paths))
	for i, in := range paths {
		out := outputPath(in, outDir)
		if prev, ok := from[out]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, in, out)
		}
		from[out] = in
		outs[i] = out
	}
	return outs, nil
}

// outputPath keeps the input's encoder when there is one and falls back to
// PNG for decode-only formats.
func outputPath(in, outDir string) string {
	dir, base := filepath.Split(in)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	switch strings.ToLower(ext) {
	case ".png", ".tif", ".tiff", ".bmp":
	default:
		ext = ".png"
	}
	if outDir != "" {
		return filepath.Join(outDir, name+ext)
	}
	return filepath.Join(dir, name+"_lghost"+ext)
}
