// Package build drives hdimage setup and generation for a set of images,
// in dependency order.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nrednav/cuid2"
	"github.com/onkernel/hdimage/lib/hdimage"
	"github.com/onkernel/hdimage/lib/logger"
	"github.com/onkernel/hdimage/lib/padfile"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Target is one image to build
type Target struct {
	Image hdimage.Image
	Fill  bool // pad the output to Image.Size after generation
}

// Builder builds images whose partitions come from input files or from
// other images of the same build.
type Builder struct {
	inputPath string
	metrics   *hdimage.Metrics
}

// NewBuilder creates a builder reading source files from inputPath. metrics may be nil.
func NewBuilder(inputPath string, metrics *hdimage.Metrics) *Builder {
	return &Builder{
		inputPath: inputPath,
		metrics:   metrics,
	}
}

// Run validates every target, then generates them level by level. All
// layouts are checked before any output is written; the first failure
// stops the build and no dependent image is generated.
func (b *Builder) Run(ctx context.Context, targets []Target) error {
	log := logger.FromContext(ctx).With("build_id", cuid2.Generate())
	ctx = logger.AddToContext(ctx, log)

	names := lo.Map(targets, func(t Target, _ int) string { return t.Image.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateImage, dups[0])
	}
	outputs := lo.Map(targets, func(t Target, _ int) string { return filepath.Clean(t.Image.OutFile) })
	if dups := lo.FindDuplicates(outputs); len(dups) > 0 {
		return fmt.Errorf("%w: output %s", ErrDuplicateImage, dups[0])
	}

	res := &resolver{
		inputPath: b.inputPath,
		outputs: lo.SliceToMap(targets, func(t Target) (string, string) {
			return t.Image.Name, t.Image.OutFile
		}),
	}
	h := hdimage.New(res, b.metrics)

	// Setup replaces Partitions with a resolved copy; callers' targets are untouched
	prepared := make([]Target, len(targets))
	copy(prepared, targets)
	for i := range prepared {
		if err := h.Setup(ctx, &prepared[i].Image); err != nil {
			return err
		}
	}

	if err := b.checkSources(ctx, res, prepared); err != nil {
		return err
	}

	lvls, err := levels(prepared)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "starting build", "images", len(prepared), "levels", len(lvls))

	for _, level := range lvls {
		grp, gctx := errgroup.WithContext(ctx)
		for _, t := range level {
			t := t
			grp.Go(func() error {
				return b.generate(gctx, h, t)
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}
	}

	log.InfoContext(ctx, "build complete", "images", len(prepared))
	return nil
}

// checkSources fails before any bytes are written if an input file is missing
func (b *Builder) checkSources(ctx context.Context, res *resolver, targets []Target) error {
	for _, t := range targets {
		for _, p := range t.Image.Partitions {
			if _, err := res.Resolve(ctx, p.Source); err != nil {
				return fmt.Errorf("image %s: part %s: %w", t.Image.Name, p.Name, err)
			}
		}
	}
	return nil
}

func (b *Builder) generate(ctx context.Context, h hdimage.Handler, t Target) error {
	if err := os.MkdirAll(filepath.Dir(t.Image.OutFile), 0755); err != nil {
		return fmt.Errorf("image %s: %w: create output dir: %w", t.Image.Name, hdimage.ErrIO, err)
	}

	if err := h.Generate(ctx, &t.Image); err != nil {
		return err
	}

	if t.Fill {
		if err := padfile.PadTo(t.Image.OutFile, t.Image.Size, 0, padfile.ModeAppend); err != nil {
			return fmt.Errorf("image %s: %w: fill to size %d: %w", t.Image.Name, hdimage.ErrIO, t.Image.Size, err)
		}
	}
	return nil
}
