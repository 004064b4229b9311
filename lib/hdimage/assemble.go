package hdimage

import (
	"context"
	"fmt"

	"github.com/onkernel/hdimage/lib/logger"
	"github.com/onkernel/hdimage/lib/padfile"
)

// assemble writes each partition's source into img.OutFile at its offset,
// zero filling gaps. Offsets must already be validated. It returns the
// output length reached before any error.
//
// The first write recreates the output; every later write appends.
func assemble(ctx context.Context, img *Image, resolver Resolver) (int64, error) {
	log := logger.FromContext(ctx)

	if img.OutFile == "" {
		return 0, fmt.Errorf("%w: no output file", ErrIO)
	}

	mode := padfile.ModeOverwrite
	var written int64

	for _, p := range img.Partitions {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		infile, err := resolver.Resolve(ctx, p.Source)
		if err != nil {
			return written, fmt.Errorf("part %s: %w", p.Name, err)
		}

		if offset := p.OffsetValue(); offset != 0 {
			if err := padfile.PadTo(img.OutFile, offset, 0, mode); err != nil {
				return written, fmt.Errorf("%w: pad image to size %d for part %s: %w", ErrIO, offset, p.Name, err)
			}
			mode = padfile.ModeAppend
			written = offset
		}

		if err := padfile.CopyPadded(infile, img.OutFile, p.Size, 0, mode); err != nil {
			return written, fmt.Errorf("%w: write partition %s (size %d): %w", ErrIO, p.Name, p.Size, err)
		}
		mode = padfile.ModeAppend
		written = p.End()

		log.DebugContext(ctx, "partition written",
			"image", img.Name,
			"partition", p.Name,
			"source", infile,
			"offset", p.OffsetValue(),
			"size", p.Size)
	}

	return written, nil
}
