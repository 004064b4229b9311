package hdimage

import (
	"context"
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/onkernel/hdimage/lib/logger"
)

// Handler lays out and generates hdimage images. Setup must succeed for an
// image before Generate is called on it.
type Handler interface {
	Setup(ctx context.Context, img *Image) error
	Generate(ctx context.Context, img *Image) error
}

// Resolver maps a partition's source image name to the path of its
// generated output. Unresolvable names return an error wrapping ErrSourceNotFound.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// ResolverFunc adapts a plain function to Resolver
type ResolverFunc func(ctx context.Context, name string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

type handler struct {
	resolver Resolver
	metrics  *Metrics
}

// New creates an hdimage handler. metrics may be nil.
func New(resolver Resolver, metrics *Metrics) Handler {
	return &handler{
		resolver: resolver,
		metrics:  metrics,
	}
}

// Setup validates the partition layout and assigns offsets to auto-placed partitions
func (h *handler) Setup(ctx context.Context, img *Image) error {
	log := logger.FromContext(ctx)

	parts, err := ValidateLayout(img.Size, img.Align, img.Partitions)
	if err != nil {
		h.metrics.RecordSetupFailure(ctx, err)
		return fmt.Errorf("image %s: %w", img.Name, err)
	}
	img.Partitions = parts

	for _, p := range parts {
		log.DebugContext(ctx, "partition placed",
			"image", img.Name,
			"partition", p.Name,
			"offset", p.OffsetValue(),
			"size", p.Size)
	}
	return nil
}

// Generate writes the image output
func (h *handler) Generate(ctx context.Context, img *Image) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	written, err := assemble(ctx, img, h.resolver)
	if err != nil {
		h.metrics.RecordGenerate(ctx, "failed", time.Since(start), written)
		return fmt.Errorf("image %s: %w", img.Name, err)
	}
	h.metrics.RecordGenerate(ctx, "success", time.Since(start), written)

	if len(img.Partitions) == 0 {
		log.InfoContext(ctx, "image has no partitions, nothing written",
			"image", img.Name,
			"output", img.OutFile)
		return nil
	}

	log.InfoContext(ctx, "image generated",
		"image", img.Name,
		"output", img.OutFile,
		"partitions", len(img.Partitions),
		"size", datasize.ByteSize(written).HumanReadable())
	return nil
}
