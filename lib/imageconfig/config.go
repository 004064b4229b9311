// Package imageconfig parses YAML image descriptions into hdimage images.
package imageconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/onkernel/hdimage/lib/build"
	"github.com/onkernel/hdimage/lib/hdimage"
	"github.com/samber/lo"
)

// TypeHDImage is the only image type this tool generates
const TypeHDImage = "hdimage"

var (
	// ErrInvalidConfig is returned when the description is malformed or inconsistent
	ErrInvalidConfig = errors.New("invalid image config")

	// ErrInvalidSizeValue is returned when a size cannot be parsed
	ErrInvalidSizeValue = errors.New("invalid size value")

	// ErrUnknownImageType is returned for image types other than hdimage
	ErrUnknownImageType = errors.New("unknown image type")
)

// File is a parsed image description
type File struct {
	Images []ImageConfig `json:"images"`
}

// ImageConfig describes one output image
type ImageConfig struct {
	Name       string            `json:"name"`
	Type       string            `json:"type,omitempty"`
	Size       Size              `json:"size"`
	HDImage    HDImageOptions    `json:"hdimage,omitempty"`
	Partitions []PartitionConfig `json:"partitions,omitempty"`
}

// HDImageOptions holds the hdimage-specific options
type HDImageOptions struct {
	Align *Size `json:"align,omitempty"` // defaults to hdimage.DefaultAlign
	Fill  bool  `json:"fill,omitempty"`  // pad the output to the full image size
}

// PartitionConfig describes one partition of an image
type PartitionConfig struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Offset *Size  `json:"offset,omitempty"`
	Size   Size   `json:"size"`
}

// Load reads and parses an image description file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses an image description. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var f File
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, ErrInvalidSizeValue) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Images) == 0 {
		return fmt.Errorf("%w: no images defined", ErrInvalidConfig)
	}

	for _, img := range f.Images {
		if img.Name == "" {
			return fmt.Errorf("%w: image without name", ErrInvalidConfig)
		}
		if !filepath.IsLocal(img.Name) {
			return fmt.Errorf("%w: image name %q must be a relative path", ErrInvalidConfig, img.Name)
		}
		if img.Type != "" && img.Type != TypeHDImage {
			return fmt.Errorf("%w: image %s: %q", ErrUnknownImageType, img.Name, img.Type)
		}
		for _, p := range img.Partitions {
			if p.Name == "" {
				return fmt.Errorf("%w: image %s: partition without name", ErrInvalidConfig, img.Name)
			}
			if p.Image == "" {
				return fmt.Errorf("%w: image %s: partition %s has no image", ErrInvalidConfig, img.Name, p.Name)
			}
		}
	}

	// a//b.img and a/b.img name the same output file
	names := lo.Map(f.Images, func(img ImageConfig, _ int) string { return filepath.Clean(img.Name) })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate image %s", ErrInvalidConfig, dups[0])
	}
	return nil
}

// Image converts the description into an hdimage.Image writing to outputPath
func (c ImageConfig) Image(outputPath string) hdimage.Image {
	align := hdimage.DefaultAlign
	if c.HDImage.Align != nil {
		align = c.HDImage.Align.Int64()
	}

	return hdimage.Image{
		Name:    c.Name,
		Size:    c.Size.Int64(),
		Align:   align,
		OutFile: filepath.Join(outputPath, c.Name),
		Partitions: lo.Map(c.Partitions, func(p PartitionConfig, _ int) hdimage.Partition {
			part := hdimage.Partition{
				Name:   p.Name,
				Source: p.Image,
				Size:   p.Size.Int64(),
			}
			if p.Offset != nil {
				part.Offset = lo.ToPtr(p.Offset.Int64())
			}
			return part
		}),
	}
}

// Targets returns build targets for every image, in description order
func (f *File) Targets(outputPath string) []build.Target {
	return lo.Map(f.Images, func(c ImageConfig, _ int) build.Target {
		return build.Target{
			Image: c.Image(outputPath),
			Fill:  c.HDImage.Fill,
		}
	})
}
