package hdimage

import (
	"math"

	"github.com/samber/lo"
)

// ValidateLayout places the partitions of an image of the given size.
//
// Partitions are walked in list order. A partition without an offset is
// placed at the first align boundary at or after the end of the previous
// one; an explicit offset must be aligned and must not start before that
// end. The returned slice is a new, fully-offset copy of parts; parts itself
// is not modified. The first violated rule is returned as a *LayoutError.
func ValidateLayout(size, align int64, parts []Partition) ([]Partition, error) {
	if align <= 0 || align%SectorSize != 0 {
		return nil, &LayoutError{Value: align, Limit: SectorSize, Err: ErrInvalidAlignment}
	}
	if size <= 0 {
		return nil, &LayoutError{Value: size, Err: ErrInvalidImageSize}
	}
	if dups := lo.FindDuplicatesBy(parts, func(p Partition) string { return p.Name }); len(dups) > 0 {
		return nil, &LayoutError{Partition: dups[0].Name, Err: ErrDuplicatePartition}
	}

	resolved := make([]Partition, len(parts))
	var now int64

	for i, p := range parts {
		if p.Size < 0 || p.Size%SectorSize != 0 {
			return nil, &LayoutError{Partition: p.Name, Value: p.Size, Limit: SectorSize, Err: ErrMisalignedSize}
		}

		var offset int64
		if p.HasOffset() {
			offset = *p.Offset
			if offset < 0 || offset%align != 0 {
				return nil, &LayoutError{Partition: p.Name, Value: offset, Limit: align, Err: ErrMisalignedOffset}
			}
			if offset < now {
				return nil, &LayoutError{Partition: p.Name, Value: offset, Limit: now, Err: ErrOverlap}
			}
		} else {
			if now > math.MaxInt64-(align-1) {
				return nil, &LayoutError{Partition: p.Name, Value: now, Limit: size, Err: ErrImageOverflow}
			}
			offset = alignUp(now, align)
		}
		if p.Size > math.MaxInt64-offset {
			return nil, &LayoutError{Partition: p.Name, Value: offset, Limit: size, Err: ErrImageOverflow}
		}

		p.Offset = lo.ToPtr(offset)
		resolved[i] = p
		now = offset + p.Size
	}

	if now > size {
		return nil, &LayoutError{Value: now, Limit: size, Err: ErrImageOverflow}
	}

	return resolved, nil
}

// alignUp rounds v up to the next multiple of align. Aligned values are returned unchanged.
func alignUp(v, align int64) int64 {
	return (v + align - 1) / align * align
}
