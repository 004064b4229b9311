package hdimage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAlignment is returned when the alignment is zero or not a multiple of the sector size
	ErrInvalidAlignment = errors.New("invalid partition alignment")

	// ErrInvalidImageSize is returned when the image size is not positive
	ErrInvalidImageSize = errors.New("invalid image size")

	// ErrDuplicatePartition is returned when two partitions share a name
	ErrDuplicatePartition = errors.New("duplicate partition name")

	// ErrMisalignedSize is returned when a partition size is not a multiple of the sector size
	ErrMisalignedSize = errors.New("partition size not sector aligned")

	// ErrMisalignedOffset is returned when an explicit offset is not a multiple of the alignment
	ErrMisalignedOffset = errors.New("partition offset not aligned")

	// ErrOverlap is returned when an explicit offset starts before the previous partition ends
	ErrOverlap = errors.New("partition overlaps with previous partition")

	// ErrImageOverflow is returned when the partitions extend past the image size
	ErrImageOverflow = errors.New("partitions exceed device size")

	// ErrSourceNotFound is returned when a partition's source image cannot be resolved
	ErrSourceNotFound = errors.New("source image not found")

	// ErrIO is returned when padding or writing the output fails
	ErrIO = errors.New("image write failed")
)

// LayoutError describes the first layout rule a partition table violates.
// It unwraps to one of the layout sentinels above.
type LayoutError struct {
	Partition string // empty for image-wide failures
	Value     int64
	Limit     int64
	Err       error
}

func (e *LayoutError) Error() string {
	switch e.Err {
	case ErrInvalidAlignment:
		return fmt.Sprintf("%v: %d must be a multiple of 1 sector (%d bytes)", e.Err, e.Value, e.Limit)
	case ErrInvalidImageSize:
		return fmt.Sprintf("%v: %d", e.Err, e.Value)
	case ErrDuplicatePartition:
		return fmt.Sprintf("%v: %s", e.Err, e.Partition)
	case ErrMisalignedSize:
		return fmt.Sprintf("part %s: %v: size %d must be a multiple of %d bytes", e.Partition, e.Err, e.Value, e.Limit)
	case ErrMisalignedOffset:
		return fmt.Sprintf("part %s: %v: offset %d must be a multiple of %d bytes", e.Partition, e.Err, e.Value, e.Limit)
	case ErrOverlap:
		return fmt.Sprintf("part %s: %v: offset %d is before end of previous partition %d", e.Partition, e.Err, e.Value, e.Limit)
	case ErrImageOverflow:
		if e.Partition != "" {
			return fmt.Sprintf("part %s: %v: extends past offset %d, device size is %d", e.Partition, e.Err, e.Value, e.Limit)
		}
		return fmt.Sprintf("%v: partitions end at %d, device size is %d", e.Err, e.Value, e.Limit)
	default:
		return fmt.Sprintf("part %s: %v", e.Partition, e.Err)
	}
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// errorReason maps an error onto a short label for metrics
func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAlignment):
		return "invalid_alignment"
	case errors.Is(err, ErrInvalidImageSize):
		return "invalid_image_size"
	case errors.Is(err, ErrDuplicatePartition):
		return "duplicate_partition"
	case errors.Is(err, ErrMisalignedSize):
		return "misaligned_size"
	case errors.Is(err, ErrMisalignedOffset):
		return "misaligned_offset"
	case errors.Is(err, ErrOverlap):
		return "overlap"
	case errors.Is(err, ErrImageOverflow):
		return "image_overflow"
	case errors.Is(err, ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "other"
	}
}
