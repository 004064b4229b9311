package hdimage

const (
	// SectorSize is the unit every partition size must be a multiple of
	SectorSize int64 = 512
	// DefaultAlign is the partition start alignment used when none is configured
	DefaultAlign = SectorSize
)

// Image is a block device image assembled from partitions
type Image struct {
	Name       string // Image name, used for diagnostics and dependency lookup
	Size       int64  // Total capacity in bytes
	Align      int64  // Partition start alignment in bytes
	OutFile    string // Output path, resolved by the caller
	Partitions []Partition
}

// Partition reserves a contiguous byte range of an Image, filled from the
// output of another image.
type Partition struct {
	Name   string
	Source string // Name of the image whose output backs this partition
	Offset *int64 // nil means auto-place; an explicit 0 is kept as-is
	Size   int64
}

// HasOffset reports whether the partition carries a concrete offset
func (p Partition) HasOffset() bool {
	return p.Offset != nil
}

// OffsetValue returns the offset, or 0 when unset
func (p Partition) OffsetValue() int64 {
	if p.Offset == nil {
		return 0
	}
	return *p.Offset
}

// End returns the first byte past the partition
func (p Partition) End() int64 {
	return p.OffsetValue() + p.Size
}
