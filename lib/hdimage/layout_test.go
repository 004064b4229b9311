package hdimage

import (
	"math"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsets(parts []Partition) []int64 {
	return lo.Map(parts, func(p Partition, _ int) int64 { return p.OffsetValue() })
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		v, align, expected int64
	}{
		{0, 512, 0},
		{1, 512, 512},
		{512, 512, 512},
		{612, 512, 1024},
		{1024, 512, 1024},
		{512, 4096, 4096},
		{4096, 4096, 4096},
		{4097, 1 << 20, 1 << 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, alignUp(tt.v, tt.align), "alignUp(%d, %d)", tt.v, tt.align)
	}
}

func TestValidateLayout_AutoPlacement(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		align    int64
		parts    []Partition
		expected []int64
	}{
		{
			name:  "contiguous at sector alignment",
			size:  4096,
			align: 512,
			parts: []Partition{
				{Name: "a", Size: 512},
				{Name: "b", Size: 1024},
				{Name: "c", Size: 512},
			},
			expected: []int64{0, 512, 1536},
		},
		{
			name:  "gap inserted up to alignment",
			size:  16384,
			align: 4096,
			parts: []Partition{
				{Name: "a", Size: 512},
				{Name: "b", Size: 512},
				{Name: "c", Size: 4096},
			},
			expected: []int64{0, 4096, 8192},
		},
		{
			name:  "aligned cursor adds no gap",
			size:  8192,
			align: 4096,
			parts: []Partition{
				{Name: "a", Size: 4096},
				{Name: "b", Size: 4096},
			},
			expected: []int64{0, 4096},
		},
		{
			name:  "auto after explicit",
			size:  1 << 20,
			align: 1024,
			parts: []Partition{
				{Name: "a", Offset: lo.ToPtr(int64(2048)), Size: 512},
				{Name: "b", Size: 512},
			},
			expected: []int64{2048, 3072},
		},
		{
			name:  "zero sized partition",
			size:  1024,
			align: 512,
			parts: []Partition{
				{Name: "a", Size: 0},
				{Name: "b", Size: 1024},
			},
			expected: []int64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := ValidateLayout(tt.size, tt.align, tt.parts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, offsets(resolved))

			var prevEnd int64
			for _, p := range resolved {
				require.True(t, p.HasOffset())
				assert.Zero(t, p.OffsetValue()%tt.align)
				assert.Zero(t, p.Size%SectorSize)
				assert.GreaterOrEqual(t, p.OffsetValue(), prevEnd)
				prevEnd = p.End()
			}
		})
	}
}

func TestValidateLayout_CumulativeSizes(t *testing.T) {
	sizes := []int64{512, 2048, 1536, 512, 4096}
	parts := lo.Map(sizes, func(s int64, i int) Partition {
		return Partition{Name: string(rune('a' + i)), Size: s}
	})

	resolved, err := ValidateLayout(1<<20, 512, parts)
	require.NoError(t, err)

	var sum int64
	for i, p := range resolved {
		assert.Equal(t, sum, p.OffsetValue(), "partition %d", i)
		sum += sizes[i]
	}
}

func TestValidateLayout_Idempotent(t *testing.T) {
	parts := []Partition{
		{Name: "a", Size: 512},
		{Name: "b", Offset: lo.ToPtr(int64(8192)), Size: 1024},
		{Name: "c", Size: 512},
	}

	first, err := ValidateLayout(1<<16, 4096, parts)
	require.NoError(t, err)

	second, err := ValidateLayout(1<<16, 4096, first)
	require.NoError(t, err)
	assert.Equal(t, offsets(first), offsets(second))
	assert.Equal(t, []int64{0, 8192, 12288}, offsets(second))
}

func TestValidateLayout_DoesNotMutateInput(t *testing.T) {
	explicit := int64(1024)
	parts := []Partition{
		{Name: "a", Size: 512},
		{Name: "b", Offset: &explicit, Size: 512},
	}

	resolved, err := ValidateLayout(4096, 512, parts)
	require.NoError(t, err)

	assert.False(t, parts[0].HasOffset())
	*resolved[1].Offset = 2048
	assert.Equal(t, int64(1024), explicit, "resolved partitions must not alias input offsets")
}

func TestValidateLayout_ExplicitZeroOffset(t *testing.T) {
	t.Run("first partition at zero behaves like unset", func(t *testing.T) {
		withZero, err := ValidateLayout(2048, 512, []Partition{
			{Name: "a", Offset: lo.ToPtr(int64(0)), Size: 512},
			{Name: "b", Size: 512},
		})
		require.NoError(t, err)

		unset, err := ValidateLayout(2048, 512, []Partition{
			{Name: "a", Size: 512},
			{Name: "b", Size: 512},
		})
		require.NoError(t, err)

		assert.Equal(t, offsets(unset), offsets(withZero))
	})

	t.Run("later partition at zero is an overlap", func(t *testing.T) {
		_, err := ValidateLayout(2048, 512, []Partition{
			{Name: "a", Size: 512},
			{Name: "b", Offset: lo.ToPtr(int64(0)), Size: 512},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOverlap)
	})
}

func TestValidateLayout_Errors(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		align     int64
		parts     []Partition
		wantErr   error
		partition string
		value     int64
		limit     int64
	}{
		{
			name:    "zero alignment",
			size:    1024,
			align:   0,
			wantErr: ErrInvalidAlignment,
			value:   0,
			limit:   SectorSize,
		},
		{
			name:    "alignment not a sector multiple",
			size:    1024,
			align:   1000,
			wantErr: ErrInvalidAlignment,
			value:   1000,
			limit:   SectorSize,
		},
		{
			name:    "non-positive image size",
			size:    0,
			align:   512,
			wantErr: ErrInvalidImageSize,
		},
		{
			name:  "duplicate names",
			size:  4096,
			align: 512,
			parts: []Partition{
				{Name: "a", Size: 512},
				{Name: "a", Size: 512},
			},
			wantErr:   ErrDuplicatePartition,
			partition: "a",
		},
		{
			name:      "size not a sector multiple",
			size:      4096,
			align:     512,
			parts:     []Partition{{Name: "a", Size: 300}},
			wantErr:   ErrMisalignedSize,
			partition: "a",
			value:     300,
			limit:     SectorSize,
		},
		{
			name:      "offset not aligned",
			size:      1 << 20,
			align:     4096,
			parts:     []Partition{{Name: "a", Offset: lo.ToPtr(int64(512)), Size: 512}},
			wantErr:   ErrMisalignedOffset,
			partition: "a",
			value:     512,
			limit:     4096,
		},
		{
			name:  "overlap with previous",
			size:  4096,
			align: 512,
			parts: []Partition{
				{Name: "a", Offset: lo.ToPtr(int64(0)), Size: 1024},
				{Name: "b", Offset: lo.ToPtr(int64(512)), Size: 512},
			},
			wantErr:   ErrOverlap,
			partition: "b",
			value:     512,
			limit:     1024,
		},
		{
			name:  "explicit offset out of list order",
			size:  1 << 16,
			align: 512,
			parts: []Partition{
				{Name: "a", Offset: lo.ToPtr(int64(8192)), Size: 512},
				{Name: "b", Size: 512},
				{Name: "c", Offset: lo.ToPtr(int64(1024)), Size: 512},
			},
			wantErr:   ErrOverlap,
			partition: "c",
			value:     1024,
			limit:     9216,
		},
		{
			name:    "image overflow",
			size:    1024,
			align:   512,
			parts:   []Partition{{Name: "a", Offset: lo.ToPtr(int64(0)), Size: 2048}},
			wantErr: ErrImageOverflow,
			value:   2048,
			limit:   1024,
		},
		{
			name:  "overflow caused by alignment gap",
			size:  4096,
			align: 4096,
			parts: []Partition{
				{Name: "a", Size: 512},
				{Name: "b", Size: 512},
			},
			wantErr: ErrImageOverflow,
			value:   4608,
			limit:   4096,
		},
		{
			name:      "exabyte partition end wraps int64",
			size:      1 << 20,
			align:     512,
			parts:     []Partition{{Name: "big", Offset: lo.ToPtr(int64(6 << 60)), Size: 4 << 60}},
			wantErr:   ErrImageOverflow,
			partition: "big",
			value:     6 << 60,
			limit:     1 << 20,
		},
		{
			name:  "auto placement rounding wraps int64",
			size:  1 << 20,
			align: 1 << 20,
			parts: []Partition{
				{Name: "a", Offset: lo.ToPtr(int64(math.MaxInt64 - (1<<20 - 1))), Size: 512},
				{Name: "b", Size: 512},
			},
			wantErr:   ErrImageOverflow,
			partition: "b",
			value:     math.MaxInt64 - (1<<20 - 1) + 512,
			limit:     1 << 20,
		},
		{
			name:  "large but representable end is caught at the end",
			size:  1 << 20,
			align: 1 << 20,
			parts: []Partition{
				{Name: "a", Offset: lo.ToPtr(int64(5 << 60)), Size: 2 << 60},
				{Name: "b", Size: 512},
			},
			wantErr: ErrImageOverflow,
			value:   7<<60 + 512,
			limit:   1 << 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := ValidateLayout(tt.size, tt.align, tt.parts)
			require.Error(t, err)
			assert.Nil(t, resolved)
			assert.ErrorIs(t, err, tt.wantErr)

			var layoutErr *LayoutError
			require.ErrorAs(t, err, &layoutErr)
			assert.Equal(t, tt.partition, layoutErr.Partition)
			assert.Equal(t, tt.value, layoutErr.Value)
			assert.Equal(t, tt.limit, layoutErr.Limit)
			if tt.partition != "" {
				assert.Contains(t, err.Error(), tt.partition)
			}
		})
	}
}

func TestValidateLayout_ExactFit(t *testing.T) {
	resolved, err := ValidateLayout(2048, 512, []Partition{
		{Name: "a", Size: 1024},
		{Name: "b", Size: 1024},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2048), resolved[1].End())
}

func TestValidateLayout_Empty(t *testing.T) {
	resolved, err := ValidateLayout(512, 512, nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}
