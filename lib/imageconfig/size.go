package imageconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/c2h5oh/datasize"
)

// Size is a byte count written either as a plain integer or as a string
// with a binary suffix ("512", "4k", "16M", "2G").
type Size int64

// ParseSize parses a size string such as "1M"
func ParseSize(s string) (Size, error) {
	bs, err := datasize.ParseString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidSizeValue, s, err)
	}
	if bs.Bytes() > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSizeValue, s)
	}
	return Size(bs.Bytes()), nil
}

func (s *Size) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := ParseSize(str)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSizeValue, data)
	}
	*s = Size(n)
	return nil
}

// Int64 returns the size in bytes
func (s Size) Int64() int64 {
	return int64(s)
}

func (s Size) String() string {
	return datasize.ByteSize(s).HumanReadable()
}
