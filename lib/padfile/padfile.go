package padfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrPadTooSmall is returned when the output is already longer than the pad target
var ErrPadTooSmall = errors.New("output larger than pad target")

// Mode selects how the output file is opened for the next write
type Mode int

const (
	// ModeOverwrite truncates (or creates) the output before writing
	ModeOverwrite Mode = iota
	// ModeAppend extends the existing output
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeOverwrite:
		return "overwrite"
	case ModeAppend:
		return "append"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// PadTo extends outfile with the fill byte until it is exactly length bytes long.
func PadTo(outfile string, length int64, fill byte, mode Mode) (err error) {
	out, err := openOutput(outfile, mode)
	if err != nil {
		return err
	}
	defer closeFile(out, &err)

	cur, err := fileSize(out)
	if err != nil {
		return err
	}
	if cur > length {
		return fmt.Errorf("%w: %s is %d bytes, target %d", ErrPadTooSmall, outfile, cur, length)
	}

	return writeFill(out, cur, length-cur, fill)
}

// CopyPadded appends exactly size bytes to outfile: the first size bytes of
// infile, followed by the fill byte if infile is shorter. Longer inputs are
// truncated.
func CopyPadded(infile, outfile string, size int64, fill byte, mode Mode) (err error) {
	in, err := os.Open(infile)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := openOutput(outfile, mode)
	if err != nil {
		return err
	}
	defer closeFile(out, &err)

	start, err := fileSize(out)
	if err != nil {
		return err
	}

	n, err := io.Copy(out, io.LimitReader(in, size))
	if err != nil {
		return fmt.Errorf("copy %s: %w", infile, err)
	}

	return writeFill(out, start+n, size-n, fill)
}

func openOutput(outfile string, mode Mode) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	switch mode {
	case ModeOverwrite:
		flags |= os.O_TRUNC
	case ModeAppend:
		flags |= os.O_APPEND
	default:
		return nil, fmt.Errorf("open output: unknown %s", mode)
	}

	f, err := os.OpenFile(outfile, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return f, nil
}

func fileSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat output: %w", err)
	}
	return info.Size(), nil
}

// writeFill appends n fill bytes to f, whose current length is cur.
// Zero fill extends the file with Truncate so holes stay sparse.
func writeFill(f *os.File, cur, n int64, fill byte) error {
	if n <= 0 {
		return nil
	}
	if fill == 0 {
		if err := f.Truncate(cur + n); err != nil {
			return fmt.Errorf("extend output: %w", err)
		}
		return nil
	}
	if _, err := io.CopyN(f, repeatReader(fill), n); err != nil {
		return fmt.Errorf("write padding: %w", err)
	}
	return nil
}

func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close output: %w", cerr)
	}
}

type repeatReader byte

func (r repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}
