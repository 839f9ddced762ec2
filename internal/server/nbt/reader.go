package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// maxDepth bounds list and compound nesting.
const maxDepth = 512

var ErrTooDeep = errors.New("nbt: nesting too deep")

// Reader decodes network NBT.
type Reader struct {
	r   io.Reader
	buf [8]byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadValue reads one unnamed root tag. Values come back as the types
// WriteValue accepts, except that Byte tags decode as bool: text components
// only use them for style flags.
func (r *Reader) ReadValue() (any, error) {
	t, err := r.byte()
	if err != nil {
		return nil, err
	}
	if t == TagEnd {
		return nil, fmt.Errorf("nbt: root tag is End")
	}
	return r.payload(t, 0)
}

func (r *Reader) full(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Reader) byte() (byte, error) {
	b, err := r.full(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) uint16() (uint16, error) {
	b, err := r.full(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) int32() (int32, error) {
	b, err := r.full(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (r *Reader) int64() (int64, error) {
	b, err := r.full(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (r *Reader) string() (string, error) {
	n, err := r.uint16()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) length() (int, error) {
	n, err := r.int32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("nbt: negative length %d", n)
	}
	return int(n), nil
}

func (r *Reader) payload(t byte, depth int) (any, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	switch t {
	case TagByte:
		b, err := r.byte()
		return b != 0, err
	case TagShort:
		v, err := r.uint16()
		return int16(v), err
	case TagInt:
		return r.int32()
	case TagLong:
		return r.int64()
	case TagFloat:
		v, err := r.int32()
		return math.Float32frombits(uint32(v)), err
	case TagDouble:
		v, err := r.int64()
		return math.Float64frombits(uint64(v)), err
	case TagString:
		return r.string()
	case TagByteArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b := make([]byte, n)
		_, err = io.ReadFull(r.r, b)
		return b, err
	case TagIntArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			if out[i], err = r.int32(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagLongArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			if out[i], err = r.int64(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagList:
		elem, err := r.byte()
		if err != nil {
			return nil, err
		}
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, min(n, 1024))
		for range n {
			v, err := r.payload(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TagCompound:
		out := map[string]any{}
		for {
			ct, err := r.byte()
			if err != nil {
				return nil, err
			}
			if ct == TagEnd {
				return out, nil
			}
			name, err := r.string()
			if err != nil {
				return nil, err
			}
			v, err := r.payload(ct, depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", name, err)
			}
			out[name] = v
		}
	default:
		return nil, fmt.Errorf("nbt: unknown tag type %d", t)
	}
}
