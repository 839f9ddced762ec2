// Package nbt encodes the network form of NBT used by play-state text
// components: a root tag type followed by its payload, with no root name.
package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// NBT tag type IDs.
const (
	TagEnd       byte = 0
	TagByte      byte = 1
	TagShort     byte = 2
	TagInt       byte = 3
	TagLong      byte = 4
	TagFloat     byte = 5
	TagDouble    byte = 6
	TagByteArray byte = 7
	TagString    byte = 8
	TagList      byte = 9
	TagCompound  byte = 10
	TagIntArray  byte = 11
	TagLongArray byte = 12
)

// Writer writes NBT binary data to an io.Writer in big-endian format.
// All write methods accumulate errors internally; call Err() after writing
// to check for failures.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a new NBT Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered during writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) write(data []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

func (w *Writer) putByte(v byte) {
	w.write([]byte{v})
}

func (w *Writer) putUint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.write(buf[:])
}

func (w *Writer) putInt32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	w.write(buf[:])
}

func (w *Writer) putInt64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	w.write(buf[:])
}

func (w *Writer) putString(s string) {
	if len(s) > math.MaxUint16 {
		w.fail(fmt.Errorf("nbt string of %d bytes too long", len(s)))
		return
	}
	w.putUint16(uint16(len(s)))
	w.write([]byte(s))
}

// WriteValue writes v as an unnamed root tag. Supported values are those
// produced by decoding JSON into an any, plus the Go integer widths, byte
// slices and int32 slices:
//
//	bool                         Byte (0 or 1)
//	float64                      Int when integral and in range, else Double
//	int8, int16, int32, int, int64  Byte, Short, Int, Int, Long
//	float32                      Float
//	string                       String
//	[]byte, []int32, []int64     ByteArray, IntArray, LongArray
//	[]any                        List, all elements of one tag type
//	map[string]any               Compound, keys in sorted order
func (w *Writer) WriteValue(v any) {
	t, err := tagOf(v)
	if err != nil {
		w.fail(err)
		return
	}
	w.putByte(t)
	w.payload(t, v)
}

func tagOf(v any) (byte, error) {
	switch x := v.(type) {
	case bool, int8:
		return TagByte, nil
	case int16:
		return TagShort, nil
	case int32, int:
		return TagInt, nil
	case int64:
		return TagLong, nil
	case float32:
		return TagFloat, nil
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt32 && x <= math.MaxInt32 {
			return TagInt, nil
		}
		return TagDouble, nil
	case string:
		return TagString, nil
	case []byte:
		return TagByteArray, nil
	case []int32:
		return TagIntArray, nil
	case []int64:
		return TagLongArray, nil
	case []any:
		return TagList, nil
	case map[string]any:
		return TagCompound, nil
	default:
		return 0, fmt.Errorf("nbt: unsupported value of type %T", v)
	}
}

func (w *Writer) payload(t byte, v any) {
	switch t {
	case TagByte:
		switch x := v.(type) {
		case bool:
			if x {
				w.putByte(1)
			} else {
				w.putByte(0)
			}
		case int8:
			w.putByte(byte(x))
		}
	case TagShort:
		w.putUint16(uint16(v.(int16)))
	case TagInt:
		switch x := v.(type) {
		case int32:
			w.putInt32(x)
		case int:
			w.putInt32(int32(x))
		case float64:
			w.putInt32(int32(x))
		}
	case TagLong:
		w.putInt64(v.(int64))
	case TagFloat:
		w.putInt32(int32(math.Float32bits(v.(float32))))
	case TagDouble:
		w.putInt64(int64(math.Float64bits(v.(float64))))
	case TagString:
		w.putString(v.(string))
	case TagByteArray:
		b := v.([]byte)
		w.putInt32(int32(len(b)))
		w.write(b)
	case TagIntArray:
		a := v.([]int32)
		w.putInt32(int32(len(a)))
		for _, x := range a {
			w.putInt32(x)
		}
	case TagLongArray:
		a := v.([]int64)
		w.putInt32(int32(len(a)))
		for _, x := range a {
			w.putInt64(x)
		}
	case TagList:
		w.list(v.([]any))
	case TagCompound:
		w.compound(v.(map[string]any))
	}
}

func (w *Writer) list(items []any) {
	if len(items) == 0 {
		w.putByte(TagEnd)
		w.putInt32(0)
		return
	}
	elem, err := tagOf(items[0])
	if err != nil {
		w.fail(err)
		return
	}
	for i, it := range items[1:] {
		t, err := tagOf(it)
		if err != nil {
			w.fail(err)
			return
		}
		if t != elem {
			w.fail(fmt.Errorf("nbt: list element %d is tag %d, want %d", i+1, t, elem))
			return
		}
	}
	w.putByte(elem)
	w.putInt32(int32(len(items)))
	for _, it := range items {
		w.payload(elem, it)
	}
}

func (w *Writer) compound(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := m[k]
		t, err := tagOf(v)
		if err != nil {
			w.fail(fmt.Errorf("key %q: %w", k, err))
			return
		}
		w.putByte(t)
		w.putString(k)
		w.payload(t, v)
	}
	w.putByte(TagEnd)
}
