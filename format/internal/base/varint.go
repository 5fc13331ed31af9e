package base

import (
	"fmt"
	"io"
)

// maxVarIntLen is the longest encoding of a non-negative 64-bit int.
const maxVarIntLen = 9

// DecodeVarInt reads a single VarInt from the byte slice.
// Returns the value and the number of bytes read.
func DecodeVarInt(data []byte) (int, int, error) {
	var value uint64
	var length int
	for {
		if length >= len(data) {
			return 0, 0, ErrTruncated
		}
		if length >= maxVarIntLen {
			return 0, 0, ErrVarIntTooLong
		}
		b := data[length]
		value |= uint64(b&0x7F) << (length * 7)
		length++
		if b&0x80 == 0 {
			break
		}
	}
	if value > uint64(maxInt) {
		return 0, 0, ErrVarIntTooLong
	}
	return int(value), length, nil
}

const maxInt = int(^uint(0) >> 1)

// DecodeVarIntArray decodes exactly count VarInts from data. Fewer values or
// leftover bytes are both errors.
func DecodeVarIntArray(data []byte, count int) ([]int, error) {
	// Every value takes at least one byte.
	if count > len(data) {
		return nil, fmt.Errorf("%d values in %d bytes: %w", count, len(data), ErrTruncated)
	}
	values := make([]int, count)
	offset := 0
	for i := range count {
		val, length, err := DecodeVarInt(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("decode varint %d: %w", i, err)
		}
		values[i] = val
		offset += length
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%d bytes after %d values: %w", len(data)-offset, count, ErrTrailingData)
	}
	return values, nil
}

// AppendVarInt appends the VarInt encoding of value to buf.
// value must not be negative.
func AppendVarInt(buf []byte, value int) []byte {
	if value < 0 {
		panic(fmt.Sprintf("varint: negative value %d", value))
	}
	v := uint64(value)
	for v&^0x7F != 0 {
		buf = append(buf, byte(v&0x7F)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// EncodeVarInt encodes a single integer as a VarInt.
func EncodeVarInt(value int) []byte {
	return AppendVarInt(make([]byte, 0, 5), value)
}

// EncodeVarIntArray encodes multiple integers as VarInts.
func EncodeVarIntArray(values []int) []byte {
	buf := make([]byte, 0, len(values))
	for _, v := range values {
		buf = AppendVarInt(buf, v)
	}
	return buf
}

// ReadVarInt reads a VarInt from an io.ByteReader.
func ReadVarInt(r io.ByteReader) (int, error) {
	var value uint64
	for i := 0; ; i++ {
		if i >= maxVarIntLen {
			return 0, ErrVarIntTooLong
		}
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				return 0, ErrTruncated
			}
			return 0, err
		}
		value |= uint64(b&0x7F) << (i * 7)
		if b&0x80 == 0 {
			break
		}
	}
	if value > uint64(maxInt) {
		return 0, ErrVarIntTooLong
	}
	return int(value), nil
}

// WriteVarInt writes a VarInt to an io.Writer.
func WriteVarInt(w io.Writer, value int) error {
	_, err := w.Write(EncodeVarInt(value))
	return err
}
