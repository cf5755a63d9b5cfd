// Package bitpack turns a byte sequence into a padded bit stream of Huffman codes
// and back. A packed buffer is one header byte holding the number of zero bits
// appended to reach a byte boundary, followed by the codes MSB first.
package bitpack

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/KitchenMishap/huffpack/huffman"
	"github.com/icza/bitio"
)

var (
	ErrCorruptHeader   = errors.New("bitpack: corrupt padding header")
	ErrTruncatedStream = errors.New("bitpack: bit stream ends inside a code")
	ErrTrailingBits    = errors.New("bitpack: bit stream longer than the code table allows")
	ErrUnknownCode     = errors.New("bitpack: bits match no code in the table")
	ErrMissingCode     = errors.New("bitpack: symbol has no code")
	ErrEmptyTable      = errors.New("bitpack: empty code table for non-empty stream")
)

const HeaderSize = 1

func Pack(data []byte, table huffman.CodeTable) ([]byte, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if bits, ok := table.EncodedBits(); ok && bits >= 0 && bits <= int64(len(data))*huffman.MaxCodeLength {
		buf.Grow(HeaderSize + int((bits+7)/8))
	}
	buf.WriteByte(0) // Padding count, filled in once known

	w := bitio.NewWriter(&buf)
	for i, b := range data {
		code, ok := table.Codes[b]
		if !ok {
			return nil, fmt.Errorf("%w: byte 0x%02x at offset %d", ErrMissingCode, b, i)
		}
		if err := w.WriteBits(code.Bits, uint8(code.Length)); err != nil {
			return nil, err
		}
	}
	padding, err := w.Align()
	if err != nil {
		return nil, err
	}

	packed := buf.Bytes()
	packed[0] = padding
	return packed, nil
}

// Padding returns the validated header value.
func Padding(packed []byte) (uint8, error) {
	if len(packed) < HeaderSize {
		return 0, fmt.Errorf("%w: buffer has no header byte", ErrCorruptHeader)
	}
	p := packed[0]
	if p > 7 {
		return 0, fmt.Errorf("%w: padding %d out of range 0..7", ErrCorruptHeader, p)
	}
	if len(packed) == HeaderSize && p != 0 {
		return 0, fmt.Errorf("%w: padding %d with no payload", ErrCorruptHeader, p)
	}
	return p, nil
}

// PayloadBits is the number of meaningful bits after the header.
func PayloadBits(packed []byte) (int64, error) {
	p, err := Padding(packed)
	if err != nil {
		return 0, err
	}
	return int64(len(packed)-HeaderSize)*8 - int64(p), nil
}

func Unpack(packed []byte, table huffman.CodeTable) ([]byte, error) {
	nbits, err := PayloadBits(packed)
	if err != nil {
		return nil, err
	}
	if nbits > 0 && table.Len() == 0 {
		return nil, ErrEmptyTable
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	// Every symbol costs at least one bit
	capacity := nbits
	if want, ok := table.EncodedBits(); ok {
		total := table.Freqs.Total()
		if want < 0 || total < 0 {
			return nil, fmt.Errorf("%w: code table frequencies overflow", ErrCorruptHeader)
		}
		if nbits < want {
			return nil, fmt.Errorf("%w: have %d bits, table expects %d", ErrTruncatedStream, nbits, want)
		}
		if nbits > want {
			return nil, fmt.Errorf("%w: have %d bits, table expects %d", ErrTrailingBits, nbits, want)
		}
		if total < capacity {
			capacity = total
		}
	}

	out := make([]byte, 0, capacity)
	if nbits == 0 {
		return out, nil
	}
	inverse := table.Inverse()
	maxLen := table.MaxLength()

	r := bitio.NewReader(bytes.NewReader(packed[HeaderSize:]))
	var candidate huffman.BitCode
	for i := int64(0); i < nbits; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		candidate.Bits <<= 1
		if bit {
			candidate.Bits |= 1
		}
		candidate.Length++

		if sym, ok := inverse[candidate]; ok {
			out = append(out, sym)
			candidate = huffman.BitCode{}
			continue
		}
		if candidate.Length >= maxLen {
			return nil, fmt.Errorf("%w: %s at bit %d", ErrUnknownCode, candidate, i)
		}
	}
	if candidate.Length > 0 {
		return nil, fmt.Errorf("%w: %d bits left over", ErrTruncatedStream, candidate.Length)
	}
	return out, nil
}
