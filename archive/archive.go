// Package archive stores a packed buffer together with the frequencies its code
// table was built from, so a file can be decoded without the original encode call.
//
// Layout:
//
//	"HUFP" | version (1) | uvarint length | xxhash64 LE (8) |
//	uvarint K | K x (symbol (1), uvarint freq) | packed buffer
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/KitchenMishap/huffpack/codec"
	"github.com/KitchenMishap/huffpack/huffman"
	"github.com/cespare/xxhash/v2"
)

const (
	Magic   = "HUFP"
	Version = 1
)

var (
	ErrBadMagic           = errors.New("archive: bad magic")
	ErrUnsupportedVersion = errors.New("archive: unsupported version")
	ErrMalformed          = errors.New("archive: malformed header")
	ErrChecksum           = errors.New("archive: checksum mismatch")
)

type Archive struct {
	Length   int64
	Checksum uint64
	Freqs    huffman.FrequencyTable
	Packed   []byte
}

// Marshal writes the result of codec.Encode for original into the archive layout.
func Marshal(res codec.Result, original []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(Version)
	buf.Write(binary.AppendUvarint(nil, uint64(len(original))))
	buf.Write(binary.LittleEndian.AppendUint64(nil, xxhash.Sum64(original)))

	freqs := res.Table.Freqs
	buf.Write(binary.AppendUvarint(nil, uint64(len(freqs))))
	for _, sym := range freqs.Symbols() {
		buf.WriteByte(sym)
		buf.Write(binary.AppendUvarint(nil, uint64(freqs[sym])))
	}
	buf.Write(res.Packed)
	return buf.Bytes()
}

// Encode compresses data straight into an archive.
func Encode(data []byte) ([]byte, codec.Result, error) {
	res, err := codec.Encode(data)
	if err != nil {
		return nil, codec.Result{}, err
	}
	return Marshal(res, data), res, nil
}

func Unmarshal(b []byte) (*Archive, error) {
	if len(b) < len(Magic)+1 || string(b[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	b = b[len(Magic):]
	if b[0] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b[0])
	}
	b = b[1:]

	length, n := binary.Uvarint(b)
	if n <= 0 || length > math.MaxInt64 {
		return nil, fmt.Errorf("%w: length", ErrMalformed)
	}
	b = b[n:]
	if len(b) < 8 {
		return nil, fmt.Errorf("%w: checksum", ErrMalformed)
	}
	a := &Archive{
		Length:   int64(length),
		Checksum: binary.LittleEndian.Uint64(b),
		Freqs:    huffman.FrequencyTable{},
	}
	b = b[8:]

	count, n := binary.Uvarint(b)
	if n <= 0 || count > 256 {
		return nil, fmt.Errorf("%w: symbol count", ErrMalformed)
	}
	b = b[n:]
	var total uint64
	for i := uint64(0); i < count; i++ {
		if len(b) < 1 {
			return nil, fmt.Errorf("%w: symbol %d", ErrMalformed, i)
		}
		sym := b[0]
		freq, n := binary.Uvarint(b[1:])
		if n <= 0 || freq == 0 {
			return nil, fmt.Errorf("%w: frequency of symbol %d", ErrMalformed, sym)
		}
		if _, dup := a.Freqs[sym]; dup {
			return nil, fmt.Errorf("%w: symbol %d repeated", ErrMalformed, sym)
		}
		// total never exceeds length, so this also rules out overflow
		if freq > length-total {
			return nil, fmt.Errorf("%w: frequencies exceed length %d", ErrMalformed, length)
		}
		a.Freqs[sym] = int64(freq)
		total += freq
		b = b[1+n:]
	}
	if total != length {
		return nil, fmt.Errorf("%w: frequencies sum to %d, length is %d", ErrMalformed, total, length)
	}
	a.Packed = b
	return a, nil
}

// Table rebuilds the code table the archive was packed with.
func (a *Archive) Table() (huffman.CodeTable, error) {
	if len(a.Freqs) == 0 {
		return huffman.CodeTable{Codes: map[byte]huffman.BitCode{}, Freqs: a.Freqs}, nil
	}
	return huffman.NewCodeTable(a.Freqs)
}

func (a *Archive) Decode() ([]byte, error) {
	table, err := a.Table()
	if err != nil {
		return nil, err
	}
	out, err := codec.Decode(a.Packed, table)
	if err != nil {
		return nil, err
	}
	if int64(len(out)) != a.Length {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrMalformed, len(out), a.Length)
	}
	if xxhash.Sum64(out) != a.Checksum {
		return nil, ErrChecksum
	}
	return out, nil
}

// Decode unpacks a whole archive file.
func Decode(b []byte) ([]byte, error) {
	a, err := Unmarshal(b)
	if err != nil {
		return nil, err
	}
	return a.Decode()
}
