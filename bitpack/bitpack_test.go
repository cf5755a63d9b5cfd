package bitpack

import (
	"errors"
	"testing"

	"github.com/KitchenMishap/huffpack/huffman"
	"github.com/stretchr/testify/require"
)

func fixedTable(t *testing.T) huffman.CodeTable {
	t.Helper()
	codes := map[byte]huffman.BitCode{}
	for sym, s := range map[byte]string{'a': "0", 'b': "10", 'c': "11"} {
		bc, err := huffman.ParseBitCode(s)
		require.NoError(t, err)
		codes[sym] = bc
	}
	return huffman.CodeTable{Codes: codes}
}

func TestPackKnownBits(t *testing.T) {
	table := fixedTable(t)
	// 0 10 11 -> 01011000 with 3 bits of padding
	packed, err := Pack([]byte("abc"), table)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 0x58}, packed)

	got, err := Unpack(packed, table)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
}

func TestPackExactByte(t *testing.T) {
	table := fixedTable(t)
	// 10 10 10 10 fills one byte, no padding
	packed, err := Pack([]byte("bbbb"), table)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0xAA}, packed)
}

func TestPackEmpty(t *testing.T) {
	packed, err := Pack(nil, huffman.CodeTable{})
	require.NoError(t, err)
	require.Equal(t, []byte{0}, packed)

	got, err := Unpack(packed, huffman.CodeTable{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestPackMissingCode(t *testing.T) {
	_, err := Pack([]byte("abz"), fixedTable(t))
	require.ErrorIs(t, err, ErrMissingCode)
}

func TestPaddingInvariant(t *testing.T) {
	inputs := [][]byte{
		[]byte("a"),
		[]byte("hello, world"),
		[]byte("AAAAAAAAAAAAAAAAAAAAA"),
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 255, 254},
	}
	for _, in := range inputs {
		table, err := huffman.NewCodeTable(huffman.CountFrequencies(in))
		require.NoError(t, err)
		packed, err := Pack(in, table)
		require.NoError(t, err)

		want, _ := table.EncodedBits()
		require.LessOrEqual(t, packed[0], uint8(7))
		require.Equal(t, want, int64(len(packed)-1)*8-int64(packed[0]))

		nbits, err := PayloadBits(packed)
		require.NoError(t, err)
		require.Equal(t, want, nbits)
	}
}

func TestUnpackCorruptHeader(t *testing.T) {
	table := fixedTable(t)
	tests := []struct {
		name   string
		packed []byte
	}{
		{"empty", nil},
		{"padding eight", []byte{8, 0xFF}},
		{"padding max", []byte{255, 0xFF}},
		{"padding without payload", []byte{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unpack(tt.packed, table)
			require.ErrorIs(t, err, ErrCorruptHeader)
		})
	}
}

func TestUnpackTruncated(t *testing.T) {
	table := fixedTable(t)
	// 1 then 7 bits of padding: "1" alone is not a code
	_, err := Unpack([]byte{7, 0x80}, table)
	require.ErrorIs(t, err, ErrTruncatedStream)
}

func TestUnpackUnknownCode(t *testing.T) {
	codes := map[byte]huffman.BitCode{}
	for sym, s := range map[byte]string{'a': "00", 'b': "01", 'c': "10"} {
		bc, err := huffman.ParseBitCode(s)
		require.NoError(t, err)
		codes[sym] = bc
	}
	// "11" never matches
	_, err := Unpack([]byte{0, 0xC0}, huffman.CodeTable{Codes: codes})
	require.ErrorIs(t, err, ErrUnknownCode)
}

func TestUnpackEmptyTable(t *testing.T) {
	_, err := Unpack([]byte{0, 0x12}, huffman.CodeTable{})
	require.ErrorIs(t, err, ErrEmptyTable)
}

func TestUnpackRejectsAmbiguousTable(t *testing.T) {
	codes := map[byte]huffman.BitCode{'a': {Bits: 1, Length: 1}, 'b': {Bits: 2, Length: 2}}
	_, err := Unpack([]byte{0, 0xFF}, huffman.CodeTable{Codes: codes})
	require.ErrorIs(t, err, huffman.ErrNotPrefixFree)
}

func TestUnpackDroppedLastByte(t *testing.T) {
	inputs := [][]byte{
		[]byte("AAAAAAAAAAAAAAAA"), // decodes to 8 A's if the length were not checked
		[]byte("abracadabra"),
		[]byte("x"),
	}
	for _, in := range inputs {
		table, err := huffman.NewCodeTable(huffman.CountFrequencies(in))
		require.NoError(t, err)
		packed, err := Pack(in, table)
		require.NoError(t, err)

		_, err = Unpack(packed[:len(packed)-1], table)
		require.Error(t, err)
		if !errors.Is(err, ErrTruncatedStream) && !errors.Is(err, ErrCorruptHeader) {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
	}
}

func TestUnpackExtraBits(t *testing.T) {
	in := []byte("abracadabra")
	table, err := huffman.NewCodeTable(huffman.CountFrequencies(in))
	require.NoError(t, err)
	packed, err := Pack(in, table)
	require.NoError(t, err)

	longer := append(append([]byte{}, packed...), 0x00)
	_, err = Unpack(longer, table)
	require.ErrorIs(t, err, ErrTrailingBits)
}

func TestUnpackOverflowingFrequencies(t *testing.T) {
	freqs := huffman.FrequencyTable{'a': 1 << 61, 'b': 1 << 61, 'c': 1 << 61, 'd': 1 << 61}
	codes := map[byte]huffman.BitCode{}
	for sym, s := range map[byte]string{'a': "00", 'b': "01", 'c': "10", 'd': "11"} {
		bc, err := huffman.ParseBitCode(s)
		require.NoError(t, err)
		codes[sym] = bc
	}
	table := huffman.CodeTable{Codes: codes, Freqs: freqs}
	// 4 * 2^61 * 2 bits wraps to zero, matching an empty payload
	_, err := Unpack([]byte{0}, table)
	require.ErrorIs(t, err, ErrCorruptHeader)

	_, err = Unpack([]byte{0, 0x1B}, table)
	require.ErrorIs(t, err, ErrCorruptHeader)
}
