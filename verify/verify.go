package verify

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/KitchenMishap/huffpack/bitpack"
	"github.com/KitchenMishap/huffpack/codec"
	"github.com/KitchenMishap/huffpack/huffman"
)

var ErrMismatch = errors.New("verify: decoded bytes differ from input")

// A simple in-memory bit reader over a packed buffer's payload
type BitStream struct {
	Data    []byte
	Bits    int64 // meaningful bits in Data
	ReadPos int64
}

func NewBitStream(packed []byte) (*BitStream, error) {
	nbits, err := bitpack.PayloadBits(packed)
	if err != nil {
		return nil, err
	}
	return &BitStream{Data: packed[bitpack.HeaderSize:], Bits: nbits}, nil
}

func (bs *BitStream) Remaining() int64 { return bs.Bits - bs.ReadPos }

func (bs *BitStream) ReadBit() (uint64, error) {
	if bs.ReadPos >= bs.Bits {
		return 0, bitpack.ErrTruncatedStream
	}
	// Extract MSB first
	b := bs.Data[bs.ReadPos/8]
	bit := (b >> (7 - uint(bs.ReadPos%8))) & 1
	bs.ReadPos++
	return uint64(bit), nil
}

// The Decoder needs the Tree to walk
func (bs *BitStream) ReadValue(root *huffman.Node) (byte, error) {
	if root.IsLeaf() {
		// Single symbol trees spend one bit per symbol, always 0
		bit, err := bs.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			return 0, fmt.Errorf("%w: 1 in a single symbol stream", bitpack.ErrUnknownCode)
		}
		return root.Value, nil
	}
	current := root
	for !current.IsLeaf() {
		bit, err := bs.ReadBit()
		if err != nil {
			return 0, err
		}

		if bit == 0 {
			current = current.Left
		} else {
			current = current.Right
		}
	}
	return current.Value, nil
}

// DecodeByTreeWalk decodes without a code table, following the tree bit by bit.
func DecodeByTreeWalk(packed []byte, root *huffman.Node) ([]byte, error) {
	bs, err := NewBitStream(packed)
	if err != nil {
		return nil, err
	}
	if bs.Bits > 0 && root == nil {
		return nil, bitpack.ErrEmptyTable
	}
	out := make([]byte, 0, bs.Bits/8)
	for bs.Remaining() > 0 {
		v, err := bs.ReadValue(root)
		if err != nil {
			return nil, fmt.Errorf("after %d bytes: %w", len(out), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// RoundTrip encodes data and checks both decoders give it back.
func RoundTrip(data []byte) (codec.Result, error) {
	res, err := codec.Encode(data)
	if err != nil {
		return res, err
	}
	viaTable, err := codec.Decode(res.Packed, res.Table)
	if err != nil {
		return res, err
	}
	if !bytes.Equal(viaTable, data) {
		return res, fmt.Errorf("%w (code table)", ErrMismatch)
	}

	var root *huffman.Node
	if len(res.Table.Freqs) > 0 {
		if root, err = huffman.BuildHuffmanTree(res.Table.Freqs); err != nil {
			return res, err
		}
	}
	viaTree, err := DecodeByTreeWalk(res.Packed, root)
	if err != nil {
		return res, err
	}
	if !bytes.Equal(viaTree, data) {
		return res, fmt.Errorf("%w (tree walk)", ErrMismatch)
	}
	return res, nil
}
