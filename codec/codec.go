// Package codec is the single entry point for Huffman compression of an in-memory
// byte slice. Encode returns the packed bytes together with the code table that
// must be handed back to Decode; nothing is kept between calls.
package codec

import (
	"fmt"

	"github.com/KitchenMishap/huffpack/bitpack"
	"github.com/KitchenMishap/huffpack/huffman"
)

type Result struct {
	Packed []byte
	Table  huffman.CodeTable
}

func Encode(data []byte) (Result, error) {
	if len(data) == 0 {
		// Header only: zero padding, no payload, no codes
		return Result{
			Packed: []byte{0},
			Table:  huffman.CodeTable{Codes: map[byte]huffman.BitCode{}, Freqs: huffman.FrequencyTable{}},
		}, nil
	}

	freqs := huffman.CountFrequencies(data)
	table, err := huffman.NewCodeTable(freqs)
	if err != nil {
		return Result{}, fmt.Errorf("build code table: %w", err)
	}
	packed, err := bitpack.Pack(data, table)
	if err != nil {
		return Result{}, fmt.Errorf("pack: %w", err)
	}
	return Result{Packed: packed, Table: table}, nil
}

func Decode(packed []byte, table huffman.CodeTable) ([]byte, error) {
	out, err := bitpack.Unpack(packed, table)
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}
	return out, nil
}
