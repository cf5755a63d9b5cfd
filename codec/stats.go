package codec

import "github.com/KitchenMishap/huffpack/bitpack"

type CompressionStats struct {
	InputBytes      int64
	PackedBytes     int64
	PayloadBits     int64
	PaddingBits     int64
	DistinctSymbols int
}

// Ratio is packed size over input size; 0 for empty input.
func (s CompressionStats) Ratio() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.PackedBytes) / float64(s.InputBytes)
}

// BitsPerSymbol is the average code length actually spent per input byte.
func (s CompressionStats) BitsPerSymbol() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.PayloadBits) / float64(s.InputBytes)
}

func Stats(r Result, inputLen int) CompressionStats {
	stats := CompressionStats{
		InputBytes:      int64(inputLen),
		PackedBytes:     int64(len(r.Packed)),
		DistinctSymbols: r.Table.Len(),
	}
	if p, err := bitpack.Padding(r.Packed); err == nil {
		stats.PaddingBits = int64(p)
		stats.PayloadBits = (stats.PackedBytes-bitpack.HeaderSize)*8 - stats.PaddingBits
	}
	return stats
}
