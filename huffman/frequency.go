package huffman

import "sort"

// FrequencyTable maps each byte present in the input to how often it appeared.
// Absent bytes have no entry.
type FrequencyTable map[byte]int64

func CountFrequencies(data []byte) FrequencyTable {
	var counts [256]int64
	for _, b := range data {
		counts[b]++
	}
	freqs := make(FrequencyTable)
	for sym, count := range counts {
		if count > 0 {
			freqs[byte(sym)] = count
		}
	}
	return freqs
}

func (ft FrequencyTable) Total() int64 {
	var total int64
	for _, f := range ft {
		total += f
	}
	return total
}

// Symbols returns the symbols in ascending byte order
func (ft FrequencyTable) Symbols() []byte {
	syms := make([]byte, 0, len(ft))
	for s := range ft {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
