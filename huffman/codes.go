package huffman

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const MaxCodeLength = 64

var (
	ErrCodeTooLong   = errors.New("huffman: code longer than 64 bits")
	ErrEmptyCode     = errors.New("huffman: empty code")
	ErrNotPrefixFree = errors.New("huffman: code table is not prefix-free")
)

// The compressed representation of one symbol, MSB first
type BitCode struct {
	Bits   uint64 // The actual bit pattern
	Length int    // How many bits used
}

func (bc BitCode) String() string {
	var sb strings.Builder
	for i := bc.Length - 1; i >= 0; i-- {
		if (bc.Bits>>uint(i))&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBitCode reads a code written as a string of '0' and '1'.
func ParseBitCode(s string) (BitCode, error) {
	if len(s) == 0 {
		return BitCode{}, ErrEmptyCode
	}
	if len(s) > MaxCodeLength {
		return BitCode{}, ErrCodeTooLong
	}
	var bc BitCode
	for _, c := range s {
		switch c {
		case '0':
			bc.Bits <<= 1
		case '1':
			bc.Bits = bc.Bits<<1 | 1
		default:
			return BitCode{}, fmt.Errorf("huffman: invalid bit %q in code %q", c, s)
		}
		bc.Length++
	}
	return bc, nil
}

// HasPrefix reports whether prefix is a leading part of bc (or equal to it).
func (bc BitCode) HasPrefix(prefix BitCode) bool {
	if prefix.Length > bc.Length {
		return false
	}
	return bc.Bits>>uint(bc.Length-prefix.Length) == prefix.Bits
}

// CodeTable is the key needed to decode a packed buffer. Freqs is optional; when
// set it holds the frequencies the codes were derived from.
type CodeTable struct {
	Codes map[byte]BitCode
	Freqs FrequencyTable
}

func (ct CodeTable) Len() int { return len(ct.Codes) }

// EncodedBits is the exact payload length the table's own frequencies produce.
// It returns false when the table carries no frequencies.
func (ct CodeTable) EncodedBits() (int64, bool) {
	if ct.Freqs == nil {
		return 0, false
	}
	var total int64
	for sym, f := range ct.Freqs {
		total += f * int64(ct.Codes[sym].Length)
	}
	return total, true
}

func (ct CodeTable) MaxLength() int {
	longest := 0
	for _, c := range ct.Codes {
		if c.Length > longest {
			longest = c.Length
		}
	}
	return longest
}

func (ct CodeTable) Inverse() map[BitCode]byte {
	inv := make(map[BitCode]byte, len(ct.Codes))
	for sym, code := range ct.Codes {
		inv[code] = sym
	}
	return inv
}

// Validate checks every code is usable and that none is a prefix of another.
func (ct CodeTable) Validate() error {
	codes := make([]BitCode, 0, len(ct.Codes))
	for sym, c := range ct.Codes {
		if c.Length == 0 {
			return fmt.Errorf("symbol %d: %w", sym, ErrEmptyCode)
		}
		if c.Length > MaxCodeLength {
			return fmt.Errorf("symbol %d: %w", sym, ErrCodeTooLong)
		}
		codes = append(codes, c)
	}
	// After sorting by length a code can only be a prefix of a later one
	sort.Slice(codes, func(i, j int) bool { return codes[i].Length < codes[j].Length })
	for i := range codes {
		for j := i + 1; j < len(codes); j++ {
			if codes[j].HasPrefix(codes[i]) {
				return fmt.Errorf("%w: %s and %s", ErrNotPrefixFree, codes[i], codes[j])
			}
		}
	}
	return nil
}

type pending struct {
	node *Node
	code BitCode
}

// GenerateBitCodes walks the tree with an explicit stack. Left = 0, Right = 1.
// A tree that is a single leaf gets the one bit code "0".
func GenerateBitCodes(root *Node) (map[byte]BitCode, error) {
	table := make(map[byte]BitCode)
	if root == nil {
		return table, nil
	}
	if root.IsLeaf() {
		table[root.Value] = BitCode{Bits: 0, Length: 1}
		return table, nil
	}

	stack := []pending{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.node.IsLeaf() {
			table[top.node.Value] = top.code
			continue
		}
		if top.code.Length == MaxCodeLength {
			return nil, ErrCodeTooLong
		}
		// Push right first so the left subtree is visited first
		if top.node.Right != nil {
			stack = append(stack, pending{top.node.Right, BitCode{top.code.Bits<<1 | 1, top.code.Length + 1}})
		}
		if top.node.Left != nil {
			stack = append(stack, pending{top.node.Left, BitCode{top.code.Bits << 1, top.code.Length + 1}})
		}
	}
	return table, nil
}

// NewCodeTable runs tree building and code generation for a frequency table.
func NewCodeTable(freqs FrequencyTable) (CodeTable, error) {
	root, err := BuildHuffmanTree(freqs)
	if err != nil {
		return CodeTable{}, err
	}
	codes, err := GenerateBitCodes(root)
	if err != nil {
		return CodeTable{}, err
	}
	return CodeTable{Codes: codes, Freqs: freqs}, nil
}
