package huffman

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountFrequencies(t *testing.T) {
	freqs := CountFrequencies([]byte("abracadabra"))
	require.Equal(t, FrequencyTable{'a': 5, 'b': 2, 'r': 2, 'c': 1, 'd': 1}, freqs)
	require.Equal(t, int64(11), freqs.Total())
	require.Equal(t, []byte("abcdr"), freqs.Symbols())

	require.Empty(t, CountFrequencies(nil))
}

func TestPriorityQueueOrder(t *testing.T) {
	pq := NewPriorityQueue(func(a, b int) bool { return a < b })
	for _, v := range []int{5, 3, 9, 1, 7, 3} {
		pq.Push(v)
	}
	var got []int
	for pq.Len() > 0 {
		got = append(got, pq.Pop())
	}
	require.Equal(t, []int{1, 3, 3, 5, 7, 9}, got)
}

func TestBuildHuffmanTreeEmpty(t *testing.T) {
	_, err := BuildHuffmanTree(FrequencyTable{})
	require.ErrorIs(t, err, ErrEmptyFrequencyTable)
}

func TestBuildHuffmanTreeSingleLeaf(t *testing.T) {
	root, err := BuildHuffmanTree(FrequencyTable{'A': 4})
	require.NoError(t, err)
	require.True(t, root.IsLeaf())
	require.Equal(t, byte('A'), root.Value)

	codes, err := GenerateBitCodes(root)
	require.NoError(t, err)
	require.Equal(t, map[byte]BitCode{'A': {Bits: 0, Length: 1}}, codes)
	require.Equal(t, "0", codes['A'].String())
}

func checkStrictTree(t *testing.T, n *Node) {
	t.Helper()
	if n.IsLeaf() {
		return
	}
	require.NotNil(t, n.Left)
	require.NotNil(t, n.Right)
	require.Equal(t, n.Left.Freq+n.Right.Freq, n.Freq)
	checkStrictTree(t, n.Left)
	checkStrictTree(t, n.Right)
}

func TestBuildHuffmanTreeStrict(t *testing.T) {
	freqs := CountFrequencies([]byte("the quick brown fox jumps over the lazy dog"))
	root, err := BuildHuffmanTree(freqs)
	require.NoError(t, err)
	require.Equal(t, freqs.Total(), root.Freq)
	checkStrictTree(t, root)
}

func TestBuildHuffmanTreeDeterministic(t *testing.T) {
	// All ties: every run must produce the same codes
	freqs := FrequencyTable{}
	for i := 0; i < 256; i++ {
		freqs[byte(i)] = 1
	}
	first, err := NewCodeTable(freqs)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := NewCodeTable(freqs)
		require.NoError(t, err)
		require.Equal(t, first.Codes, again.Codes)
	}
	for _, c := range first.Codes {
		require.Equal(t, 8, c.Length)
	}
}

func TestTieBreakByInsertion(t *testing.T) {
	table, err := NewCodeTable(FrequencyTable{'a': 1, 'b': 1})
	require.NoError(t, err)
	// 'a' enters first, is popped first and becomes the left child
	require.Equal(t, "0", table.Codes['a'].String())
	require.Equal(t, "1", table.Codes['b'].String())
}

// referenceCost is the Huffman cost computed by repeatedly sorting a plain slice.
func referenceCost(freqs FrequencyTable) int64 {
	ws := make([]int64, 0, len(freqs))
	for _, f := range freqs {
		ws = append(ws, f)
	}
	if len(ws) == 1 {
		return ws[0]
	}
	var cost int64
	for len(ws) > 1 {
		sort.Slice(ws, func(i, j int) bool { return ws[i] < ws[j] })
		merged := ws[0] + ws[1]
		cost += merged
		ws = append([]int64{merged}, ws[2:]...)
	}
	return cost
}

func TestCodeLengthOptimality(t *testing.T) {
	tests := []struct {
		name  string
		freqs FrequencyTable
		want  int64
	}{
		{"textbook", FrequencyTable{'a': 45, 'b': 13, 'c': 12, 'd': 16, 'e': 9, 'f': 5}, 224},
		{"two", FrequencyTable{'x': 3, 'y': 1}, 4},
		{"single", FrequencyTable{'z': 7}, 7},
		{"fibonacci", FrequencyTable{0: 1, 1: 1, 2: 2, 3: 3, 4: 5, 5: 8, 6: 13}, 78},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewCodeTable(tt.freqs)
			require.NoError(t, err)
			bits, ok := table.EncodedBits()
			require.True(t, ok)
			require.Equal(t, tt.want, bits)
			require.Equal(t, referenceCost(tt.freqs), bits)
		})
	}
}

func TestCodeLengthOptimalityRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		freqs := FrequencyTable{}
		n := 2 + rng.Intn(255)
		for j := 0; j < n; j++ {
			freqs[byte(rng.Intn(256))] = 1 + rng.Int63n(10000)
		}
		table, err := NewCodeTable(freqs)
		require.NoError(t, err)
		bits, _ := table.EncodedBits()
		require.Equal(t, referenceCost(freqs), bits)
		require.NoError(t, table.Validate())
	}
}

func TestPrefixFree(t *testing.T) {
	table, err := NewCodeTable(CountFrequencies([]byte("mississippi river banks")))
	require.NoError(t, err)
	for a, ca := range table.Codes {
		require.NotZero(t, ca.Length)
		for b, cb := range table.Codes {
			if a == b {
				continue
			}
			require.False(t, cb.HasPrefix(ca), "%q=%s prefixes %q=%s", a, ca, b, cb)
		}
	}
}

func TestValidate(t *testing.T) {
	mustParse := func(s string) BitCode {
		bc, err := ParseBitCode(s)
		require.NoError(t, err)
		return bc
	}
	good := CodeTable{Codes: map[byte]BitCode{'a': mustParse("0"), 'b': mustParse("10"), 'c': mustParse("11")}}
	require.NoError(t, good.Validate())

	bad := CodeTable{Codes: map[byte]BitCode{'a': mustParse("1"), 'b': mustParse("10")}}
	require.ErrorIs(t, bad.Validate(), ErrNotPrefixFree)

	dup := CodeTable{Codes: map[byte]BitCode{'a': mustParse("01"), 'b': mustParse("01")}}
	require.ErrorIs(t, dup.Validate(), ErrNotPrefixFree)

	empty := CodeTable{Codes: map[byte]BitCode{'a': {}}}
	require.ErrorIs(t, empty.Validate(), ErrEmptyCode)
}

func TestParseBitCode(t *testing.T) {
	bc, err := ParseBitCode("1011")
	require.NoError(t, err)
	require.Equal(t, BitCode{Bits: 0b1011, Length: 4}, bc)
	require.Equal(t, "1011", bc.String())

	_, err = ParseBitCode("")
	require.ErrorIs(t, err, ErrEmptyCode)
	_, err = ParseBitCode("012")
	require.Error(t, err)
}
