package huffman

import "errors"

var ErrEmptyFrequencyTable = errors.New("huffman: empty frequency table")

type Node struct {
	Value       byte  // Only meaningful on leaves
	Freq        int64 // How often it appeared (sum of children for internal nodes)
	Left, Right *Node
}

func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

type queued struct {
	node *Node
	seq  int
}

// byFreqThenSeq orders by frequency, then by the order nodes entered the queue.
// Leaves enter in ascending symbol order, so equal inputs always give equal trees.
func byFreqThenSeq(a, b queued) bool {
	if a.node.Freq != b.node.Freq {
		return a.node.Freq < b.node.Freq
	}
	return a.seq < b.seq
}

func BuildHuffmanTree(freqs FrequencyTable) (*Node, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyFrequencyTable
	}
	pq := NewPriorityQueue(byFreqThenSeq)
	seq := 0
	for _, sym := range freqs.Symbols() {
		pq.Push(queued{node: &Node{Value: sym, Freq: freqs[sym]}, seq: seq})
		seq++
	}

	for pq.Len() > 1 {
		left := pq.Pop()
		right := pq.Pop()

		// Create a parent with sum of frequencies
		parent := &Node{
			Freq:  left.node.Freq + right.node.Freq,
			Left:  left.node,
			Right: right.node,
		}
		pq.Push(queued{node: parent, seq: seq})
		seq++
	}
	return pq.Pop().node, nil
}
