/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package entropy

import (
	"container/heap"

	huffman "github.com/flanglet/huffman-go"
	"github.com/pkg/errors"
)

// Node is a node of a Huffman tree stored in an arena (see Tree).
// A leaf has a symbol in [0..255] and no children (Left = Right = -1).
// An internal node has Symbol = -1, two children and a frequency equal
// to the sum of the frequencies of its children.
type Node struct {
	Freq   uint64
	Symbol int
	Left   int
	Right  int
}

// IsLeaf returns true if the node has no children
func (this Node) IsLeaf() bool {
	return this.Left < 0
}

// Tree is a Huffman tree. Nodes are addressed by their index in the arena.
// Leaves are created first (in increasing symbol order) and internal nodes
// are appended in merge order, so the root is always the last node.
type Tree struct {
	nodes []Node
}

// Node ordering used to pick the two nodes to merge. Nodes compare by
// frequency, then internal nodes come before leaves, then leaves compare
// by symbol and internal nodes by reverse creation order (the most recent
// internal node first).
// The order is total, so two builds from the same frequency table always
// produce the same tree.
type nodeQueue struct {
	nodes []Node
	ids   []int
}

func (this *nodeQueue) Len() int {
	return len(this.ids)
}

func (this *nodeQueue) Less(i, j int) bool {
	ni := &this.nodes[this.ids[i]]
	nj := &this.nodes[this.ids[j]]

	if ni.Freq != nj.Freq {
		return ni.Freq < nj.Freq
	}

	if ni.IsLeaf() != nj.IsLeaf() {
		return nj.IsLeaf()
	}

	if ni.IsLeaf() == true {
		return ni.Symbol < nj.Symbol
	}

	return this.ids[i] > this.ids[j]
}

func (this *nodeQueue) Swap(i, j int) {
	this.ids[i], this.ids[j] = this.ids[j], this.ids[i]
}

func (this *nodeQueue) Push(x any) {
	this.ids = append(this.ids, x.(int))
}

func (this *nodeQueue) Pop() any {
	n := len(this.ids) - 1
	id := this.ids[n]
	this.ids = this.ids[0:n]
	return id
}

// BuildTree builds the Huffman tree of a frequency table: the two smallest
// nodes (see the node ordering above) are repeatedly merged under a new
// internal node until one node remains. The first node removed from the
// queue becomes the right child (bit 1), the second one the left child (bit 0).
// A table with a single symbol yields a tree made of one leaf.
// An empty table yields an error matching huffman.ErrEmptyInput.
func BuildTree(freqs FrequencyTable) (*Tree, error) {
	if len(freqs) == 0 {
		return nil, errors.Wrap(huffman.ErrEmptyInput, "Cannot build Huffman tree")
	}

	symbols := freqs.Symbols()
	this := &Tree{}
	this.nodes = make([]Node, 0, 2*len(symbols)-1)
	queue := &nodeQueue{ids: make([]int, 0, len(symbols))}

	for _, s := range symbols {
		this.nodes = append(this.nodes, Node{Freq: freqs[s], Symbol: int(s), Left: -1, Right: -1})
		queue.ids = append(queue.ids, len(this.nodes)-1)
	}

	queue.nodes = this.nodes
	heap.Init(queue)

	for queue.Len() > 1 {
		right := heap.Pop(queue).(int)
		left := heap.Pop(queue).(int)
		this.nodes = append(this.nodes, Node{
			Freq:   this.nodes[left].Freq + this.nodes[right].Freq,
			Symbol: -1,
			Left:   left,
			Right:  right,
		})

		// Capacity is preallocated: the arena is never moved
		queue.nodes = this.nodes
		heap.Push(queue, len(this.nodes)-1)
	}

	return this, nil
}

// Root returns the index of the root node
func (this *Tree) Root() int {
	return len(this.nodes) - 1
}

// Node returns the node at the provided index
func (this *Tree) Node(idx int) Node {
	return this.nodes[idx]
}

// Len returns the number of nodes in the tree
func (this *Tree) Len() int {
	return len(this.nodes)
}

// Leaves returns the number of leaves (distinct symbols) in the tree
func (this *Tree) Leaves() int {
	return (len(this.nodes) + 1) / 2
}

// Next returns the index of the node reached from 'idx' after reading 'bit'
// (0 = left, 1 = right). When the root is a leaf (one symbol alphabet),
// every bit leads back to the root.
func (this *Tree) Next(idx, bit int) int {
	n := &this.nodes[idx]

	if n.IsLeaf() == true {
		return idx
	}

	if bit&1 == 0 {
		return n.Left
	}

	return n.Right
}
