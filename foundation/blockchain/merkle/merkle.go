// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides an implementation of a merkle tree for validation
// support for the blockchain.
//
// Every level of the tree with an odd number of nodes has its last node
// duplicated before pairing. Parents are the SHA-256 of the 64 byte
// concatenation of the left and right child digests. A tree of a single leaf
// has that leaf's digest as its root.
package merkle

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
	"golang.org/x/sync/errgroup"
)

// Set of errors returned by the tree.
var (
	ErrNoLeaves      = errors.New("cannot construct tree with no content")
	ErrValueNotFound = errors.New("unable to find data in tree")
	ErrInvalidRoot   = errors.New("merkle root is invalid")
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() digest.Digest
	Equals(other T) bool
}

// =============================================================================

// Root represents the digest at the top of a tree. It is its own type so a
// root can't be used where any other kind of digest is expected.
type Root digest.Digest

// Digest returns the root as a plain digest.
func (r Root) Digest() digest.Digest {
	return digest.Digest(r)
}

// String implements the fmt.Stringer interface.
func (r Root) String() string {
	return digest.Digest(r).Hex()
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r Root) MarshalText() ([]byte, error) {
	return digest.Digest(r).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *Root) UnmarshalText(text []byte) error {
	return (*digest.Digest)(r).UnmarshalText(text)
}

// =============================================================================

// Bytes is a raw leaf whose digest is the SHA-256 of its content.
type Bytes []byte

// Hash implements the Hashable interface.
func (b Bytes) Hash() digest.Digest {
	return digest.Hash(b)
}

// Equals implements the Hashable interface.
func (b Bytes) Equals(other Bytes) bool {
	return string(b) == string(other)
}

// RootOf calculates the merkle root for the specified ordered set of leaves.
func RootOf(leaves [][]byte, options ...func(t *Tree[Bytes])) (Root, error) {
	values := make([]Bytes, len(leaves))
	for i, leaf := range leaves {
		values[i] = leaf
	}

	tree, err := NewTree(values, options...)
	if err != nil {
		return Root{}, err
	}

	return tree.MerkleRoot, nil
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint.
type Tree[T Hashable[T]] struct {
	Root       *Node[T]
	Leafs      []*Node[T]
	MerkleRoot Root
	workers    int
}

// WithWorkers is used to hash the leaves of the tree concurrently across the
// specified number of goroutines. The reduction to the root is not affected.
func WithWorkers[T Hashable[T]](workers int) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.workers = workers
	}
}

// NewTree constructs a new merkle tree that uses data of some type T that
// exhibits the behavior defined by the Hashable interface.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	t := Tree[T]{
		workers: 1,
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Generate constructs the leafs and nodes of the tree from the specified
// data. If the tree has been generated previously, the tree is re-generated
// from scratch.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		return ErrNoLeaves
	}

	hashes, err := t.hashLeaves(values)
	if err != nil {
		return err
	}

	leafs := make([]*Node[T], len(values))
	for i, value := range values {
		leafs[i] = &Node[T]{
			Hash:  hashes[i],
			Value: value,
			leaf:  true,
			Tree:  t,
		}
	}

	// A single leaf is its own root.
	if len(leafs) == 1 {
		t.Root = leafs[0]
		t.Leafs = leafs
		t.MerkleRoot = Root(leafs[0].Hash)
		return nil
	}

	if len(leafs)%2 == 1 {
		duplicate := &Node[T]{
			Hash:  leafs[len(leafs)-1].Hash,
			Value: leafs[len(leafs)-1].Value,
			leaf:  true,
			dup:   true,
			Tree:  t,
		}
		leafs = append(leafs, duplicate)
	}

	root := buildIntermediate(leafs, t)

	t.Root = root
	t.Leafs = leafs
	t.MerkleRoot = Root(root.Hash)

	return nil
}

// Rebuild is a helper function that will rebuild the tree reusing only the
// data that it currently holds in the leaves.
func (t *Tree[T]) Rebuild() error {
	if err := t.Generate(t.Values()); err != nil {
		return err
	}

	return nil
}

// Proof returns the set of hashes and the order of concatenating those
// hashes for proving a value is in the tree. This is how you can use
// the information returned by this function.
//
// Hash the data in question and know the merkle tree root hash.
//
// Given the proof and proof order from this function for the data in question,
// process the data hash against each proof entry in turn.
//
//	order 0: the proof hash comes first, hash = sha256(proof[i] || hash)
//	order 1: the proof hash comes second, hash = sha256(hash || proof[i])
//
// The calculated hash after the last entry should match the merkle root.
// See VerifyProof.
func (t *Tree[T]) Proof(data T) ([]digest.Digest, []int64, error) {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		var merkleProof []digest.Digest
		var order []int64
		nodeParent := node.Parent

		for nodeParent != nil {
			if nodeParent.Left == node {
				merkleProof = append(merkleProof, nodeParent.Right.Hash)
				order = append(order, 1) // right leaf, concat second.
			} else {
				merkleProof = append(merkleProof, nodeParent.Left.Hash)
				order = append(order, 0) // left leaf, concat first.
			}
			node = nodeParent
			nodeParent = nodeParent.Parent
		}

		return merkleProof, order, nil
	}

	return nil, nil, ErrValueNotFound
}

// Verify validates the hashes at each level of the tree and returns an error
// if the resulting hash at the root of the tree doesn't match the root hash.
func (t *Tree[T]) Verify() error {
	calculatedMerkleRoot := t.Root.verify()

	if Root(calculatedMerkleRoot) != t.MerkleRoot {
		return ErrInvalidRoot
	}

	return nil
}

// VerifyData indicates whether a given piece of data is in the tree and if the
// hashes are valid for that data. The data is valid when the merkle root is
// equivalent to the merkle root calculated on the critical path for the data.
func (t *Tree[T]) VerifyData(data T) error {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		if node.Hash != data.Hash() {
			return fmt.Errorf("leaf hash does not match data: %w", ErrInvalidRoot)
		}

		currentParent := node.Parent
		for currentParent != nil {
			if pairHash(currentParent.Left.Hash, currentParent.Right.Hash) != currentParent.Hash {
				return fmt.Errorf("critical path does not match: %w", ErrInvalidRoot)
			}

			currentParent = currentParent.Parent
		}

		return nil
	}

	return ErrValueNotFound
}

// Values returns the slice of values stored in the tree in leaf order, without
// the duplicate added to balance an odd number of leaves.
func (t *Tree[T]) Values() []T {
	values := make([]T, 0, len(t.Leafs))
	for _, node := range t.Leafs {
		if node.dup {
			continue
		}
		values = append(values, node.Value)
	}

	return values
}

// RootHex converts the merkle root to its canonical hex encoded string.
func (t *Tree[T]) RootHex() string {
	return t.MerkleRoot.String()
}

// RootHex0x converts the merkle root to a 0x prefixed hex string for display.
func (t *Tree[T]) RootHex0x() string {
	return hexutil.Encode(t.MerkleRoot[:])
}

// hashLeaves calculates the digest of every value. With more than one worker
// the values are split into contiguous ranges and each result is stored at
// the index of its value, so leaf order is kept.
func (t *Tree[T]) hashLeaves(values []T) ([]digest.Digest, error) {
	hashes := make([]digest.Digest, len(values))

	workers := t.workers
	if workers <= 1 || len(values) < 2 {
		for i, value := range values {
			hashes[i] = value.Hash()
		}
		return hashes, nil
	}

	if workers > len(values) {
		workers = len(values)
	}
	chunk := (len(values) + workers - 1) / workers

	g, ctx := errgroup.WithContext(context.Background())
	for start := 0; start < len(values); start += chunk {
		end := min(start+chunk, len(values))

		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				hashes[i] = values[i].Hash()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return hashes, nil
}

// =============================================================================

// VerifyProof checks a proof produced by Tree.Proof for the specified leaf
// digest against the expected root without needing the tree.
func VerifyProof(leaf digest.Digest, proof []digest.Digest, order []int64, root Root) error {
	if len(proof) != len(order) {
		return fmt.Errorf("proof has %d hashes but %d orders", len(proof), len(order))
	}

	hash := leaf
	for i, p := range proof {
		switch order[i] {
		case 0:
			hash = pairHash(p, hash)
		case 1:
			hash = pairHash(hash, p)
		default:
			return fmt.Errorf("invalid proof order %d at position %d", order[i], i)
		}
	}

	if Root(hash) != root {
		return ErrInvalidRoot
	}

	return nil
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. It stores pointers to its
// immediate relationships, a hash, the data if it is a leaf, and other metadata.
type Node[T Hashable[T]] struct {
	Tree   *Tree[T]
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   digest.Digest
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down the tree until hitting a leaf, calculating the hash at
// each level and returning the resulting hash of the node.
func (n *Node[T]) verify() digest.Digest {
	if n.leaf {
		return n.Value.Hash()
	}

	return pairHash(n.Left.verify(), n.Right.verify())
}

// =============================================================================

// buildIntermediate is a helper function that for a given list of nodes,
// constructs the intermediate and root levels of the tree. An odd node at the
// end of a level is paired with itself. Returns the resulting root node.
func buildIntermediate[T Hashable[T]](nl []*Node[T], t *Tree[T]) *Node[T] {
	var nodes []*Node[T]

	for i := 0; i < len(nl); i += 2 {
		left, right := i, i+1
		if i+1 == len(nl) {
			right = i
		}

		n := Node[T]{
			Left:  nl[left],
			Right: nl[right],
			Hash:  pairHash(nl[left].Hash, nl[right].Hash),
			Tree:  t,
		}

		nodes = append(nodes, &n)
		nl[left].Parent = &n
		nl[right].Parent = &n

		if len(nl) == 2 {
			return &n
		}
	}

	return buildIntermediate(nodes, t)
}

// pairHash hashes the 64 byte concatenation of two digests.
func pairHash(left, right digest.Digest) digest.Digest {
	var buf [2 * digest.Size]byte
	copy(buf[:digest.Size], left[:])
	copy(buf[digest.Size:], right[:])

	return digest.Hash(buf[:])
}
