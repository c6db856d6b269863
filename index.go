package pointcluster

import (
	"iter"
	"math"
)

// Node is a single entry of a PointIndex. Key orders the node within the
// index; Members is the payload of points the node currently represents.
// Node identity is its Key: two nodes with the same Key are the same entry
// regardless of Members.
//
// A *Node stays valid across rotations, but removing a different key may
// move that key's successor into this node, so callers should hold on to
// keys rather than nodes across removals.
type Node struct {
	Key     Point
	Members []Point

	height      int
	left, right *Node
}

// Height returns the height of the subtree rooted at n (0 for nil).
func (n *Node) Height() int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *Node) balance() int {
	return n.left.Height() - n.right.Height()
}

func (n *Node) updateHeight() {
	n.height = 1 + max(n.left.Height(), n.right.Height())
}

// PointIndex is an AVL tree of points keyed in lexicographic order. It
// supports insertion, removal and nearest-neighbor queries, and is the
// shared data structure behind both clustering strategies.
//
// A PointIndex is not safe for concurrent use.
type PointIndex struct {
	root *Node
	size int
}

// NewPointIndex returns an empty index.
func NewPointIndex() *PointIndex {
	return &PointIndex{}
}

// Len returns the number of nodes in the index.
func (ix *PointIndex) Len() int { return ix.size }

// Height returns the height of the tree (0 when empty).
func (ix *PointIndex) Height() int { return ix.root.Height() }

// Insert adds p with the payload [p]. See InsertMembers.
func (ix *PointIndex) Insert(p Point) (*Node, bool) {
	return ix.InsertMembers(p, []Point{p})
}

// InsertMembers adds a node for key carrying members. If key is already
// present the index is left unchanged, the existing node (with its original
// payload) is returned and the boolean is false.
func (ix *PointIndex) InsertMembers(key Point, members []Point) (*Node, bool) {
	root, node, inserted := insertNode(ix.root, key, members)
	ix.root = root
	if inserted {
		ix.size++
	}
	return node, inserted
}

func insertNode(n *Node, key Point, members []Point) (root, node *Node, inserted bool) {
	if n == nil {
		leaf := &Node{Key: key, Members: members, height: 1}
		return leaf, leaf, true
	}

	switch c := key.Compare(n.Key); {
	case c < 0:
		n.left, node, inserted = insertNode(n.left, key, members)
	case c > 0:
		n.right, node, inserted = insertNode(n.right, key, members)
	default:
		return n, n, false
	}

	return rebalance(n), node, inserted
}

// Remove deletes the node with the given key. It reports whether a node was
// removed.
func (ix *PointIndex) Remove(key Point) bool {
	root, removed := removeNode(ix.root, key)
	ix.root = root
	if removed {
		ix.size--
	}
	return removed
}

func removeNode(n *Node, key Point) (*Node, bool) {
	if n == nil {
		return nil, false
	}

	switch c := key.Compare(n.Key); {
	case c < 0:
		var removed bool
		if n.left, removed = removeNode(n.left, key); !removed {
			return n, false
		}
	case c > 0:
		var removed bool
		if n.right, removed = removeNode(n.right, key); !removed {
			return n, false
		}
	default:
		if n.left == nil || n.right == nil {
			child := n.left
			if child == nil {
				child = n.right
			}
			n.left, n.right = nil, nil
			if child == nil {
				return nil, true
			}
			n = child
		} else {
			// Two children: take over the in-order successor's entry and
			// delete the successor from the right subtree.
			succ := n.right
			for succ.left != nil {
				succ = succ.left
			}
			n.Key, n.Members = succ.Key, succ.Members
			n.right, _ = removeNode(n.right, succ.Key)
		}
	}

	return rebalance(n), true
}

// rebalance recomputes n's height and restores the AVL balance condition
// with a single or double rotation. It returns the new subtree root.
func rebalance(n *Node) *Node {
	n.updateHeight()

	switch b := n.balance(); {
	case b > 1:
		if n.left.balance() < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case b < -1:
		if n.right.balance() > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func rotateRight(n *Node) *Node {
	l := n.left
	n.left = l.right
	l.right = n
	n.updateHeight()
	l.updateHeight()
	return l
}

func rotateLeft(n *Node) *Node {
	r := n.right
	n.right = r.left
	r.left = n
	n.updateHeight()
	r.updateHeight()
	return r
}

// Get returns the node with the given key, or nil.
func (ix *PointIndex) Get(key Point) *Node {
	n := ix.root
	for n != nil {
		switch c := key.Compare(n.Key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// NearestOther returns the node closest to q whose key is not q itself.
// It returns (nil, false) if the index is empty or holds only q.
//
// The search descends on the side of each node that q sorts into, then
// visits the opposite subtree only when the x-gap between q and the node is
// smaller than the best distance found so far. Keys are ordered by X first,
// so every key in the opposite subtree has its X on the far side of the
// node's X, and the x-gap is a lower bound on its distance to q. The pruning
// never discards the true nearest neighbor.
func (ix *PointIndex) NearestOther(q Point) (*Node, bool) {
	best, _ := nearest(ix.root, q, true, nil, math.Inf(1))
	return best, best != nil
}

// Nearest is like NearestOther but a node keyed exactly at q is a valid
// (distance zero) answer.
func (ix *PointIndex) Nearest(q Point) (*Node, bool) {
	best, _ := nearest(ix.root, q, false, nil, math.Inf(1))
	return best, best != nil
}

func nearest(n *Node, q Point, excludeSelf bool, best *Node, bestDist float64) (*Node, float64) {
	if n == nil {
		return best, bestDist
	}

	if !excludeSelf || n.Key != q {
		// The first candidate is always taken, so an overflowed (+Inf)
		// distance still yields a neighbor.
		if d := q.Distance(n.Key); best == nil || d < bestDist {
			best, bestDist = n, d
		}
	}

	near, far := n.right, n.left
	if q.Less(n.Key) {
		near, far = n.left, n.right
	}

	best, bestDist = nearest(near, q, excludeSelf, best, bestDist)
	// Every key on the far side lies at least |q.X - n.Key.X| away along x.
	if best == nil || math.Abs(q.X-n.Key.X) < bestDist {
		best, bestDist = nearest(far, q, excludeSelf, best, bestDist)
	}
	return best, bestDist
}

// All returns an iterator over the nodes in ascending key order. The index
// must not be modified while the iteration is in progress.
func (ix *PointIndex) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(ix.root, yield)
	}
}

func walk(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, yield) && yield(n) && walk(n.right, yield)
}

// AppendNodes appends the index's nodes to dst in ascending key order and
// returns the extended slice.
func (ix *PointIndex) AppendNodes(dst []*Node) []*Node {
	for n := range ix.All() {
		dst = append(dst, n)
	}
	return dst
}

// Keys returns the keys of the index in ascending order.
func (ix *PointIndex) Keys() []Point {
	keys := make([]Point, 0, ix.size)
	for n := range ix.All() {
		keys = append(keys, n.Key)
	}
	return keys
}

// indexPoints builds an index over points, each node carrying itself as its
// payload. Repeated coordinates collapse into the first occurrence.
func indexPoints(points []Point) *PointIndex {
	ix := NewPointIndex()
	for _, p := range points {
		ix.Insert(p)
	}
	return ix
}

// Dedupe returns the distinct points of points in ascending order.
func Dedupe(points []Point) []Point {
	return indexPoints(points).Keys()
}
