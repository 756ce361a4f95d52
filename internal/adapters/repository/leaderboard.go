package repository

import (
	"math/rand/v2"
)

// Order-statistic treap over (ovr, playerID).
//
// Ordering: OVR DESC, then player id ASC. "before" means ranks earlier, so
// an in-order walk yields the leaderboard best first. Subtree sizes give the
// number of players strictly ahead of an OVR in O(log n).

type node struct {
	id    string
	ovr   int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func before(aOVR int, aID string, bOVR int, bID string) bool {
	if aOVR != bOVR {
		return aOVR > bOVR
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, ovr int) *node {
	if n == nil {
		return &node{id: id, ovr: ovr, prio: rand.Uint64(), size: 1} //nolint:gosec // balancing only
	}
	if before(ovr, id, n.ovr, n.id) {
		n.left = insert(n.left, id, ovr)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, ovr)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, id string, ovr int) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.id == id && n.ovr == ovr:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, ovr)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, ovr)
		}
	case before(ovr, id, n.ovr, n.id):
		n.left = remove(n.left, id, ovr)
	default:
		n.right = remove(n.right, id, ovr)
	}
	fix(n)
	return n
}

// ahead counts players whose OVR is strictly greater than ovr.
func ahead(n *node, ovr int) int {
	count := 0
	for n != nil {
		if n.ovr > ovr {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// walk visits nodes in rank order until visit returns false.
func walk(n *node, visit func(*node) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, visit) && visit(n) && walk(n.right, visit)
}
