package pointcluster

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkAVL walks the subtree rooted at n and verifies key order, cached
// heights and balance factors. It returns the subtree height and size.
func checkAVL(t *testing.T, n *Node, lo, hi *Point) (int, int) {
	t.Helper()
	if n == nil {
		return 0, 0
	}
	if lo != nil {
		require.True(t, lo.Less(n.Key), "key %v not above lower bound %v", n.Key, *lo)
	}
	if hi != nil {
		require.True(t, n.Key.Less(*hi), "key %v not below upper bound %v", n.Key, *hi)
	}
	lh, ls := checkAVL(t, n.left, lo, &n.Key)
	rh, rs := checkAVL(t, n.right, &n.Key, hi)

	require.Equal(t, 1+max(lh, rh), n.height, "stale height at %v", n.Key)
	require.LessOrEqual(t, math.Abs(float64(lh-rh)), 1.0, "unbalanced at %v", n.Key)
	return n.height, ls + rs + 1
}

func requireValidIndex(t *testing.T, ix *PointIndex) {
	t.Helper()
	_, size := checkAVL(t, ix.root, nil, nil)
	require.Equal(t, ix.Len(), size)
}

func randomPoints(rng *rand.Rand, n int, span float64) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = Pt(rng.Float64()*span, rng.Float64()*span)
	}
	return points
}

func bruteNearestOther(points []Point, q Point) (Point, float64) {
	var best Point
	bestDist := math.Inf(1)
	for _, p := range points {
		if p == q {
			continue
		}
		if d := q.Distance(p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist
}

// --- Structure ---

func TestPointIndex_Empty(t *testing.T) {
	ix := NewPointIndex()
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, 0, ix.Height())
	assert.Empty(t, ix.Keys())
	assert.Nil(t, ix.Get(Pt(0, 0)))
	assert.False(t, ix.Remove(Pt(0, 0)))

	n, ok := ix.NearestOther(Pt(1, 1))
	assert.False(t, ok)
	assert.Nil(t, n)
	n, ok = ix.Nearest(Pt(1, 1))
	assert.False(t, ok)
	assert.Nil(t, n)
}

func TestPointIndex_InsertAscendingStaysBalanced(t *testing.T) {
	ix := NewPointIndex()
	for i := range 1024 {
		_, inserted := ix.Insert(Pt(float64(i), 0))
		require.True(t, inserted)
	}
	requireValidIndex(t, ix)
	assert.Equal(t, 1024, ix.Len())
	// A perfectly balanced tree of 1024 nodes has height 11; AVL allows
	// ~1.44*log2(n).
	assert.LessOrEqual(t, ix.Height(), 15)
}

func TestPointIndex_InsertDefaultPayload(t *testing.T) {
	ix := NewPointIndex()
	n, inserted := ix.Insert(Pt(3, 4))
	require.True(t, inserted)
	assert.Equal(t, []Point{Pt(3, 4)}, n.Members)

	n, inserted = ix.InsertMembers(Pt(5, 6), nil)
	require.True(t, inserted)
	assert.Empty(t, n.Members)
}

func TestPointIndex_DuplicateInsertKeepsPayload(t *testing.T) {
	ix := NewPointIndex()
	first, _ := ix.InsertMembers(Pt(5, 5), []Point{Pt(1, 1)})
	again, inserted := ix.InsertMembers(Pt(5, 5), []Point{Pt(2, 2)})

	assert.False(t, inserted)
	assert.Same(t, first, again)
	assert.Equal(t, []Point{Pt(1, 1)}, again.Members)
	assert.Equal(t, 1, ix.Len())
}

func TestPointIndex_LexicographicOrder(t *testing.T) {
	ix := indexPoints([]Point{Pt(1, 5), Pt(0, 9), Pt(1, 2), Pt(-3, 0), Pt(1, 3)})
	assert.Equal(t, []Point{Pt(-3, 0), Pt(0, 9), Pt(1, 2), Pt(1, 3), Pt(1, 5)}, ix.Keys())
}

func TestPointIndex_RemoveCases(t *testing.T) {
	tests := []struct {
		name   string
		remove Point
	}{
		{"leaf", Pt(7, 0)},
		{"left one child", Pt(0, 0)},
		{"right one child", Pt(6, 0)},
		{"two children", Pt(4, 0)},
		{"root", Pt(2, 0)},
		{"missing", Pt(100, 0)},
	}
	// Builds root 2 with subtrees 0 (-> 1) and 4 (3, 6 (-> 7)).
	base := []Point{Pt(4, 0), Pt(2, 0), Pt(6, 0), Pt(0, 0), Pt(3, 0), Pt(1, 0), Pt(7, 0)}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := indexPoints(base)
			want := ix.Get(tt.remove) != nil

			assert.Equal(t, want, ix.Remove(tt.remove))
			requireValidIndex(t, ix)
			assert.Nil(t, ix.Get(tt.remove))
			if want {
				assert.Equal(t, len(base)-1, ix.Len())
			} else {
				assert.Equal(t, len(base), ix.Len())
			}
		})
	}
}

func TestPointIndex_TwoChildRemovalMovesSuccessorPayload(t *testing.T) {
	ix := NewPointIndex()
	for _, p := range []Point{Pt(2, 0), Pt(1, 0), Pt(3, 0)} {
		ix.InsertMembers(p, []Point{p, Pt(p.X, 100)})
	}
	require.Equal(t, Pt(2, 0), ix.root.Key)

	require.True(t, ix.Remove(Pt(2, 0)))
	requireValidIndex(t, ix)

	n := ix.Get(Pt(3, 0))
	require.NotNil(t, n)
	assert.Equal(t, []Point{Pt(3, 0), Pt(3, 100)}, n.Members)
}

func TestPointIndex_RandomInsertRemoveInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	ix := NewPointIndex()
	present := make(map[Point]bool)

	for step := range 5000 {
		// Small integer grid so that inserts collide and removes hit.
		p := Pt(float64(rng.IntN(40)), float64(rng.IntN(40)))
		if rng.IntN(3) == 0 {
			assert.Equal(t, present[p], ix.Remove(p), "step %d remove %v", step, p)
			delete(present, p)
		} else {
			_, inserted := ix.Insert(p)
			assert.Equal(t, !present[p], inserted, "step %d insert %v", step, p)
			present[p] = true
		}
		if step%250 == 0 {
			requireValidIndex(t, ix)
		}
	}
	requireValidIndex(t, ix)
	assert.Equal(t, len(present), ix.Len())
	for p := range present {
		assert.NotNil(t, ix.Get(p))
	}
}

// --- Iteration ---

func TestPointIndex_AllIsStrictlyAscendingAndRestartable(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	ix := indexPoints(randomPoints(rng, 500, 100))

	for pass := range 2 {
		var prev *Point
		count := 0
		for n := range ix.All() {
			if prev != nil {
				require.True(t, prev.Less(n.Key), "pass %d: %v !< %v", pass, *prev, n.Key)
			}
			key := n.Key
			prev = &key
			count++
		}
		assert.Equal(t, ix.Len(), count)
	}
}

func TestPointIndex_AllStopsEarly(t *testing.T) {
	ix := indexPoints([]Point{Pt(1, 0), Pt(2, 0), Pt(3, 0)})
	var seen []Point
	for n := range ix.All() {
		seen = append(seen, n.Key)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []Point{Pt(1, 0), Pt(2, 0)}, seen)
}

func TestPointIndex_AppendNodesUsesCallerSlice(t *testing.T) {
	ix := indexPoints([]Point{Pt(2, 0), Pt(1, 0)})
	buf := make([]*Node, 0, 8)

	first := ix.AppendNodes(buf)
	second := ix.AppendNodes(buf)
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, Pt(1, 0), second[0].Key)
}

// --- Nearest neighbor ---

func TestPointIndex_NearestOtherSingleAndSelf(t *testing.T) {
	ix := indexPoints([]Point{Pt(1, 1)})

	_, ok := ix.NearestOther(Pt(1, 1))
	assert.False(t, ok, "only the query itself is indexed")

	n, ok := ix.NearestOther(Pt(5, 5))
	require.True(t, ok)
	assert.Equal(t, Pt(1, 1), n.Key)

	n, ok = ix.Nearest(Pt(1, 1))
	require.True(t, ok)
	assert.Equal(t, Pt(1, 1), n.Key)
}

func TestPointIndex_NearestWithOverflowingDistance(t *testing.T) {
	ix := indexPoints([]Point{Pt(-1e308, 0), Pt(1e308, 0)})

	n, ok := ix.NearestOther(Pt(1e308, 0))
	require.True(t, ok)
	assert.Equal(t, Pt(-1e308, 0), n.Key)

	n, ok = ix.Nearest(Pt(-1e308, 5))
	require.True(t, ok)
	assert.Equal(t, Pt(-1e308, 0), n.Key)

	ix = indexPoints([]Point{Pt(-1e308, 0)})
	n, ok = ix.Nearest(Pt(1e308, 0))
	require.True(t, ok, "a non-empty index always has a nearest node")
	assert.Equal(t, Pt(-1e308, 0), n.Key)
}

func TestPointIndex_NearestOtherNeverReturnsQuery(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	points := Dedupe(randomPoints(rng, 300, 50))
	ix := indexPoints(points)

	for _, q := range points {
		n, ok := ix.NearestOther(q)
		require.True(t, ok)
		assert.NotEqual(t, q, n.Key)
	}
}

func TestPointIndex_NearestOtherMatchesBruteForce(t *testing.T) {
	for _, n := range []int{2, 10, 100, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(uint64(n), 99))
			points := Dedupe(randomPoints(rng, n, 1000))
			ix := indexPoints(points)

			disagreements := 0
			for _, q := range points {
				got, ok := ix.NearestOther(q)
				require.True(t, ok)
				_, want := bruteNearestOther(points, q)
				if q.Distance(got.Key) != want {
					disagreements++
				}
			}
			t.Logf("nearest-other disagreement rate: %d/%d", disagreements, len(points))
			// Keys on the far side of a node differ from it by at least the
			// x-gap under lexicographic order, so the pruned search finds
			// a true nearest neighbor.
			assert.Zero(t, disagreements)
		})
	}
}

func TestPointIndex_NearestOffIndexQuery(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	points := Dedupe(randomPoints(rng, 400, 100))
	ix := indexPoints(points)

	for range 200 {
		q := Pt(rng.Float64()*120-10, rng.Float64()*120-10)
		got, ok := ix.Nearest(q)
		require.True(t, ok)
		_, want := bruteNearestOther(points, q)
		assert.InDelta(t, want, q.Distance(got.Key), 1e-12)
	}
}

func TestPointIndex_NearestAfterRemovals(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 9))
	points := Dedupe(randomPoints(rng, 200, 100))
	ix := indexPoints(points)

	kept := points[:0:0]
	for i, p := range points {
		if i%3 == 0 {
			require.True(t, ix.Remove(p))
		} else {
			kept = append(kept, p)
		}
	}
	requireValidIndex(t, ix)

	for _, q := range kept {
		got, ok := ix.NearestOther(q)
		require.True(t, ok)
		_, want := bruteNearestOther(kept, q)
		assert.InDelta(t, want, q.Distance(got.Key), 1e-12)
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]Point{Pt(5, 5), Pt(1, 1), Pt(5, 5), Pt(1, 1), Pt(0, 2)})
	assert.Equal(t, []Point{Pt(0, 2), Pt(1, 1), Pt(5, 5)}, got)
}
