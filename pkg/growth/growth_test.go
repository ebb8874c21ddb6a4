package growth

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
	"github.com/matzehuels/sppgrowth/pkg/txdb"
)

// mine runs the full load-scan-build-mine sequence and returns emitted
// patterns keyed by their canonical key.
func mine(t *testing.T, rows [][]int, opts Options, sink Sink) (map[string]pattern.Itemset, Stats) {
	t.Helper()
	db, err := txdb.New(rows)
	require.NoError(t, err)

	agg := bound.Bind(opts.Bound, db.LastTID)
	opts.Bound = agg
	stats := txdb.Frequent(txdb.Scan(db, agg), opts.MinSupport, agg)
	tr, err := txdb.BuildTree(db, stats)
	require.NoError(t, err)

	m, err := New(opts)
	require.NoError(t, err)

	got := make(map[string]pattern.Itemset)
	collect := SinkFunc(func(p pattern.Itemset) error {
		_, dup := got[p.Key()]
		require.False(t, dup, "pattern %s emitted twice", p.Key())
		got[p.Key()] = p
		if sink != nil {
			return sink.Emit(p)
		}
		return nil
	})
	var s Sink = collect
	if r, ok := sink.(ThresholdRaiser); ok {
		s = raisingSink{collect, r}
	}

	st, err := m.Mine(context.Background(), tr, s)
	require.NoError(t, err)
	require.Zero(t, tr.Len(), "the tree is fully consumed")
	require.Zero(t, tr.NodeCount())
	return got, st
}

type raisingSink struct {
	Sink
	ThresholdRaiser
}

// bruteForce enumerates every itemset over the database's items.
func bruteForce(rows [][]int, minSup int, agg bound.Aggregate) map[string]pattern.Stat {
	var items []int
	for _, row := range rows {
		for _, item := range row {
			if !slices.Contains(items, item) {
				items = append(items, item)
			}
		}
	}
	slices.Sort(items)

	out := make(map[string]pattern.Stat)
	for mask := 1; mask < 1<<len(items); mask++ {
		var set []int
		for i, item := range items {
			if mask&(1<<i) != 0 {
				set = append(set, item)
			}
		}
		var tids []int
		for i, row := range rows {
			if containsAll(row, set) {
				tids = append(tids, i+1)
			}
		}
		st := pattern.Stat{Support: len(tids), Bound: agg.Measure(tids)}
		if st.Support >= minSup && agg.Admit(st.Bound) {
			out[pattern.New(set, st).Key()] = st
		}
	}
	return out
}

func containsAll(row, set []int) bool {
	for _, item := range set {
		if !slices.Contains(row, item) {
			return false
		}
	}
	return true
}

func stats(got map[string]pattern.Itemset) map[string]pattern.Stat {
	out := make(map[string]pattern.Stat, len(got))
	for k, p := range got {
		out[k] = p.Stat
	}
	return out
}

func TestNewRejectsBadThresholds(t *testing.T) {
	_, err := New(Options{MinSupport: 0})
	require.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = New(Options{MinSupport: 1, MaxLength: -1})
	require.ErrorIs(t, err, ErrInvalidThreshold)

	m, err := New(Options{MinSupport: 2})
	require.NoError(t, err)
	require.Equal(t, bound.None{}, m.Options().Bound)
}

func TestMineScenario(t *testing.T) {
	got, st := mine(t, [][]int{{1, 2, 3}, {1, 2}, {1, 3}, {2, 3}}, Options{MinSupport: 2}, nil)

	require.Equal(t, map[string]pattern.Stat{
		"1":   {Support: 3},
		"2":   {Support: 3},
		"3":   {Support: 3},
		"1 2": {Support: 2},
		"1 3": {Support: 2},
		"2 3": {Support: 2},
	}, stats(got))
	require.Equal(t, 6, st.Patterns)
	require.Equal(t, 1, st.MaxDepth)
}

func TestMineEmptyDatabase(t *testing.T) {
	got, st := mine(t, nil, Options{MinSupport: 1}, nil)
	require.Empty(t, got)
	require.Zero(t, st.Patterns)
}

func TestMineSingleItemTransactions(t *testing.T) {
	got, _ := mine(t, [][]int{{1}, {1}, {2}}, Options{MinSupport: 2}, nil)
	require.Equal(t, map[string]pattern.Stat{"1": {Support: 2}}, stats(got))
}

func TestMineMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 30; round++ {
		rows := make([][]int, 10+r.IntN(30))
		for i := range rows {
			for item := 1; item <= 8; item++ {
				if r.IntN(5) < 2 {
					rows[i] = append(rows[i], item)
				}
			}
			r.Shuffle(len(rows[i]), func(a, b int) { rows[i][a], rows[i][b] = rows[i][b], rows[i][a] })
		}
		minSup := 1 + r.IntN(5)

		got, _ := mine(t, rows, Options{MinSupport: minSup}, nil)
		require.Equal(t, bruteForce(rows, minSup, bound.None{}), stats(got), "round %d", round)

		for _, p := range got {
			require.LessOrEqual(t, p.Support, len(rows))
		}
	}
}

func TestMineWithLabilityMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 4))
	for round := 0; round < 20; round++ {
		rows := make([][]int, 20+r.IntN(20))
		for i := range rows {
			for item := 1; item <= 6; item++ {
				if r.IntN(2) == 0 {
					rows[i] = append(rows[i], item)
				}
			}
		}
		lab := bound.Lability{MaxPer: 2 + r.IntN(3), MaxLa: r.IntN(4)}
		agg := bound.Bind(lab, len(rows))

		got, _ := mine(t, rows, Options{MinSupport: 2, Bound: lab}, nil)
		require.Equal(t, bruteForce(rows, 2, agg), stats(got), "round %d", round)
	}
}

func TestMineWithWeightSum(t *testing.T) {
	rows := [][]int{{1, 2}, {1, 2}, {1}, {2}}
	ws := bound.WeightSum{Weights: map[int]int{1: 5}, Default: 1, Min: 6}

	got, _ := mine(t, rows, Options{MinSupport: 1, Bound: ws}, nil)
	require.Equal(t, bruteForce(rows, 1, ws), stats(got))
	require.Contains(t, got, "1 2")
	require.Equal(t, 6, got["1 2"].Bound)
}

func TestMineIsDeterministic(t *testing.T) {
	rows := [][]int{{5, 3, 1}, {3, 1}, {5, 1, 7}, {7, 3}, {1, 3, 5, 7}, {3}}

	var runs [][]pattern.Itemset
	for i := 0; i < 3; i++ {
		db, err := txdb.New(rows)
		require.NoError(t, err)
		tr, err := txdb.BuildTree(db, txdb.Frequent(txdb.Scan(db, nil), 2, nil))
		require.NoError(t, err)

		m, err := New(Options{MinSupport: 2})
		require.NoError(t, err)
		var c Collector
		_, err = m.Mine(context.Background(), tr, &c)
		require.NoError(t, err)
		runs = append(runs, c.Patterns)
	}
	require.Equal(t, runs[0], runs[1], "emission order is reproducible")
	require.Equal(t, runs[0], runs[2])
}

func TestMineMaxLength(t *testing.T) {
	rows := [][]int{{1, 2, 3}, {1, 2, 3}, {1, 2}}
	got, _ := mine(t, rows, Options{MinSupport: 2, MaxLength: 2}, nil)

	for k, p := range got {
		require.LessOrEqual(t, p.Len(), 2, k)
	}
	require.Contains(t, got, "1 2")
	require.NotContains(t, got, "1 2 3")
	require.Len(t, got, 6)
}

func TestMineTopK(t *testing.T) {
	rows := [][]int{{1, 2, 3}, {1, 2}, {1, 3}, {2, 3}, {1}, {1, 2}}
	top := NewTopK(3)
	mine(t, rows, Options{MinSupport: 1}, top)

	var keys []string
	for _, p := range top.Patterns() {
		keys = append(keys, p.Key())
	}
	// supports: 1->5, 2->4, 3->3, 1 2->3, 1 3->2, 2 3->2
	require.Equal(t, []string{"1", "2", "3"}, keys)
	require.Equal(t, 3, top.MinSupport())
}

func TestTopKBeforeFull(t *testing.T) {
	top := NewTopK(2)
	require.Zero(t, top.MinSupport())
	require.NoError(t, top.Emit(pattern.New([]int{4}, pattern.Stat{Support: 7})))
	require.Zero(t, top.MinSupport())
	require.NoError(t, top.Emit(pattern.New([]int{5}, pattern.Stat{Support: 3})))
	require.Equal(t, 3, top.MinSupport())
	require.NoError(t, top.Emit(pattern.New([]int{6}, pattern.Stat{Support: 9})))
	require.Equal(t, 7, top.MinSupport())
}

func TestMineStopsOnSinkError(t *testing.T) {
	db, err := txdb.New([][]int{{1, 2}, {1, 2}})
	require.NoError(t, err)
	tr, err := txdb.BuildTree(db, txdb.Scan(db, nil))
	require.NoError(t, err)

	m, err := New(Options{MinSupport: 1})
	require.NoError(t, err)

	stop := errors.New("enough")
	n := 0
	_, err = m.Mine(context.Background(), tr, SinkFunc(func(pattern.Itemset) error {
		n++
		return stop
	}))
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, n)
}

func TestMineHonoursCancellation(t *testing.T) {
	db, err := txdb.New([][]int{{1, 2}, {1, 2}})
	require.NoError(t, err)
	tr, err := txdb.BuildTree(db, txdb.Scan(db, nil))
	require.NoError(t, err)

	m, err := New(Options{MinSupport: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var c Collector
	_, err = m.Mine(ctx, tr, &c)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, c.Patterns)
}

func TestCollectorSorted(t *testing.T) {
	c := &Collector{}
	_ = c.Emit(pattern.New([]int{2, 1}, pattern.Stat{Support: 2}))
	_ = c.Emit(pattern.New([]int{3}, pattern.Stat{Support: 3}))
	sorted := c.Sorted()
	require.Equal(t, "3", sorted[0].Key())
	require.Equal(t, "1 2", sorted[1].Key())
	require.Equal(t, []int{2, 1}, c.Patterns[0].Items, "collection order is untouched")
}
