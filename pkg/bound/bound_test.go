package bound

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabilityMeasure(t *testing.T) {
	tests := []struct {
		name string
		agg  Lability
		tids []int
		want int
	}{
		{
			name: "periodic occurrences",
			agg:  Lability{MaxPer: 2, LastTID: 6},
			tids: []int{2, 4, 6},
			want: 0,
		},
		{
			name: "single long gap",
			agg:  Lability{MaxPer: 2, LastTID: 10},
			tids: []int{1, 7, 8, 9, 10},
			want: 4,
		},
		{
			name: "excess accumulates then drains",
			agg:  Lability{MaxPer: 2, LastTID: 12},
			tids: []int{4, 8, 9, 10, 12},
			// gaps 4,4,1,1,2 -> la 2,4,3,2,2
			want: 4,
		},
		{
			name: "closing gap against horizon",
			agg:  Lability{MaxPer: 1, LastTID: 10},
			tids: []int{1, 2},
			want: 7,
		},
		{
			name: "no occurrences",
			agg:  Lability{MaxPer: 3, LastTID: 5},
			tids: nil,
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.agg.Measure(tt.tids))
		})
	}
}

func TestLabilityAdmitIsUpperBound(t *testing.T) {
	l := Lability{MaxLa: 3}
	require.True(t, l.Admit(0))
	require.True(t, l.Admit(3))
	require.False(t, l.Admit(4))
}

func TestLabilityAntiMonotone(t *testing.T) {
	l := Lability{MaxPer: 2, LastTID: 20}
	full := []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}
	sub := []int{1, 5, 9, 13, 17}
	require.LessOrEqual(t, l.Measure(full), l.Measure(sub))
}

func TestWeightSum(t *testing.T) {
	w := WeightSum{Weights: map[int]int{1: 5, 3: 2}, Default: 1, Min: 7}
	require.Equal(t, 8, w.Measure([]int{1, 2, 3}))
	require.True(t, w.Admit(8))
	require.False(t, w.Admit(6))
}

func TestBind(t *testing.T) {
	agg := Bind(Lability{MaxPer: 1}, 42)
	l, ok := agg.(Lability)
	require.True(t, ok)
	require.Equal(t, 42, l.LastTID)

	require.Equal(t, None{}, Bind(nil, 10))
	require.Equal(t, WeightSum{Min: 1}, Bind(WeightSum{Min: 1}, 10))
}

func TestFromConfig(t *testing.T) {
	agg, err := FromConfig(KindLability, map[string]any{"max_per": "3", "max_la": int64(2)})
	require.NoError(t, err)
	require.Equal(t, Lability{MaxPer: 3, MaxLa: 2}, agg)

	agg, err = FromConfig(KindWeightSum, map[string]any{
		"weights": map[string]any{"1": 4, "2": "6"},
		"min":     5,
	})
	require.NoError(t, err)
	require.Equal(t, WeightSum{Weights: map[int]int{1: 4, 2: 6}, Min: 5}, agg)

	agg, err = FromConfig("", nil)
	require.NoError(t, err)
	require.Equal(t, None{}, agg)
}

func TestFromConfigErrors(t *testing.T) {
	_, err := FromConfig("median", nil)
	require.Error(t, err)

	_, err = FromConfig(KindLability, map[string]any{"max_per": -1})
	require.Error(t, err)

	_, err = FromConfig(KindLability, map[string]any{"period": 2})
	require.Error(t, err, "unknown parameters are rejected")
}

func TestFromConfigRejectsNegativeWeights(t *testing.T) {
	_, err := FromConfig(KindWeightSum, map[string]any{"weights": map[string]any{"3": -2}})
	require.Error(t, err)

	_, err = FromConfig(KindWeightSum, map[string]any{"default": -1})
	require.Error(t, err)
}

func TestConfigKey(t *testing.T) {
	require.Equal(t, KindNone, Config{}.Key())

	a := Config{Kind: KindLability, Params: map[string]any{"max_per": 3, "max_la": 1}}
	b := Config{Kind: KindLability, Params: map[string]any{"max_la": 1, "max_per": 3}}
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, `lability:{"max_la":1,"max_per":3}`, a.Key())
}
