package norm

import (
	"math"
	"testing"

	"github.com/rushteam/ratekit/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUserStats(t *testing.T) {
	table := core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 5, Timestamp: 1},
		{UserID: 1, ProductID: 2, Rating: 1, Timestamp: 1},
		{UserID: 2, ProductID: 1, Rating: 3, Timestamp: 1},
	}
	stats := UserStats(table)

	u1 := stats[1]
	if !almostEqual(u1.Mean, 3) || !almostEqual(u1.Std, 2) {
		t.Errorf("user 1 stats = %+v, want mean 3 std 2", u1)
	}
	if u1.Min != 1 || u1.Max != 5 || u1.Count != 2 {
		t.Errorf("user 1 stats = %+v", u1)
	}

	// 单条评分的用户：总体标准差为 0
	u2 := stats[2]
	if !almostEqual(u2.Mean, 3) || u2.Std != 0 {
		t.Errorf("user 2 stats = %+v, want mean 3 std 0", u2)
	}
}

func TestNormalize(t *testing.T) {
	table := core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 5, Timestamp: 10},
		{UserID: 1, ProductID: 2, Rating: 1, Timestamp: 20},
	}
	tests := []struct {
		method string
		want   []float64
	}{
		{MethodMeanCenter, []float64{2, -2}},
		{MethodZScore, []float64{1, -1}},
		{MethodMinMax, []float64{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got, err := Normalize(table, tt.method)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			for i, e := range got {
				if !almostEqual(e.Rating, tt.want[i]) {
					t.Errorf("event %d rating = %f, want %f", i, e.Rating, tt.want[i])
				}
			}
			// 其余字段不变，输入表不被修改
			if got[0].UserID != 1 || got[0].ProductID != 1 || got[0].Timestamp != 10 {
				t.Errorf("non-rating fields changed: %+v", got[0])
			}
			if table[0].Rating != 5 {
				t.Errorf("input table mutated: %+v", table[0])
			}
		})
	}
}

func TestNormalize_Degenerate(t *testing.T) {
	// 所有评分相同的用户
	table := core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 4, Timestamp: 1},
		{UserID: 1, ProductID: 2, Rating: 4, Timestamp: 1},
	}

	got, err := Normalize(table, MethodZScore)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range got {
		if e.Rating != 0 {
			t.Errorf("z_score with zero std: rating = %f, want 0", e.Rating)
		}
	}

	got, err = Normalize(table, MethodMinMax)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range got {
		if e.Rating != 0.5 {
			t.Errorf("min_max with max == min: rating = %f, want 0.5", e.Rating)
		}
	}
}

func TestNormalize_UnknownMethod(t *testing.T) {
	table := core.RatingTable{{UserID: 1, ProductID: 1, Rating: 3, Timestamp: 1}}
	_, err := Normalize(table, "median_center")
	if !core.IsInvalidMethod(err) {
		t.Fatalf("Normalize() error = %v, want INVALID_METHOD", err)
	}
}

func TestDenormalize_RoundTrip(t *testing.T) {
	table := core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 4.5, Timestamp: 1},
		{UserID: 1, ProductID: 2, Rating: 2.0, Timestamp: 1},
		{UserID: 1, ProductID: 3, Rating: 3.5, Timestamp: 1},
	}
	for _, method := range []string{MethodMeanCenter, MethodZScore, MethodMinMax} {
		normalized, err := Normalize(table, method)
		if err != nil {
			t.Fatal(err)
		}
		stats := UserStats(table)
		for i, e := range normalized {
			back := Denormalize(e.Rating, stats[e.UserID], method)
			if !almostEqual(back, table[i].Rating) {
				t.Errorf("%s: round trip of %f = %f, want %f", method, table[i].Rating, back, table[i].Rating)
			}
		}
	}
}
