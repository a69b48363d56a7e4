package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/ratekit/core"
)

func testTable() core.RatingTable {
	return core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 5, Timestamp: 100},
		{UserID: 1, ProductID: 2, Rating: 1, Timestamp: 100},
		{UserID: 2, ProductID: 1, Rating: 4, Timestamp: 100},
		{UserID: 2, ProductID: 2, Rating: 5, Timestamp: 100},
		{UserID: 2, ProductID: 3, Rating: 5, Timestamp: 200},
	}
}

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix(testTable())

	users := m.Users()
	if len(users) != 2 || users[0] != 1 || users[1] != 2 {
		t.Errorf("Users() = %v, want [1 2]", users)
	}
	items := m.Items()
	if len(items) != 3 || items[0] != 1 || items[1] != 2 || items[2] != 3 {
		t.Errorf("Items() = %v, want [1 2 3]", items)
	}

	if r, ok := m.Rating(2, 3); !ok || r != 5 {
		t.Errorf("Rating(2, 3) = %f, %v; want 5, true", r, ok)
	}
	if _, ok := m.Rating(1, 3); ok {
		t.Error("Rating(1, 3) should be absent, not zero")
	}
	if got := m.UserRatings(99); got != nil {
		t.Errorf("UserRatings(99) = %v, want nil", got)
	}
}

func TestBuild_Cosine(t *testing.T) {
	sims := Build(BuildMatrix(testTable()))

	// sim(1,2)：共同评分人 {u1, u2}
	// dot = 5*1 + 4*5 = 25; ||r1|| = sqrt(41); ||r2|| = sqrt(26)
	want := 25 / (math.Sqrt(41) * math.Sqrt(26))
	got, ok := sims.Get(1, 2)
	if !ok || math.Abs(got-want) > 1e-9 {
		t.Errorf("sim(1,2) = %f, %v; want %f", got, ok, want)
	}

	// 单个共同评分人：余弦恒为 1（同号时）
	if got, ok := sims.Get(1, 3); !ok || math.Abs(got-1) > 1e-9 {
		t.Errorf("sim(1,3) = %f, %v; want 1", got, ok)
	}
}

func TestMatrix_Symmetry(t *testing.T) {
	sims := Build(BuildMatrix(testTable()))
	a, okA := sims.Get(1, 2)
	b, okB := sims.Get(2, 1)
	if okA != okB || a != b {
		t.Errorf("sim(1,2) = %f/%v but sim(2,1) = %f/%v", a, okA, b, okB)
	}
}

func TestMatrix_Diagonal(t *testing.T) {
	sims := Build(BuildMatrix(testTable()))
	if got, ok := sims.Get(2, 2); !ok || got != 1 {
		t.Errorf("sim(2,2) = %f, %v; want 1, true", got, ok)
	}
	// 对角线不占存储：3 个商品只有 3 个无序对
	if sims.Len() != 3 {
		t.Errorf("Len() = %d, want 3", sims.Len())
	}
}

func TestMatrix_NoCommonRaters(t *testing.T) {
	// 商品 1 和 2 没有任何共同评分人
	table := core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 5, Timestamp: 1},
		{UserID: 2, ProductID: 2, Rating: 4, Timestamp: 1},
	}
	sims := Build(BuildMatrix(table))

	// 显式的 0 记录：ok 为 true，区别于"没算过"
	got, ok := sims.Get(1, 2)
	if !ok {
		t.Fatal("pair with no common raters should be stored explicitly")
	}
	if got != 0 {
		t.Errorf("sim(1,2) = %f, want 0", got)
	}
}

func TestMatrix_ZeroNorm(t *testing.T) {
	// 均值中心化后 u2 对两个商品的评分都是 0，受限向量范数为 0
	table := core.RatingTable{
		{UserID: 2, ProductID: 1, Rating: 0, Timestamp: 1},
		{UserID: 2, ProductID: 2, Rating: 0, Timestamp: 1},
	}
	sims := Build(BuildMatrix(table))
	if got, ok := sims.Get(1, 2); !ok || got != 0 {
		t.Errorf("sim(1,2) = %f, %v; want 0, true", got, ok)
	}
}

func TestMatrix_NegativeRatings(t *testing.T) {
	// 归一化后的评分可以为负，相似度落在 [-1, 1]
	table := core.RatingTable{
		{UserID: 1, ProductID: 1, Rating: 2, Timestamp: 1},
		{UserID: 1, ProductID: 2, Rating: -2, Timestamp: 1},
	}
	sims := Build(BuildMatrix(table))
	if got, ok := sims.Get(1, 2); !ok || math.Abs(got-(-1)) > 1e-9 {
		t.Errorf("sim(1,2) = %f, %v; want -1", got, ok)
	}
}

func TestBuildParallel_MatchesSequential(t *testing.T) {
	// 构造一个大一点的确定性数据集
	var table core.RatingTable
	for u := int64(1); u <= 20; u++ {
		for p := int64(1); p <= 30; p++ {
			if (u+p)%3 == 0 {
				continue // 制造稀疏
			}
			table = append(table, core.RatingEvent{
				UserID:    u,
				ProductID: p,
				Rating:    float64((u*p)%9)/2 + 0.5,
				Timestamp: int64(u * p),
			})
		}
	}
	m := BuildMatrix(table)
	sequential := Build(m)

	for _, workers := range []int{2, 4, 7} {
		parallel, err := BuildParallel(context.Background(), m, workers)
		if err != nil {
			t.Fatalf("BuildParallel(workers=%d) error = %v", workers, err)
		}
		if parallel.Len() != sequential.Len() {
			t.Fatalf("workers=%d: Len() = %d, want %d", workers, parallel.Len(), sequential.Len())
		}
		items := m.Items()
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				ps, _ := parallel.Get(items[i], items[j])
				ss, _ := sequential.Get(items[i], items[j])
				if ps != ss {
					t.Fatalf("workers=%d: sim(%d,%d) = %v, want %v", workers, items[i], items[j], ps, ss)
				}
			}
		}
	}
}

func TestBuildParallel_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var table core.RatingTable
	for u := int64(1); u <= 10; u++ {
		for p := int64(1); p <= 10; p++ {
			table = append(table, core.RatingEvent{UserID: u, ProductID: p, Rating: 3, Timestamp: 1})
		}
	}
	if _, err := BuildParallel(ctx, BuildMatrix(table), 4); err == nil {
		t.Error("BuildParallel() with canceled context should fail")
	}
}
