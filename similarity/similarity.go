package similarity

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

type pairKey struct {
	a, b int64 // a < b
}

// Matrix 是对称的商品间相似度矩阵。
//
// 每个无序商品对都有一条显式记录：没有共同评分人、或受限向量范数为 0 的
// 商品对记为 0 而不是省略——这样 Get 的 ok 结果可以区分"算出来是 0"
// 与"压根没算过"（冷启动时后者才触发 fallback）。
// 对角线 sim(i,i) 恒为 1，但不存储，候选生成也不会用到它。
type Matrix struct {
	sims map[pairKey]float64
}

func newMatrix(capacity int) *Matrix {
	return &Matrix{sims: make(map[pairKey]float64, capacity)}
}

func orderPair(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Get 返回 a、b 两个商品的相似度。sim(a,b) == sim(b,a)。
func (m *Matrix) Get(a, b int64) (float64, bool) {
	if a == b {
		return 1, true
	}
	v, ok := m.sims[orderPair(a, b)]
	return v, ok
}

// Put 写入一个商品对的相似度。
func (m *Matrix) Put(a, b int64, sim float64) {
	if a == b {
		return
	}
	m.sims[orderPair(a, b)] = sim
}

// Len 返回已记录的商品对数量。
func (m *Matrix) Len() int { return len(m.sims) }

// Build 串行计算所有无序商品对的余弦相似度。
func Build(m *UserItemMatrix) *Matrix {
	items := m.Items()
	out := newMatrix(len(items) * (len(items) - 1) / 2)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			out.Put(items[i], items[j], cosineOverCommon(m.ItemRaters(items[i]), m.ItemRaters(items[j])))
		}
	}
	return out
}

// BuildParallel 并行计算相似度矩阵，结果与 Build 完全一致。
//
// 商品对之间没有顺序依赖，按第一下标把对空间切给 workers 个任务，
// 每个任务写自己的局部矩阵，eg.Wait 之后合并一次——合并是唯一的同步点，
// 计算过程中不发布任何部分状态。
func BuildParallel(ctx context.Context, m *UserItemMatrix, workers int) (*Matrix, error) {
	items := m.Items()
	if workers <= 1 || len(items) < 2 {
		return Build(m), nil
	}
	if workers > len(items) {
		workers = len(items)
	}

	parts := make([]*Matrix, workers)
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			part := newMatrix(0)
			// 按步长取第一下标，行的代价随 i 递减，交错分配比连续分段更均衡
			for i := w; i < len(items); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				ri := m.ItemRaters(items[i])
				for j := i + 1; j < len(items); j++ {
					part.Put(items[i], items[j], cosineOverCommon(ri, m.ItemRaters(items[j])))
				}
			}
			parts[w] = part
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := newMatrix(len(items) * (len(items) - 1) / 2)
	for _, part := range parts {
		for k, v := range part.sims {
			out.sims[k] = v
		}
	}
	return out, nil
}

// cosineOverCommon 在两个商品的共同评分人上计算余弦相似度。
// 只取同时给 i、j 打过分的用户构成的受限向量：
//
//	sim(i,j) = dot(r_i, r_j) / (||r_i|| * ||r_j||)
//
// 没有共同评分人、或任一受限向量范数为 0 时返回 0。
// 归一化后的评分可以为负，所以结果落在 [-1, 1]。
func cosineOverCommon(ri, rj map[int64]float64) float64 {
	// 遍历较小的一侧
	if len(rj) < len(ri) {
		ri, rj = rj, ri
	}
	var dot, normI, normJ float64
	for user, a := range ri {
		b, ok := rj[user]
		if !ok {
			continue
		}
		dot += a * b
		normI += a * a
		normJ += b * b
	}
	if normI == 0 || normJ == 0 {
		return 0
	}
	return dot / (math.Sqrt(normI) * math.Sqrt(normJ))
}
