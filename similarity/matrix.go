// Package similarity 构建用户×商品评分矩阵，并计算商品间的余弦相似度。
// 这是整条推荐链路的计算瓶颈（O(商品² × 平均共同评分人数)），
// 因此评分人倒排索引只建一次，逐对计算时不再回表扫描。
package similarity

import (
	"sort"

	"github.com/rushteam/ratekit/core"
)

// UserItemMatrix 是稀疏的用户×商品评分矩阵。
// 缺失的条目表示"未评分"，而不是"评了 0 分"。
type UserItemMatrix struct {
	byUser map[int64]map[int64]float64 // user -> item -> rating
	byItem map[int64]map[int64]float64 // item -> user -> rating（倒排）
	users  []int64                     // 升序
	items  []int64                     // 升序
}

// BuildMatrix 从评分表构建矩阵。表变化后需要重建，矩阵本身不做增量更新。
func BuildMatrix(table core.RatingTable) *UserItemMatrix {
	m := &UserItemMatrix{
		byUser: make(map[int64]map[int64]float64),
		byItem: make(map[int64]map[int64]float64),
	}
	for _, e := range table {
		if m.byUser[e.UserID] == nil {
			m.byUser[e.UserID] = make(map[int64]float64)
		}
		if m.byItem[e.ProductID] == nil {
			m.byItem[e.ProductID] = make(map[int64]float64)
		}
		m.byUser[e.UserID][e.ProductID] = e.Rating
		m.byItem[e.ProductID][e.UserID] = e.Rating
	}
	m.users = sortedKeys(m.byUser)
	m.items = sortedKeys(m.byItem)
	return m
}

func sortedKeys(m map[int64]map[int64]float64) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Users 返回升序的用户 ID 列表。
func (m *UserItemMatrix) Users() []int64 { return m.users }

// Items 返回升序的商品 ID 列表。
func (m *UserItemMatrix) Items() []int64 { return m.items }

// UserRatings 返回某用户的 商品 -> 评分；未知用户返回 nil。
func (m *UserItemMatrix) UserRatings(userID int64) map[int64]float64 {
	return m.byUser[userID]
}

// ItemRaters 返回某商品的 用户 -> 评分 倒排；未知商品返回 nil。
func (m *UserItemMatrix) ItemRaters(itemID int64) map[int64]float64 {
	return m.byItem[itemID]
}

// Rating 返回单个评分；ok 为 false 表示未评分。
func (m *UserItemMatrix) Rating(userID, itemID int64) (float64, bool) {
	r, ok := m.byUser[userID][itemID]
	return r, ok
}
