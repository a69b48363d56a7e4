package core

import (
	"fmt"
	"sort"
)

// RatingEvent 是一条评分事件：某个用户在某一时刻给某个商品打出的评分。
// 这是整个评分数据链路的最小单元，字段在构造时校验，而不是在使用点校验。
type RatingEvent struct {
	UserID    int64   `json:"user_id"`
	ProductID int64   `json:"product_id"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"` // Unix 秒
}

// RatingBounds 是评分的合法闭区间。
type RatingBounds struct {
	Min float64
	Max float64
}

// DefaultRatingBounds 是默认评分区间（半星到五星）。
var DefaultRatingBounds = RatingBounds{Min: 0.5, Max: 5.0}

// Clip 将 v 裁剪到区间内。
func (b RatingBounds) Clip(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Contains 判断 v 是否落在区间内。
func (b RatingBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// RatingTable 是评分事件的集合，插入顺序无语义。
//
// 设计原则：
//   - 表本身不可变：所有变换（归一化、过滤、切分）都返回新表
//   - 去重后 (UserID, ProductID) 唯一，冲突时保留时间戳最新的一条
//   - 校验由上游数据加载方负责，核心只做防御性复查
type RatingTable []RatingEvent

// Validate 复查表是否满足核心的输入约束：ID 非负、评分在区间内。
// 违反时返回 INVALID_INPUT；核心只拒绝脏数据，不做修复。
func (t RatingTable) Validate(bounds RatingBounds) error {
	for _, e := range t {
		if e.UserID < 0 || e.ProductID < 0 {
			return NewDomainError(ModuleData, ErrorCodeInvalidInput,
				fmt.Sprintf("rating: negative id (user=%d product=%d)", e.UserID, e.ProductID))
		}
		if !bounds.Contains(e.Rating) {
			return NewDomainError(ModuleData, ErrorCodeInvalidInput,
				fmt.Sprintf("rating: value %.2f outside [%.2f, %.2f]", e.Rating, bounds.Min, bounds.Max))
		}
	}
	return nil
}

// Dedup 返回去重后的新表：同一 (UserID, ProductID) 只保留时间戳最新的事件。
// 时间戳相同时保留后出现的一条。
func (t RatingTable) Dedup() RatingTable {
	type key struct{ u, p int64 }
	latest := make(map[key]RatingEvent, len(t))
	order := make([]key, 0, len(t))
	for _, e := range t {
		k := key{e.UserID, e.ProductID}
		old, ok := latest[k]
		if !ok {
			order = append(order, k)
			latest[k] = e
			continue
		}
		if e.Timestamp >= old.Timestamp {
			latest[k] = e
		}
	}
	out := make(RatingTable, 0, len(order))
	for _, k := range order {
		out = append(out, latest[k])
	}
	return out
}

// Clone 返回表的浅拷贝（事件是值类型，等价于深拷贝）。
func (t RatingTable) Clone() RatingTable {
	out := make(RatingTable, len(t))
	copy(out, t)
	return out
}

// Filter 返回满足 keep 条件的事件组成的新表。
func (t RatingTable) Filter(keep func(RatingEvent) bool) RatingTable {
	out := make(RatingTable, 0, len(t))
	for _, e := range t {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Users 返回去重且升序排列的用户 ID 列表。
func (t RatingTable) Users() []int64 {
	return t.distinct(func(e RatingEvent) int64 { return e.UserID })
}

// Items 返回去重且升序排列的商品 ID 列表。
func (t RatingTable) Items() []int64 {
	return t.distinct(func(e RatingEvent) int64 { return e.ProductID })
}

func (t RatingTable) distinct(id func(RatingEvent) int64) []int64 {
	seen := make(map[int64]struct{}, len(t))
	out := make([]int64, 0, len(t))
	for _, e := range t {
		v := id(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UserRatings 返回指定用户的 商品ID -> 评分 映射。
func (t RatingTable) UserRatings(userID int64) map[int64]float64 {
	out := make(map[int64]float64)
	for _, e := range t {
		if e.UserID == userID {
			out[e.ProductID] = e.Rating
		}
	}
	return out
}

// MaxTimestamp 返回表中最大时间戳；空表时 ok 为 false。
func (t RatingTable) MaxTimestamp() (ts int64, ok bool) {
	for i, e := range t {
		if i == 0 || e.Timestamp > ts {
			ts = e.Timestamp
		}
	}
	return ts, len(t) > 0
}

// Sparsity 描述用户×商品矩阵的稀疏程度，用于数据探查。
type Sparsity struct {
	Users           int     `json:"users"`
	Items           int     `json:"items"`
	Ratings         int     `json:"ratings"`
	Possible        int64   `json:"possible"`
	Sparsity        float64 `json:"sparsity"` // 1 - 填充率
	Density         float64 `json:"density"`
	AvgPerUser      float64 `json:"avg_per_user"`
	AvgPerItem      float64 `json:"avg_per_item"`
}

// SparsityInfo 统计表对应矩阵的稀疏度指标。
func (t RatingTable) SparsityInfo() Sparsity {
	s := Sparsity{
		Users:   len(t.Users()),
		Items:   len(t.Items()),
		Ratings: len(t),
	}
	if s.Users == 0 || s.Items == 0 {
		return s
	}
	s.Possible = int64(s.Users) * int64(s.Items)
	s.Density = float64(s.Ratings) / float64(s.Possible)
	s.Sparsity = 1 - s.Density
	s.AvgPerUser = float64(s.Ratings) / float64(s.Users)
	s.AvgPerItem = float64(s.Ratings) / float64(s.Items)
	return s
}
