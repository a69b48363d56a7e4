// Package eval 提供训练/测试集切分与推荐质量评测：
// Precision/Recall/F1@K 衡量排序质量，RMSE/MAE 衡量评分预测精度。
package eval

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rushteam/ratekit/core"
)

// defaults 提供未显式配置时的评测默认值。
var defaults core.RecommendConfig = &core.DefaultRecommendConfig{}

// Split 是一次切分的结果：两表不相交，并集覆盖原表全部事件。
type Split struct {
	Train core.RatingTable
	Test  core.RatingTable
}

// SplitOptions 控制切分行为。
type SplitOptions struct {
	// TestSize 是测试集比例，(0, 1)；0 时取 0.2
	TestSize float64

	// Temporal 为 true 时按时间切分：每个用户最近的一段进测试集，
	// 训练数据永远早于测试数据，避免未来信息泄漏
	Temporal bool

	// Seed 是随机切分的种子，相同种子得到相同切分
	Seed int64

	// MinRatingsPerUser 是参与切分的最少评分数；不足的用户整体进训练集。
	// 0 时取 5
	MinRatingsPerUser int
}

// SplitTrainTest 把表切分为训练/测试集。
//
// 不变式：出现在测试集里的用户在训练集中至少保留一条事件——
// 切分按用户进行，每个用户至少留一条在训练侧；
// 事件太少无法两侧兼顾的用户整体进训练集。
func SplitTrainTest(table core.RatingTable, opts SplitOptions) (*Split, error) {
	if len(table) == 0 {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeEmptyDataset, "eval: empty table")
	}
	testSize := opts.TestSize
	if testSize == 0 {
		testSize = 0.2
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput,
			fmt.Sprintf("eval: test size %.3f outside (0, 1)", testSize))
	}
	minPerUser := opts.MinRatingsPerUser
	if minPerUser == 0 {
		minPerUser = defaults.DefaultMinRatingsPerUser()
	}

	byUser := make(map[int64]core.RatingTable)
	for _, e := range table {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	// 用户按 ID 升序处理，保证同一种子下切分可复现
	users := make([]int64, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	rng := rand.New(rand.NewSource(opts.Seed))
	split := &Split{
		Train: make(core.RatingTable, 0, len(table)),
		Test:  make(core.RatingTable, 0, len(table)),
	}

	for _, u := range users {
		events := byUser[u]
		n := len(events)
		if n < minPerUser {
			split.Train = append(split.Train, events...)
			continue
		}

		nTest := int(math.Round(testSize * float64(n)))
		if nTest < 1 {
			nTest = 1
		}
		if nTest > n-1 {
			nTest = n - 1
		}

		if opts.Temporal {
			sorted := events.Clone()
			sort.SliceStable(sorted, func(i, j int) bool {
				if sorted[i].Timestamp != sorted[j].Timestamp {
					return sorted[i].Timestamp < sorted[j].Timestamp
				}
				return sorted[i].ProductID < sorted[j].ProductID
			})
			split.Train = append(split.Train, sorted[:n-nTest]...)
			split.Test = append(split.Test, sorted[n-nTest:]...)
			continue
		}

		perm := rng.Perm(n)
		inTest := make(map[int]bool, nTest)
		for _, idx := range perm[:nTest] {
			inTest[idx] = true
		}
		for i, e := range events {
			if inTest[i] {
				split.Test = append(split.Test, e)
			} else {
				split.Train = append(split.Train, e)
			}
		}
	}
	return split, nil
}
