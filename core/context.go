package core

import "github.com/rushteam/ratekit/pkg/utils"

// RecommendContext 承载一次推荐请求的目标用户与请求级参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64
	Scene  string

	// Labels 是用户级标签，可驱动 Pipeline 行为（例如冷启动用户、重度用户）。
	Labels map[string]utils.Label

	// Params 是请求级上下文参数。约定 key 见下方常量。
	Params map[string]any
}

// ParamRatingTable 是 Params 中评分表的约定 key。
// 配置驱动构建的 recall 节点没有机会在构造期拿到数据表，
// 统一从请求上下文取表，避免包级全局状态。
const ParamRatingTable = "rating_table"

// Table 从 Params 中取出评分表；未设置时返回 nil。
func (rctx *RecommendContext) Table() RatingTable {
	if rctx == nil || rctx.Params == nil {
		return nil
	}
	if t, ok := rctx.Params[ParamRatingTable].(RatingTable); ok {
		return t
	}
	return nil
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 读取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
