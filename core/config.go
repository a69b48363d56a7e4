package core

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultTopN 返回默认的推荐条数
	DefaultTopN() int

	// DefaultWindowDays 返回热门排行的默认时间窗口（天）
	DefaultWindowDays() int

	// DefaultMinSimilarity 返回参与加权的最低相似度
	DefaultMinSimilarity() float64

	// DefaultRelevanceThreshold 返回评测时判定"相关"的评分阈值
	DefaultRelevanceThreshold() float64

	// DefaultMinRatingsPerUser 返回切分训练/测试集时用户的最少评分数
	DefaultMinRatingsPerUser() int
}

// DefaultRecommendConfig 是默认配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopN() int {
	return 10
}

func (c *DefaultRecommendConfig) DefaultWindowDays() int {
	return 10000
}

func (c *DefaultRecommendConfig) DefaultMinSimilarity() float64 {
	return 0.0
}

func (c *DefaultRecommendConfig) DefaultRelevanceThreshold() float64 {
	return 4.0
}

func (c *DefaultRecommendConfig) DefaultMinRatingsPerUser() int {
	return 5
}
