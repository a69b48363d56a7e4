// Package ratekit 是一个基于评分事件的推荐工具包（Rating Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - Labels-first: labels 全链路透传，fallback/召回来源可解释、可策略驱动
// - 纯函数核心: 评分表不可变，归一化/切分/召回都产出新数据，天然无数据竞争
//
// 两条产出路径：
//   - recall.TopN: 时间窗口内的热门排行
//   - recommend.Recommender: 物品协同过滤的个性化推荐，冷启动自动兜底热门
package ratekit

import "github.com/rushteam/ratekit/pipeline"

// 轻量 facade：便于用户直接 import "ratekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
