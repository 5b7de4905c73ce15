// Package ibcf 是一个基于物品协同过滤（Item-based CF）的推荐工具包。
//
// 设计要点：
//   - 模型本体（recommend）：用户均值中心化 + 物品列余弦相似度 + 加权平均打分
//   - 全量批训练：相似度矩阵一次性重算，产物不可变，并发查询无锁
//   - 持久化（modelstore）：manifest + 数值 artifact 的版本化 bundle，原子发布
//   - 服务编排（pipeline）：召回 → 过滤 → 重排 的可组合 Node 链
package ibcf

import "github.com/rushteam/ibcf/pipeline"

// 轻量 facade：便于用户直接 import 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
