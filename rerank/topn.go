// Package rerank 提供服务链路的重排 Node。
package rerank

import (
	"context"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/pipeline"
)

// TopN 是 Top-N 截断 Node，在召回/过滤之后截取前 N 个物品。
//
// 使用场景：
//   - 过滤后只返回 Top 10/20 个结果
//   - 控制推荐结果数量
type TopN struct {
	// N 要保留的物品数量
	// N <= 0 或物品数不足 N 时返回所有物品（不截断）
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
