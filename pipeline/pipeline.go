package pipeline

import (
	"context"

	"github.com/rushteam/ibcf/core"
)

// Pipeline 把推荐服务逻辑拆成可组合的 Node 链（召回 → 过滤 → 重排）。
// 打分语义全部在 recommend 包内，Pipeline 只做服务侧编排。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
