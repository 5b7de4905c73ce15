package filter

import (
	"context"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/pkg/dsl"
)

// Expr 是表达式过滤器：表达式求值为 true 的物品被剔除。
//
// 示例：
//   - `item.score < 0.1`                  → 剔除低分候选
//   - `label.recall_source == "hot"`      → 剔除热门兜底结果
type Expr struct {
	// Expression CEL 表达式；空表达式不过滤任何物品
	Expression string
}

func (f *Expr) Name() string { return "filter.expr" }

func (f *Expr) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expression == "" {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expression)
}

var _ Filter = (*Expr)(nil)
