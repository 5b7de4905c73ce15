// Package recall 提供服务链路的召回 Node。
package recall

import (
	"context"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/pipeline"
	"github.com/rushteam/ibcf/pkg/utils"
	"github.com/rushteam/ibcf/recommend"
)

// IBCF 是把训练好的 Item-CF 模型接入 Pipeline 的召回 Node。
//
// 打分、已评分排除、冷启动兜底全部由模型本体负责，
// 这里只做结果到 core.Item 的转换与 Label 标注（explain / 观测）。
type IBCF struct {
	// Model 训练或加载完成的模型实例；产物不可变，并发 Process 安全
	Model *recommend.Recommender

	// TopK 请求未带 K 时的默认条数，<=0 时取 10
	TopK int
}

func (r *IBCF) Name() string        { return "recall.ibcf" }
func (r *IBCF) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *IBCF) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if r.Model == nil || rctx == nil {
		return nil, nil
	}

	k := rctx.K
	if k <= 0 {
		k = r.TopK
	}
	if k <= 0 {
		k = 10
	}

	recs, err := r.Model.Recommend(rctx.UserID, k)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(recs))
	for _, rec := range recs {
		it := core.NewItem(rec.ItemID)
		it.Score = rec.Score
		it.PutLabel("recall_source", utils.Label{Value: "i2i", Source: "recall"})
		if rec.Explanation != "" {
			it.PutLabel("explanation", utils.Label{Value: rec.Explanation, Source: "recall"})
		}
		out = append(out, it)
	}
	return out, nil
}
