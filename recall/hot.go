package recall

import (
	"context"
	"encoding/json"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/pipeline"
	"github.com/rushteam/ibcf/pkg/utils"
)

// Hot 是热门召回 Node，从 Store 读取热门物品列表作为兜底候选。
//   - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（有序集合，按分数降序）
//   - 否则从普通 key 读取 JSON 数组
//   - Store 不可用时使用内存中的 IDs 作为 fallback
type Hot struct {
	Store core.Store
	Key   string   // 存储 key，例如 "hot:items"
	IDs   []string // fallback 内存列表
	TopK  int      // ZRange 读取条数，<=0 时取 100
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Hot) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	var ids []string

	if r.Store != nil && r.Key != "" {
		if kv, ok := r.Store.(core.KeyValueStore); ok {
			topK := int64(r.TopK)
			if topK <= 0 {
				topK = 100
			}
			members, err := kv.ZRange(ctx, r.Key, 0, topK-1)
			if err == nil && len(members) > 0 {
				ids = members
			}
		} else {
			data, err := r.Store.Get(ctx, r.Key)
			if err == nil {
				var parsed []string
				if json.Unmarshal(data, &parsed) == nil {
					ids = parsed
				}
			}
		}
	}

	if len(ids) == 0 {
		ids = r.IDs
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
