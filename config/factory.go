// Package config 提供训练配置与 Pipeline Node 工厂。
package config

import (
	"fmt"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/filter"
	"github.com/rushteam/ibcf/pipeline"
	"github.com/rushteam/ibcf/pkg/conv"
	"github.com/rushteam/ibcf/recall"
	"github.com/rushteam/ibcf/recommend"
	"github.com/rushteam/ibcf/rerank"
)

// Deps 是 Node 构建器需要的运行时依赖。
// 模型实例和存储连接无法从配置文件构造，由调用方注入。
type Deps struct {
	// Model 训练/加载完成的模型（recall.ibcf 需要）
	Model *recommend.Recommender

	// Store 存储后端（recall.hot / filter.blacklist 需要，可为 nil）
	Store core.Store
}

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.ibcf", func(cfg map[string]any) (pipeline.Node, error) {
		if deps.Model == nil {
			return nil, fmt.Errorf("recall.ibcf requires a model instance")
		}
		return &recall.IBCF{
			Model: deps.Model,
			TopK:  conv.ConfigGetInt(cfg, "top_k", 10),
		}, nil
	})

	factory.Register("recall.hot", func(cfg map[string]any) (pipeline.Node, error) {
		node := &recall.Hot{
			Store: deps.Store,
			Key:   conv.ConfigGet(cfg, "key", ""),
			TopK:  conv.ConfigGetInt(cfg, "top_k", 0),
		}
		if ids := conv.SliceAnyToString(cfg["ids"]); ids != nil {
			node.IDs = ids
		}
		return node, nil
	})

	factory.Register("filter", func(cfg map[string]any) (pipeline.Node, error) {
		node := &filter.Node{}
		if expr := conv.ConfigGet(cfg, "expression", ""); expr != "" {
			node.Filters = append(node.Filters, &filter.Expr{Expression: expr})
		}
		if prefix := conv.ConfigGet(cfg, "blacklist_prefix", ""); prefix != "" {
			if deps.Store == nil {
				return nil, fmt.Errorf("filter.blacklist requires a store")
			}
			node.Filters = append(node.Filters, &filter.Blacklist{Store: deps.Store, KeyPrefix: prefix})
		}
		return node, nil
	})

	factory.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopN{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	return factory
}
