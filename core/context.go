package core

import "github.com/rushteam/ibcf/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/场景信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string // 不透明字符串 ID，与训练数据中的 user_id 同一命名空间
	Scene  string

	// K 期望返回的条数（>=1）；Node 可在此基础上各自截断
	K int

	// Labels 是用户级标签，可驱动 Pipeline 行为（新用户、冷启动等）
	Labels map[string]utils.Label

	// Params 请求级上下文参数（过滤表达式的 rctx.params 即来源于此）
	Params map[string]any
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

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
