package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/ibcf/core"
)

// Blacklist 是存储驱动的黑名单过滤器：按用户剔除指定物品
//（投诉过、明确不感兴趣等）。
//
// key 约定：{KeyPrefix}:{userID} → JSON []string（物品 ID 列表）。
// key 不存在视为空黑名单，不报错。
type Blacklist struct {
	Store core.Store

	// KeyPrefix 存储 key 前缀，空值等价于 "blacklist"
	KeyPrefix string
}

func (f *Blacklist) Name() string { return "filter.blacklist" }

func (f *Blacklist) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Store == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	prefix := f.KeyPrefix
	if prefix == "" {
		prefix = "blacklist"
	}

	data, err := f.Store.Get(ctx, prefix+":"+rctx.UserID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}

	var blocked []string
	if err := json.Unmarshal(data, &blocked); err != nil {
		return false, err
	}
	for _, id := range blocked {
		if id == item.ID {
			return true, nil
		}
	}
	return false, nil
}

var _ Filter = (*Blacklist)(nil)
