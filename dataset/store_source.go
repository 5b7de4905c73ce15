package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rushteam/ibcf/core"
)

// StoreSource 从 core.Store（Redis/内存等）读取用户-物品交互数据作为训练输入。
//
// key 约定：
//   - 所有用户列表：{KeyPrefix}:users          → JSON []string
//   - 用户交互数据：{KeyPrefix}:user:{userID}   → JSON map[itemID]rating
//
// 输出顺序是确定的：用户按列表顺序，物品按 ID 字典序——
// 相同存储内容必然产出相同的评分流（index 布局随之确定）。
type StoreSource struct {
	Store core.Store

	// KeyPrefix 存储 key 前缀，空值等价于 "cf"
	KeyPrefix string
}

func NewStoreSource(s core.Store, keyPrefix string) *StoreSource {
	if keyPrefix == "" {
		keyPrefix = "cf"
	}
	return &StoreSource{Store: s, KeyPrefix: keyPrefix}
}

// Load 拉取全部交互数据并转换为评分流。
// 列表中的用户若缺少交互 key，跳过而不报错（可能刚注册）。
func (s *StoreSource) Load(ctx context.Context) ([]core.Rating, error) {
	data, err := s.Store.Get(ctx, s.KeyPrefix+":users")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, invalidInput(fmt.Sprintf("store source: users list: %v", err))
	}

	keys := make([]string, 0, len(users))
	for _, u := range users {
		keys = append(keys, s.userKey(u))
	}
	byKey, err := s.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	var ratings []core.Rating
	for _, u := range users {
		raw, ok := byKey[s.userKey(u)]
		if !ok {
			continue
		}
		var items map[string]float64
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, invalidInput(fmt.Sprintf("store source: user %q interactions: %v", u, err))
		}
		for _, itemID := range sortedFloatMapKeys(items) {
			r := core.Rating{UserID: u, ItemID: itemID, Rating: items[itemID]}
			if err := validateRating(&r); err != nil {
				return nil, err
			}
			ratings = append(ratings, r)
		}
	}
	return ratings, nil
}

// Seed 将评分流写回 Store（测试/数据准备用），与 Load 的 key 约定对应。
func (s *StoreSource) Seed(ctx context.Context, ratings []core.Rating) error {
	userItems := make(map[string]map[string]float64)
	for _, r := range ratings {
		if userItems[r.UserID] == nil {
			userItems[r.UserID] = make(map[string]float64)
		}
		userItems[r.UserID][r.ItemID] = r.Rating
	}

	users := make([]string, 0, len(userItems))
	for u := range userItems {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, u := range users {
		data, err := json.Marshal(userItems[u])
		if err != nil {
			return err
		}
		if err := s.Store.Set(ctx, s.userKey(u), data); err != nil {
			return err
		}
	}

	data, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, s.KeyPrefix+":users", data)
}

func (s *StoreSource) userKey(userID string) string {
	return s.KeyPrefix + ":user:" + userID
}

func sortedFloatMapKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
