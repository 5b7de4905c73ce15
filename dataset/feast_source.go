package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/feast"
)

// FeastSource 从 Feast Feature Store 拉取用户交互历史作为训练输入。
//
// 特征约定：每个用户一条 string 特征，内容为 JSON map[itemID]rating，
// 例如特征 "user_stats:recent_ratings" 的值 `{"med_breathing": 4.5}`。
//
// 输出顺序是确定的：用户按 Users 给定顺序，物品按 ID 字典序。
type FeastSource struct {
	Client feast.Client

	// Project Feast 项目名称（空值用客户端默认）
	Project string

	// Feature 承载交互历史的特征名称
	Feature string

	// EntityKey 实体键名，空值等价于 "user_id"
	EntityKey string

	// Users 要拉取的用户列表
	Users []string
}

// Load 拉取全部用户的交互历史并转换为评分流。
// 特征缺失的用户跳过而不报错（特征存储里可能尚未物化）。
func (s *FeastSource) Load(ctx context.Context) ([]core.Rating, error) {
	if s.Client == nil || s.Feature == "" || len(s.Users) == 0 {
		return nil, nil
	}

	entityKey := s.EntityKey
	if entityKey == "" {
		entityKey = "user_id"
	}

	rows := make([]map[string]any, len(s.Users))
	for i, u := range s.Users {
		rows[i] = map[string]any{entityKey: u}
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Project:    s.Project,
		Features:   []string{s.Feature},
		EntityRows: rows,
	})
	if err != nil {
		return nil, err
	}

	var ratings []core.Rating
	for i, vec := range resp.FeatureVectors {
		raw, ok := vec.Values[s.Feature].(string)
		if !ok || raw == "" {
			continue
		}
		var items map[string]float64
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, invalidInput(fmt.Sprintf("feast source: user %q feature %q: %v",
				s.Users[i], s.Feature, err))
		}
		for _, itemID := range sortedFloatMapKeys(items) {
			r := core.Rating{UserID: s.Users[i], ItemID: itemID, Rating: items[itemID]}
			if err := validateRating(&r); err != nil {
				return nil, err
			}
			ratings = append(ratings, r)
		}
	}
	return ratings, nil
}
