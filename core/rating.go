package core

// Rating 是一条用户-物品评分记录，训练输入的最小单元。
//
// 约束：
//   - UserID / ItemID 是不透明字符串，按字符串比较
//   - Rating 必须非零（0 在矩阵中是"未评分"的哨兵值）
//   - Timestamp 可选（缺省为 0），仅离线评估的留一切分使用
type Rating struct {
	UserID    string  `json:"user_id"`
	ItemID    string  `json:"item_id"`
	Rating    float64 `json:"rating"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

// ItemMeta 是物品元信息，目前仅用于推荐解释文案。
// Title 缺省时回退为 ItemID 本身。
type ItemMeta struct {
	ItemID string `json:"item_id"`
	Title  string `json:"title,omitempty"`
}

// RecResult 是一次 recommend 查询返回的单个条目。
// 查询期临时产生，不持久化。
type RecResult struct {
	ItemID      string  `json:"item_id"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}
