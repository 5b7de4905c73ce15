package matrix

import (
	"fmt"
	"sort"

	"github.com/rushteam/ibcf/core"
)

// AggregatePolicy 是重复评分（同一 user/item 对出现多条记录）的聚合策略。
// 策略必须是显式配置，而不是矩阵填充顺序的副作用。
type AggregatePolicy string

const (
	// AggregateLast 按输入顺序后写覆盖（默认，与历史行为一致）
	AggregateLast AggregatePolicy = "last"
	// AggregateMean 对重复评分取算术平均
	AggregateMean AggregatePolicy = "mean"
	// AggregateReject 出现重复评分即报错
	AggregateReject AggregatePolicy = "reject"
)

// RatingMatrix 是训练期构建的用户×物品评分矩阵及其索引映射。
//
// 不变式：
//   - UserIDs/ItemIDs 是去重后按字典序排序的 ID 列表，
//     索引分配是排序结果的纯函数——相同输入必然得到相同布局
//   - Rated 掩码显式标记已评分 cell；R 中未评分 cell 恒为 0
type RatingMatrix struct {
	R     *Dense // users × items 原始评分
	Rated *Mask  // users × items 评分掩码

	UserIDs []string
	ItemIDs []string

	userIndex map[string]int
	itemIndex map[string]int
}

// UserIndex 返回 user_id 对应的行号。
func (rm *RatingMatrix) UserIndex(userID string) (int, bool) {
	i, ok := rm.userIndex[userID]
	return i, ok
}

// ItemIndex 返回 item_id 对应的列号。
func (rm *RatingMatrix) ItemIndex(itemID string) (int, bool) {
	j, ok := rm.itemIndex[itemID]
	return j, ok
}

// RatedCount 返回用户 u 的已评分 cell 数。
func (rm *RatingMatrix) RatedCount(u int) int {
	return rm.Rated.CountRow(u)
}

// Builder 将评分流转换为稠密矩阵与稳定的 id↔index 双射。
//
// 本层不做字段校验——非法输入（缺字段、零评分）由 dataset 层拒绝。
// 唯一的失败路径是 AggregateReject 策略遇到重复评分。
type Builder struct {
	// Aggregate 重复评分聚合策略，空值等价于 AggregateLast
	Aggregate AggregatePolicy
}

// Build 构建评分矩阵。输入顺序只影响 AggregateLast 策略下重复评分的取值。
func (b *Builder) Build(ratings []core.Rating) (*RatingMatrix, error) {
	policy := b.Aggregate
	if policy == "" {
		policy = AggregateLast
	}
	switch policy {
	case AggregateLast, AggregateMean, AggregateReject:
	default:
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
			fmt.Sprintf("matrix: unknown aggregate policy %q", policy))
	}

	// 收集去重 ID 并排序，得到确定性的 index 布局
	userSet := make(map[string]struct{})
	itemSet := make(map[string]struct{})
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		itemSet[r.ItemID] = struct{}{}
	}

	rm := &RatingMatrix{
		UserIDs:   sortedKeys(userSet),
		ItemIDs:   sortedKeys(itemSet),
		userIndex: make(map[string]int, len(userSet)),
		itemIndex: make(map[string]int, len(itemSet)),
	}
	for i, u := range rm.UserIDs {
		rm.userIndex[u] = i
	}
	for j, it := range rm.ItemIDs {
		rm.itemIndex[it] = j
	}

	nUsers := len(rm.UserIDs)
	nItems := len(rm.ItemIDs)
	rm.R = NewDense(nUsers, nItems)
	rm.Rated = NewMask(nUsers, nItems)

	// mean 策略需要按 cell 累计条数
	var dupCount []int
	if policy == AggregateMean {
		dupCount = make([]int, nUsers*nItems)
	}

	for _, r := range ratings {
		ui := rm.userIndex[r.UserID]
		ij := rm.itemIndex[r.ItemID]
		idx := ui*nItems + ij

		if rm.Rated.Data[idx] {
			switch policy {
			case AggregateReject:
				return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
					fmt.Sprintf("matrix: duplicate rating for user %q item %q", r.UserID, r.ItemID))
			case AggregateMean:
				rm.R.Data[idx] += r.Rating
				dupCount[idx]++
				continue
			default: // AggregateLast：后写覆盖
				rm.R.Data[idx] = r.Rating
				continue
			}
		}

		rm.R.Data[idx] = r.Rating
		rm.Rated.Data[idx] = true
		if policy == AggregateMean {
			dupCount[idx] = 1
		}
	}

	if policy == AggregateMean {
		for idx, n := range dupCount {
			if n > 1 {
				rm.R.Data[idx] /= float64(n)
			}
		}
	}

	return rm, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
