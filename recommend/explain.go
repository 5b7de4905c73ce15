package recommend

import (
	"fmt"
	"sort"
	"strings"
)

// explain 为候选物品生成解释文案：
// 在用户已评分物品中挑与候选最相似的两个，渲染其标题（无元数据时回退原始 ID）。
// 用户没有已评分物品时返回通用文案。
func (r *Recommender) explain(ui, ij int) string {
	ratedMask := r.Rated.Row(ui)

	ratedIdx := make([]int, 0, 8)
	for j, rated := range ratedMask {
		if rated {
			ratedIdx = append(ratedIdx, j)
		}
	}
	if len(ratedIdx) == 0 {
		return explainGeneric
	}

	// 按与候选物品的相似度降序；平分按 index 升序保证确定性
	simRow := r.Sim.Row(ij)
	sort.SliceStable(ratedIdx, func(a, b int) bool {
		return simRow[ratedIdx[a]] > simRow[ratedIdx[b]]
	})

	top := ratedIdx
	if len(top) > 2 {
		top = top[:2]
	}

	reasons := make([]string, 0, len(top))
	for _, t := range top {
		reasons = append(reasons, r.title(r.ItemIDs[t]))
	}
	return fmt.Sprintf(explainTemplate, strings.Join(reasons, ", "))
}

func (r *Recommender) title(itemID string) string {
	if t, ok := r.Titles[itemID]; ok && t != "" {
		return t
	}
	return itemID
}
