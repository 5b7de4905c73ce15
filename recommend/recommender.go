// Package recommend 实现基于物品的协同过滤推荐（Item-based CF）。
//
// 模型：用户均值中心化 + 物品列余弦相似度 + 相似度加权平均打分。
// 训练产物（相似度矩阵、归一化矩阵、用户均值）一次性构建，
// 训练/加载完成后视为不可变；并发 Recommend 无需加锁。
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/matrix"
	"github.com/rushteam/ibcf/similarity"
)

// epsilon 兜底分母，防止候选物品与所有已评分物品相似度全为 0 时除零
const epsilon = 1e-8

// 解释文案模板
const (
	explainColdStart = "Cold start fallback."
	explainGeneric   = "Recommended based on similar items."
	explainTemplate  = "Because you liked items similar to: %s."
)

// Recommender 是 IBCF 模型本体：训练产物 + 打分逻辑。
//
// 生命周期：Fit（或 modelstore.Load）一次性填充全部产物；
// 之后只读，新评分通过整体重训换入新实例，不做原地更新。
type Recommender struct {
	// Aggregate 重复评分聚合策略（传给 matrix.Builder）
	Aggregate matrix.AggregatePolicy
	// Workers 相似度计算并发度
	Workers int

	// 以下为训练产物。index = ID 在列表中的位置。
	UserIDs []string
	ItemIDs []string
	Titles  map[string]string // item_id → title，缺失时解释文案回退为原始 ID

	Sim      *matrix.Dense // items × items 相似度
	RNorm    *matrix.Dense // users × items 归一化评分
	Rated    *matrix.Mask  // users × items 评分掩码
	UserMean []float64     // users × 1

	userIndex map[string]int
	itemIndex map[string]int
}

// Fit 全量训练：构建矩阵 → 用户均值中心化 → 物品相似度。
// 产物整体替换，旧产物不做原地修改。
func (r *Recommender) Fit(ctx context.Context, ratings []core.Rating, items []core.ItemMeta) error {
	builder := &matrix.Builder{Aggregate: r.Aggregate}
	rm, err := builder.Build(ratings)
	if err != nil {
		return err
	}

	nm := matrix.Normalize(rm)

	engine := &similarity.Engine{Workers: r.Workers}
	sim, err := engine.Compute(ctx, nm)
	if err != nil {
		return err
	}

	titles := make(map[string]string, len(items))
	for _, it := range items {
		title := it.Title
		if title == "" {
			title = it.ItemID
		}
		titles[it.ItemID] = title
	}

	r.UserIDs = rm.UserIDs
	r.ItemIDs = rm.ItemIDs
	r.Titles = titles
	r.Sim = sim
	r.RNorm = nm.Values
	r.Rated = nm.Rated
	r.UserMean = nm.UserMean
	r.Reindex()
	return nil
}

// Reindex 依据 UserIDs/ItemIDs 重建 id→index 映射。
// modelstore.Load 从 manifest 恢复 ID 列表后必须调用。
func (r *Recommender) Reindex() {
	r.userIndex = make(map[string]int, len(r.UserIDs))
	for i, u := range r.UserIDs {
		r.userIndex[u] = i
	}
	r.itemIndex = make(map[string]int, len(r.ItemIDs))
	for j, it := range r.ItemIDs {
		r.itemIndex[it] = j
	}
}

// Ready 返回模型是否可用于打分。
func (r *Recommender) Ready() bool {
	return r.Sim != nil && r.RNorm != nil && r.Rated != nil && r.UserMean != nil
}

// Recommend 为用户返回至多 k 条推荐，按分数降序。
//
// 行为约定：
//   - 模型未训练/未加载：返回 NOT_TRAINED 错误（对本次调用是致命的）
//   - 未知用户：冷启动兜底路径，按相似度行和排序，永不报错
//   - 已知用户：已评分物品绝不出现在结果里
//   - 平分时按物品原始 index 升序，相同输入的重复调用输出逐位一致
func (r *Recommender) Recommend(userID string, k int) ([]*core.RecResult, error) {
	if !r.Ready() {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotTrained,
			"recommend: model not trained/loaded")
	}
	if k < 1 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("recommend: k must be >= 1, got %d", k))
	}

	ui, known := r.userIndex[userID]
	if !known {
		return r.coldStart(k), nil
	}

	userVec := r.RNorm.Row(ui)
	ratedMask := r.Rated.Row(ui)

	ratedIdx := make([]int, 0, 8)
	for j, rated := range ratedMask {
		if rated {
			ratedIdx = append(ratedIdx, j)
		}
	}

	nItems := len(r.ItemIDs)
	scores := make([]float64, nItems)
	for j := 0; j < nItems; j++ {
		if ratedMask[j] {
			// 已知偏好不重复推荐，压到 -Inf 使其永不上浮
			scores[j] = math.Inf(-1)
			continue
		}
		simRow := r.Sim.Row(j)
		var numer, denom float64
		for _, i := range ratedIdx {
			numer += simRow[i] * userVec[i]
			denom += math.Abs(simRow[i])
		}
		// 已评分物品中心化评分的相似度加权平均
		scores[j] = numer / (denom + epsilon)
	}

	order := rankDescending(scores)
	results := make([]*core.RecResult, 0, k)
	for _, j := range order {
		if len(results) == k {
			break
		}
		if math.IsInf(scores[j], -1) {
			// 后面只会更小，直接停
			break
		}
		results = append(results, &core.RecResult{
			ItemID:      r.ItemIDs[j],
			Score:       scores[j],
			Explanation: r.explain(ui, j),
		})
	}
	return results, nil
}

// coldStart 对训练集中不存在的用户，以相似度行和作为"类热门"代理打分。
// 不做物品流行度归一化——弱邻居多的物品可能压过强邻居少的物品，
// 这是沿袭下来的既定行为。
func (r *Recommender) coldStart(k int) []*core.RecResult {
	nItems := len(r.ItemIDs)
	scores := make([]float64, nItems)
	for j := 0; j < nItems; j++ {
		var sum float64
		for _, s := range r.Sim.Row(j) {
			sum += s
		}
		scores[j] = sum
	}

	order := rankDescending(scores)
	if k > nItems {
		k = nItems
	}
	results := make([]*core.RecResult, 0, k)
	for _, j := range order[:k] {
		results = append(results, &core.RecResult{
			ItemID:      r.ItemIDs[j],
			Score:       scores[j],
			Explanation: explainColdStart,
		})
	}
	return results
}

// rankDescending 返回按分数降序的 index 排列；平分按 index 升序（稳定排序）。
func rankDescending(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}
