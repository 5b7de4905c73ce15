// Package evaluate 实现离线评估：留一切分 + HitRate@k / MRR@k。
//
// 协议：对每个评分数 >= 2 的用户，按 timestamp 升序留出最后一条作为测试，
// 其余进入训练集；评分数不足的用户全部进入训练集。
package evaluate

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/matrix"
	"github.com/rushteam/ibcf/recommend"
)

// TestRow 是一条留出的测试样本：用户与其最近一次评分的物品。
type TestRow struct {
	UserID string
	ItemID string
}

// Result 是一次评估的汇总指标。
type Result struct {
	K        int     `json:"k"`
	NumUsers int     `json:"num_users"`
	NumItems int     `json:"num_items"`
	NumTest  int     `json:"num_test"`
	HitRate  float64 `json:"HitRate@k"`
	MRR      float64 `json:"MRR@k"`
}

// SplitLeaveOneOut 做留一切分。
// 组内 timestamp 相同时保持输入顺序（稳定排序），切分结果确定。
func SplitLeaveOneOut(ratings []core.Rating) (train []core.Rating, test []TestRow) {
	byUser := make(map[string][]core.Rating)
	users := make([]string, 0)
	for _, r := range ratings {
		if _, ok := byUser[r.UserID]; !ok {
			users = append(users, r.UserID)
		}
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	sort.Strings(users)

	train = make([]core.Rating, 0, len(ratings))
	for _, u := range users {
		group := byUser[u]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp < group[j].Timestamp
		})
		if len(group) < 2 {
			train = append(train, group...)
			continue
		}
		last := group[len(group)-1]
		test = append(test, TestRow{UserID: last.UserID, ItemID: last.ItemID})
		train = append(train, group[:len(group)-1]...)
	}
	return train, test
}

// Options 是评估配置。
type Options struct {
	// K 推荐条数
	K int
	// Workers 并行评估的并发度（模型只读，并行不影响结果），<=0 串行
	Workers int
	// Aggregate 传给训练的重复评分聚合策略
	Aggregate matrix.AggregatePolicy
}

// Run 在给定数据集上做一次完整的留一评估：切分 → 重训 → 逐用户查询。
func Run(ctx context.Context, ratings []core.Rating, items []core.ItemMeta, opts Options) (*Result, error) {
	k := opts.K
	if k < 1 {
		k = 10
	}

	train, test := SplitLeaveOneOut(ratings)

	model := &recommend.Recommender{Aggregate: opts.Aggregate, Workers: opts.Workers}
	if err := model.Fit(ctx, train, items); err != nil {
		return nil, err
	}

	userSet := make(map[string]struct{})
	itemSet := make(map[string]struct{})
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		itemSet[r.ItemID] = struct{}{}
	}

	res := &Result{
		K:        k,
		NumUsers: len(userSet),
		NumItems: len(itemSet),
		NumTest:  len(test),
	}
	if len(test) == 0 {
		return res, nil
	}

	rr := make([]float64, len(test))

	var mu sync.Mutex
	hits := 0

	eg, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	} else {
		eg.SetLimit(1)
	}

	for i, row := range test {
		i, row := i, row
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			recs, err := model.Recommend(row.UserID, k)
			if err != nil {
				return err
			}
			for rank, rec := range recs {
				if rec.ItemID == row.ItemID {
					rr[i] = 1.0 / float64(rank+1)
					mu.Lock()
					hits++
					mu.Unlock()
					break
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var sum float64
	for _, v := range rr {
		sum += v
	}
	res.HitRate = float64(hits) / float64(len(test))
	res.MRR = sum / float64(len(test))
	return res, nil
}
