// Package similarity 计算物品-物品余弦相似度矩阵。
package similarity

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/ibcf/matrix"
)

// Engine 对归一化评分矩阵的物品列两两计算余弦相似度。
//
// 这是训练中最贵的一步：O(items² · users) 时间、O(items²) 空间，
// 每次训练整体重算一次，不支持增量更新——新评分只能全量重训。
//
// 物品对之间相互独立（可交换、无共享可变状态），按行并发不改变结果。
type Engine struct {
	// Workers 并发度，<=0 时取 GOMAXPROCS
	Workers int
}

// Compute 返回 items × items 的对称相似度矩阵。
//
// 不变式：
//   - sim[i][j] == sim[j][i] 精确相等（只算上三角后镜像写入）
//   - 对角线恒为 0（物品不是自己的邻居）
//   - 任一列模长为 0 时该对相似度定义为 0，避免除零
func (e *Engine) Compute(ctx context.Context, nm *matrix.Normalized) (*matrix.Dense, error) {
	// 转置为 items × users，把列点积变成行点积
	cols := nm.Values.Transpose()
	nItems := cols.Rows

	// 每列模长只算一次
	norms := make([]float64, nItems)
	for i := 0; i < nItems; i++ {
		norms[i] = math.Sqrt(dot(cols.Row(i), cols.Row(i)))
	}

	sim := matrix.NewDense(nItems, nItems)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := 0; i < nItems; i++ {
		i := i
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			vi := cols.Row(i)
			for j := i + 1; j < nItems; j++ {
				if norms[i] == 0 || norms[j] == 0 {
					continue
				}
				s := dot(vi, cols.Row(j)) / (norms[i] * norms[j])
				// i<j 与 j>i 的写入位置不相交，行间无竞争
				sim.Set(i, j, s)
				sim.Set(j, i, s)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return sim, nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
