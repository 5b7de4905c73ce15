package matrix

// Normalized 是按用户均值中心化后的评分矩阵。
//
// 不变式：未评分 cell 恒为精确的 0，与均值的符号/大小无关；
// 是否评分以 Rated 掩码为准，而不是数值是否为零——
// 中心化后恰好为 0 的已评分 cell 依然参与打分与排除逻辑。
type Normalized struct {
	Values *Dense // users × items，已评分 cell 为 rating - user_mean
	Rated  *Mask  // 与 RatingMatrix.Rated 相同的掩码

	// UserMean 每用户均值，只在该用户的已评分 cell 上计算；
	// 无评分的用户按约定均值为 0（分母下限 1）
	UserMean []float64
}

// Normalize 计算用户均值并做掩码中心化。无失败路径。
func Normalize(rm *RatingMatrix) *Normalized {
	nUsers := rm.R.Rows
	nItems := rm.R.Cols

	nm := &Normalized{
		Values:   NewDense(nUsers, nItems),
		Rated:    rm.Rated,
		UserMean: make([]float64, nUsers),
	}

	for u := 0; u < nUsers; u++ {
		row := rm.R.Row(u)
		mask := rm.Rated.Row(u)

		sum := 0.0
		count := 0
		for j, rated := range mask {
			if rated {
				sum += row[j]
				count++
			}
		}
		denom := count
		if denom < 1 {
			denom = 1
		}
		mean := sum / float64(denom)
		nm.UserMean[u] = mean

		out := nm.Values.Row(u)
		for j, rated := range mask {
			if rated {
				out[j] = row[j] - mean
			}
		}
	}

	return nm
}
