// Package matrix 提供评分矩阵的构建与归一化。
//
// 表示选择：稠密矩阵 + 显式评分掩码（Mask）。
// 0 不再身兼"未评分"与"中心化后恰好为零"两种含义——是否评分由 Mask 决定，
// 数值矩阵只承载数值。
package matrix

// Dense 是行主序的稠密 float64 矩阵。
// 训练期一次性构建，训练完成后视为不可变。
type Dense struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"` // len == Rows*Cols，行主序
}

func NewDense(rows, cols int) *Dense {
	return &Dense{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

func (m *Dense) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

func (m *Dense) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row 返回第 i 行的切片视图（与底层数组共享存储，调用方不应修改）。
func (m *Dense) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Transpose 返回转置后的新矩阵。
// 相似度计算按物品列做点积，先转置一次换取顺序内存访问。
func (m *Dense) Transpose() *Dense {
	t := NewDense(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		for j, v := range row {
			t.Data[j*t.Cols+i] = v
		}
	}
	return t
}

// Mask 是与 Dense 同形的布尔掩码，标记哪些 cell 存在评分。
type Mask struct {
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
	Data []bool `json:"data"` // len == Rows*Cols，行主序
}

func NewMask(rows, cols int) *Mask {
	return &Mask{
		Rows: rows,
		Cols: cols,
		Data: make([]bool, rows*cols),
	}
}

func (m *Mask) At(i, j int) bool {
	return m.Data[i*m.Cols+j]
}

func (m *Mask) Set(i, j int, v bool) {
	m.Data[i*m.Cols+j] = v
}

// Row 返回第 i 行的切片视图。
func (m *Mask) Row(i int) []bool {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// CountRow 返回第 i 行为 true 的 cell 数。
func (m *Mask) CountRow(i int) int {
	n := 0
	for _, v := range m.Row(i) {
		if v {
			n++
		}
	}
	return n
}
