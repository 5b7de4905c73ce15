// Package modelstore 负责训练产物的打包持久化与加载。
//
// Bundle 目录布局（save/load 之间保持稳定）：
//   - model.json     manifest：有序 user_ids/item_ids、items_title、训练元信息
//   - sim.json       items × items 相似度矩阵
//   - r_norm.json    users × items 归一化评分矩阵（含评分掩码）
//   - user_mean.json users × 1 用户均值向量
//
// 发布是原子的：所有文件先写入同级临时目录，全部成功后整体 rename 到位，
// 中途崩溃不会留下半写的 bundle。
package modelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/matrix"
	"github.com/rushteam/ibcf/recommend"
)

// bundle 内各文件名
const (
	manifestFile = "model.json"
	simFile      = "sim.json"
	rnormFile    = "r_norm.json"
	userMeanFile = "user_mean.json"
)

// Meta 是 manifest 中的训练元信息。
type Meta struct {
	ModelType  string `json:"model_type"`
	TrainedAt  int64  `json:"trained_at"` // epoch 秒
	NumUsers   int    `json:"num_users"`
	NumItems   int    `json:"num_items"`
	NumRatings int    `json:"num_ratings"`
}

// manifest 是 model.json 的结构。index 不单独持久化：
// load 时按 ID 在列表中的位置重建（index = position）。
type manifest struct {
	UserIDs    []string          `json:"user_ids"`
	ItemIDs    []string          `json:"item_ids"`
	ItemsTitle map[string]string `json:"items_title"`
	Meta       *Meta             `json:"meta"`
}

// denseArtifact 是数值矩阵的持久化形式。
// Rated 仅 r_norm.json 使用：掩码是归一化矩阵语义的一部分
//（中心化后恰好为 0 的已评分 cell 与未评分 cell 必须可区分），随矩阵一起落盘。
type denseArtifact struct {
	Rows  int       `json:"rows"`
	Cols  int       `json:"cols"`
	Data  []float64 `json:"data"`
	Rated []bool    `json:"rated,omitempty"`
}

type vectorArtifact struct {
	Data []float64 `json:"data"`
}

// Save 将模型整体写入 dir。
// 先写临时目录再 rename 发布；dir 已存在时旧 bundle 被整体替换。
func Save(dir string, rec *recommend.Recommender, meta *Meta) error {
	if !rec.Ready() {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotTrained,
			"modelstore: cannot save an untrained model")
	}

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("modelstore: mkdir %s: %w", parent, err)
	}

	tmp, err := os.MkdirTemp(parent, ".tmp-bundle-*")
	if err != nil {
		return fmt.Errorf("modelstore: mkdtemp: %w", err)
	}
	defer os.RemoveAll(tmp)

	m := &manifest{
		UserIDs:    rec.UserIDs,
		ItemIDs:    rec.ItemIDs,
		ItemsTitle: rec.Titles,
		Meta:       meta,
	}
	if err := writeJSON(filepath.Join(tmp, manifestFile), m); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, simFile), &denseArtifact{
		Rows: rec.Sim.Rows, Cols: rec.Sim.Cols, Data: rec.Sim.Data,
	}); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, rnormFile), &denseArtifact{
		Rows: rec.RNorm.Rows, Cols: rec.RNorm.Cols, Data: rec.RNorm.Data,
		Rated: rec.Rated.Data,
	}); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, userMeanFile), &vectorArtifact{
		Data: rec.UserMean,
	}); err != nil {
		return err
	}

	// 全部 artifact 就绪后才发布
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("modelstore: remove old bundle %s: %w", dir, err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("modelstore: publish bundle %s: %w", dir, err)
	}
	return nil
}

// Load 从 dir 重建模型与元信息。
//
// 失败路径（均为结构化错误）：
//   - 文件缺失 → ARTIFACT_NOT_FOUND
//   - 文件存在但无法解析/维度不一致 → ARTIFACT_CORRUPT
//
// 往返不变式：load(save(model)) 对任意 (user_id, k) 产出逐位一致的 recommend 结果。
func Load(dir string) (*recommend.Recommender, *Meta, error) {
	var m manifest
	if err := readJSON(filepath.Join(dir, manifestFile), &m); err != nil {
		return nil, nil, err
	}

	var sim, rnorm denseArtifact
	if err := readJSON(filepath.Join(dir, simFile), &sim); err != nil {
		return nil, nil, err
	}
	if err := readJSON(filepath.Join(dir, rnormFile), &rnorm); err != nil {
		return nil, nil, err
	}
	var userMean vectorArtifact
	if err := readJSON(filepath.Join(dir, userMeanFile), &userMean); err != nil {
		return nil, nil, err
	}

	nUsers := len(m.UserIDs)
	nItems := len(m.ItemIDs)
	if err := checkDims(simFile, &sim, nItems, nItems); err != nil {
		return nil, nil, err
	}
	if err := checkDims(rnormFile, &rnorm, nUsers, nItems); err != nil {
		return nil, nil, err
	}
	if len(rnorm.Rated) != nUsers*nItems {
		return nil, nil, corrupt(rnormFile, "rated mask size mismatch")
	}
	if len(userMean.Data) != nUsers {
		return nil, nil, corrupt(userMeanFile, "vector length mismatch")
	}

	rec := &recommend.Recommender{
		UserIDs:  m.UserIDs,
		ItemIDs:  m.ItemIDs,
		Titles:   m.ItemsTitle,
		Sim:      &matrix.Dense{Rows: sim.Rows, Cols: sim.Cols, Data: sim.Data},
		RNorm:    &matrix.Dense{Rows: rnorm.Rows, Cols: rnorm.Cols, Data: rnorm.Data},
		Rated:    &matrix.Mask{Rows: rnorm.Rows, Cols: rnorm.Cols, Data: rnorm.Rated},
		UserMean: userMean.Data,
	}
	if rec.Titles == nil {
		rec.Titles = make(map[string]string)
	}
	rec.Reindex()
	return rec, m.Meta, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("modelstore: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("modelstore: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.NewDomainError(core.ModuleModel, core.ErrorCodeArtifactNotFound,
				fmt.Sprintf("modelstore: artifact %s not found", filepath.Base(path)))
		}
		return fmt.Errorf("modelstore: read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return corrupt(filepath.Base(path), err.Error())
	}
	return nil
}

func checkDims(name string, a *denseArtifact, rows, cols int) error {
	if a.Rows != rows || a.Cols != cols || len(a.Data) != rows*cols {
		return corrupt(name, fmt.Sprintf("dimension mismatch: got %dx%d (len %d), want %dx%d",
			a.Rows, a.Cols, len(a.Data), rows, cols))
	}
	return nil
}

func corrupt(name, detail string) error {
	return core.NewDomainError(core.ModuleModel, core.ErrorCodeArtifactCorrupt,
		fmt.Sprintf("modelstore: artifact %s corrupt: %s", name, detail))
}
