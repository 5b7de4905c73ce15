package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/ibcf/matrix"
)

// TrainConfig 是训练任务的配置（YAML）。
//
// 示例：
//
//	ratings: data/ratings.csv
//	items: data/items.csv
//	out: models/recommendation/latest
//	model_tag: IBCF-cosine-user-mean
//	aggregate: last
//	workers: 4
type TrainConfig struct {
	// Ratings 评分 CSV 路径
	Ratings string `yaml:"ratings"`
	// Items 物品元数据 CSV 路径（可选）
	Items string `yaml:"items"`
	// Sample demo 样本 JSON 路径（优先于 Ratings）
	Sample string `yaml:"sample"`
	// Out 模型 bundle 输出目录
	Out string `yaml:"out"`
	// ModelTag manifest 中的 model_type 标识
	ModelTag string `yaml:"model_tag"`
	// Aggregate 重复评分聚合策略：last / mean / reject
	Aggregate matrix.AggregatePolicy `yaml:"aggregate"`
	// Workers 相似度计算并发度
	Workers int `yaml:"workers"`
}

// DefaultModelTag 是缺省的模型标识。
const DefaultModelTag = "IBCF-cosine-user-mean"

// LoadTrainConfig 从 YAML 文件加载训练配置并补齐缺省值。
func LoadTrainConfig(path string) (*TrainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg TrainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults 补齐缺省值。
func (c *TrainConfig) ApplyDefaults() {
	if c.Out == "" {
		c.Out = "models/recommendation/latest"
	}
	if c.ModelTag == "" {
		c.ModelTag = DefaultModelTag
	}
	if c.Aggregate == "" {
		c.Aggregate = matrix.AggregateLast
	}
}
