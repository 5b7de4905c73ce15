// Package feast 提供 Feature Store（Feast）的领域客户端。
//
// 领域层只定义接口与请求/响应模型；gRPC 实现见 grpc_client.go。
// 在本工具包中，Feast 的角色是训练数据的一种来源：
// dataset.FeastSource 按用户从在线特征中拉取交互历史。
package feast

import "context"

// Client 是 Feast Feature Store 的客户端接口。
type Client interface {
	// GetOnlineFeatures 获取在线特征
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["user_stats:recent_ratings"]
	//   - EntityRows: 实体行，例如 [{"user_id": "u1"}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 是在线特征请求。
type GetOnlineFeaturesRequest struct {
	// Project 项目名称；空值使用客户端默认项目
	Project string

	// Features 特征名称列表
	Features []string

	// EntityRows 实体行，每行一个实体键值对集合
	EntityRows []map[string]any
}

// FeatureVector 是单个实体行的特征向量。
type FeatureVector struct {
	// Values key 为特征名称，value 为特征值
	Values map[string]any

	// EntityRow 对应的请求实体行
	EntityRow map[string]any
}

// GetOnlineFeaturesResponse 是在线特征响应，与请求的实体行一一对应。
type GetOnlineFeaturesResponse struct {
	FeatureVectors []FeatureVector
}
