package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 模型、数据集、存储各模块的领域错误统一使用此类型
//   - 提供错误代码（Code）和消息（Message），便于调用方分支处理
//   - 通过 IsXXX 谓词函数检查错误种类，不暴露内部结构
//
// 错误种类（对应 Code）：
//   - NOT_TRAINED：模型未训练/未加载时发起打分
//   - ARTIFACT_NOT_FOUND：模型 bundle 或其中的必要文件缺失
//   - ARTIFACT_CORRUPT：模型 artifact 存在但无法解析
//   - INVALID_INPUT：训练输入缺字段/非法值（ingestion 层抛出，不重试）
//   - NOT_FOUND：存储中 key 不存在
type DomainError struct {
	Code    string // 错误代码（如 "NOT_TRAINED", "ARTIFACT_CORRUPT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "model", "dataset", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotTrained       = "NOT_TRAINED"        // 模型未训练/未加载
	ErrorCodeArtifactNotFound = "ARTIFACT_NOT_FOUND" // 模型文件缺失
	ErrorCodeArtifactCorrupt  = "ARTIFACT_CORRUPT"   // 模型文件损坏
	ErrorCodeInvalidInput     = "INVALID_INPUT"      // 输入无效
	ErrorCodeNotFound         = "NOT_FOUND"          // 资源不存在
	ErrorCodeNotSupported     = "NOT_SUPPORTED"      // 操作不支持
)

// 模块名称常量
const (
	ModuleModel   = "model"   // 模型（训练/打分/持久化）
	ModuleDataset = "dataset" // 数据集 ingestion
	ModuleStore   = "store"   // 存储模块
	ModuleFeature = "feature" // 特征存储（feast）
)

// IsNotTrained 检查错误是否为 NOT_TRAINED。
func IsNotTrained(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotTrained
	}
	return false
}

// IsArtifactNotFound 检查错误是否为 ARTIFACT_NOT_FOUND。
func IsArtifactNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeArtifactNotFound
	}
	return false
}

// IsArtifactCorrupt 检查错误是否为 ARTIFACT_CORRUPT。
func IsArtifactCorrupt(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeArtifactCorrupt
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsStoreNotFound 检查错误是否为存储层的 key 不存在。
func IsStoreNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
	}
	return false
}
