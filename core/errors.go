package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 四种可恢复的领域错误（输入非法、方法未知、窗口为空、无可推荐项）
//     都通过 Code 区分，调用方按 IsXXX 分支处理，进程永远不会因此退出
//   - 核心不重试（没有瞬态资源可重试）、不打日志，错误只向上传递
type DomainError struct {
	Code    string // 错误代码，如 "EMPTY_DATASET"
	Message string // 错误消息
	Module  string // 模块名称，如 "recall"
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

// GetDomainError 取出 DomainError；不是领域错误时返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DomainError); ok {
		return de
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeInvalidInput      = "INVALID_INPUT"      // 越界评分 / 负 ID 等脏数据进入核心
	ErrorCodeInvalidMethod     = "INVALID_METHOD"     // 未知的归一化方法
	ErrorCodeEmptyDataset      = "EMPTY_DATASET"      // 必要过滤后没有事件存留
	ErrorCodeNoRecommendations = "NO_RECOMMENDATIONS" // 过滤后候选集为空
	ErrorCodeNotFound          = "NOT_FOUND"          // 存储 key 不存在
	ErrorCodeNotSupported      = "NOT_SUPPORTED"      // 存储后端不支持该操作
)

// 模块名称常量
const (
	ModuleData   = "data"
	ModuleNorm   = "norm"
	ModuleRecall = "recall"
	ModuleEval   = "eval"
	ModuleStore  = "store"
)

// 预定义错误值：recall 链路的两个结构性失败。
// 冷启动不是错误（见 recall 包的 fallback 路径），这里只覆盖真正无法产出的情形。
var (
	// ErrEmptyDataset 表示时间窗口过滤后没有任何事件。
	ErrEmptyDataset = NewDomainError(ModuleRecall, ErrorCodeEmptyDataset, "recall: no events left after filtering")

	// ErrNoRecommendations 表示没有任何候选通过相似度阈值。
	ErrNoRecommendations = NewDomainError(ModuleRecall, ErrorCodeNoRecommendations, "recall: no scorable candidates")
)

func hasCode(err error, code string) bool {
	de := GetDomainError(err)
	return de != nil && de.Code == code
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsInvalidMethod 检查错误是否为 INVALID_METHOD。
func IsInvalidMethod(err error) bool { return hasCode(err, ErrorCodeInvalidMethod) }

// IsEmptyDataset 检查错误是否为 EMPTY_DATASET。
func IsEmptyDataset(err error) bool { return hasCode(err, ErrorCodeEmptyDataset) }

// IsNoRecommendations 检查错误是否为 NO_RECOMMENDATIONS。
func IsNoRecommendations(err error) bool { return hasCode(err, ErrorCodeNoRecommendations) }
