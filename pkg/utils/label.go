package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由业务自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank / rule ...
}

// True 构造一个布尔语义的 Label（例如 fallback 标记）。
func True(source string) Label {
	return Label{Value: "true", Source: source}
}

// IsTrue 判断 Label 是否为布尔真。
// 合并过的 Label 只要含有 "true" 片段即视为真。
func (l Label) IsTrue() bool {
	if l.Value == "true" {
		return true
	}
	for i := 0; i+4 <= len(l.Value); i++ {
		if l.Value[i:i+4] == "true" {
			return true
		}
	}
	return false
}

// MergeLabel 用于合并同名 Label，遵循"保留历史、可追踪"的默认策略。
//   - Value: 以 '|' 累积
//   - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
