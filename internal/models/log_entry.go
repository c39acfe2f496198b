package models

// LogEntry 定义了结构化日志的统一数据格式，方便日志采集与分析。
type LogEntry struct {
	// ServiceName 是产生这条日志的服务或组件名称，例如 "idp_worker"。
	ServiceName string `json:"service_name"`

	// RequestID 把一次文档处理请求跨组件的日志串联起来。
	RequestID string `json:"request_id,omitempty"`

	// Error 包含详细的错误信息，通常在 Error 级别以上填充。
	Error *ErrorInfo `json:"error,omitempty"`

	// Payload 存放其他需要记录的业务数据。
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ErrorInfo 存储了关于错误的结构化信息。
type ErrorInfo struct {
	Message string `json:"message"`
	// Kind 是错误的分类，例如 "validation", "upstream_timeout"。
	Kind string `json:"kind,omitempty"`
}
