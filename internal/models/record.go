package models

import "time"

// RecordStatus 表示一条文档记录的处理结果。
type RecordStatus string

const (
	RecordStatusSuccess RecordStatus = "success"
	RecordStatusFailed  RecordStatus = "failed"
)

// DocumentRecord 是流水线对外的最终结果：解析出的结构加上洞察。
// 下游适配器负责把它映射成持久化形态，核心只负责组装。
type DocumentRecord struct {
	ID          string       `json:"id" bson:"_id"`
	RequestID   string       `json:"request_id" bson:"request_id"`
	JobID       string       `json:"job_id" bson:"job_id"`
	Status      RecordStatus `json:"status" bson:"status"`
	Lines       []string     `json:"lines" bson:"lines"`
	Tables      []Table      `json:"tables" bson:"tables"`
	FormFields  []FormField  `json:"form_fields" bson:"form_fields"`
	Enrichment  *Enrichment  `json:"enrichment,omitempty" bson:"enrichment,omitempty"`
	Error       string       `json:"error,omitempty" bson:"error,omitempty"`
	SubmittedAt time.Time    `json:"submitted_at" bson:"submitted_at"`
	CompletedAt time.Time    `json:"completed_at" bson:"completed_at"`
}
