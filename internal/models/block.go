package models

// BlockKind 表示文档分析结果中一个块的类型。
type BlockKind string

const (
	BlockKindLine        BlockKind = "LINE"          // 一行文本
	BlockKindWord        BlockKind = "WORD"          // 单个词
	BlockKindTable       BlockKind = "TABLE"         // 表格
	BlockKindCell        BlockKind = "CELL"          // 表格单元格
	BlockKindKeyValueSet BlockKind = "KEY_VALUE_SET" // 表单键值节点
)

// RelationKind 表示块之间关系边的类型。
type RelationKind string

const (
	RelationChild RelationKind = "CHILD" // 父块指向任意数量的子块
	RelationValue RelationKind = "VALUE" // KEY 块指向唯一的 VALUE 块
)

// EntityRole 表示 KEY_VALUE_SET 块在表单中扮演的角色。
type EntityRole string

const (
	EntityRoleKey   EntityRole = "KEY"
	EntityRoleValue EntityRole = "VALUE"
)

// Relationship 是一条从块出发的关系边。
// CHILD 关系可以有任意数量的目标；VALUE 关系按上游分析器的约定只有一个目标。
type Relationship struct {
	Kind RelationKind `json:"kind"`
	IDs  []string     `json:"ids"`
}

// Block 是文档分析结果中的一个节点。
// Confidence、RowIndex、ColumnIndex 使用指针表示"缺失"：
// 置信度缺失意味着该块始终保留，单元格索引缺失时按 0 处理。
type Block struct {
	ID            string         `json:"id"`
	Kind          BlockKind      `json:"kind"`
	Text          string         `json:"text,omitempty"`
	Confidence    *float64       `json:"confidence,omitempty"`
	RowIndex      *int           `json:"row_index,omitempty"`
	ColumnIndex   *int           `json:"column_index,omitempty"`
	EntityRoles   []EntityRole   `json:"entity_roles,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// HasRole 判断块是否带有指定的表单角色。
func (b *Block) HasRole(role EntityRole) bool {
	for _, r := range b.EntityRoles {
		if r == role {
			return true
		}
	}
	return false
}

// JobStatus 表示上游文档分析作业的状态。
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// AnalysisResult 是一次作业状态查询的结果。
// Blocks 仅在 Status 为 SUCCEEDED 时填充，FailureReason 仅在 FAILED 时填充。
type AnalysisResult struct {
	Status        JobStatus `json:"status"`
	Blocks        []Block   `json:"blocks,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

// DocumentLocation 指向对象存储中的一份待分析文档。
type DocumentLocation struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// AnalysisRequest 是一次完整的解析加洞察请求。
type AnalysisRequest struct {
	RequestID string           `json:"request_id"`
	UserID    string           `json:"user_id,omitempty"`
	Location  DocumentLocation `json:"location"`
}
