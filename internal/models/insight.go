package models

// PIISpan 是一个半开区间 [Begin, End)，标记某个文本池中一段
// 个人身份信息。区间只在它所属的文本池坐标系内有意义。
type PIISpan struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Annotation 是洞察服务检测出的一个实体或关键短语。
// BeginOffset 是按顺序搜索恢复出来的近似偏移，并非检测器的权威结果；
// Redacted 表示该标注与同一文本池中的某个 PII 区间重叠。
type Annotation struct {
	Text        string  `json:"text" bson:"text"`
	Score       float64 `json:"score" bson:"score"`
	Category    string  `json:"category,omitempty" bson:"category,omitempty"`
	BeginOffset int     `json:"begin_offset" bson:"begin_offset"`
	Redacted    bool    `json:"redacted" bson:"redacted"`
}

// Sentiment 是文档文本池的情感检测结果。
type Sentiment struct {
	Label  string             `json:"label" bson:"label"`
	Scores map[string]float64 `json:"scores" bson:"scores"`
}

// EntityGroups 按类别组织标注，组内顺序与检测器返回顺序一致。
type EntityGroups map[string][]Annotation

// 文本池的固定命名，与洞察结果中的键一一对应。
const (
	PoolDocument    = "full_document"
	PoolForms       = "forms"
	PoolTablePrefix = "table_" // 后接表格序号，如 table_0
)

// Enrichment 汇总一次请求的全部洞察结果。
// Entities 以文本池名称为键；被跳过的空池不会出现。
type Enrichment struct {
	Sentiment  *Sentiment              `json:"sentiment,omitempty" bson:"sentiment,omitempty"`
	KeyPhrases []Annotation            `json:"key_phrases,omitempty" bson:"key_phrases,omitempty"`
	Entities   map[string]EntityGroups `json:"entities" bson:"entities"`
}
