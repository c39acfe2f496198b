package models

import "strings"

// Table 是解析出的表格。行按行号升序排列，每行只包含该行实际
// 存在的列（按列号升序），因此不同行的长度可以不同。
type Table struct {
	Rows [][]string `json:"rows" bson:"rows"`
}

// Text 把表格内容按行优先顺序用空格拼成一个文本池，供洞察分析使用。
func (t Table) Text() string {
	parts := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		parts = append(parts, strings.Join(row, " "))
	}
	return strings.Join(parts, " ")
}

// FormField 是解析出的一对表单键值。键和值在裁剪空白后都非空。
type FormField struct {
	Key   string `json:"key" bson:"key"`
	Value string `json:"value" bson:"value"`
}

// ExtractedDocument 是结构解析的完整输出：文本行、表格和表单字段。
// 它只在单个请求内部存在，解析完成后不再变化。
type ExtractedDocument struct {
	Lines  []string    `json:"lines" bson:"lines"`
	Tables []Table     `json:"tables" bson:"tables"`
	Fields []FormField `json:"form_fields" bson:"form_fields"`
}

// DocumentText 把所有文本行用空格拼成文档文本池。
func (d *ExtractedDocument) DocumentText() string {
	return strings.Join(d.Lines, " ")
}

// FormText 把所有表单字段按 "键: 值" 的形式用空格拼成表单文本池。
func (d *ExtractedDocument) FormText() string {
	parts := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		parts = append(parts, f.Key+": "+f.Value)
	}
	return strings.Join(parts, " ")
}
