package insight

import "strings"

// OffsetReconstructor 为检测器返回的标注恢复近似字符偏移。
// 检测器返回的偏移（如果有）不能保证与文本池对齐，所以只能
// 按返回顺序在池中做单调向前的顺序搜索：游标之后第一次出现
// 标注文本的位置即为偏移，随后游标前移越过该段文本。找不到时
// （例如检测器改写了空白或大小写）退回当前游标位置且不前移，
// 作为尽力而为的近似而不是报错。
type OffsetReconstructor struct {
	blob   string
	cursor int
}

// NewOffsetReconstructor 针对一个文本池创建重建器，游标从 0 开始。
func NewOffsetReconstructor(blob string) *OffsetReconstructor {
	return &OffsetReconstructor{blob: blob}
}

// Locate 返回 text 的近似起始偏移。相同子串的重复出现按
// 从左到右的顺序分配，正常命中时每个池位置至多被消费一次。
func (r *OffsetReconstructor) Locate(text string) int {
	if r.cursor < len(r.blob) {
		if p := strings.Index(r.blob[r.cursor:], text); p >= 0 {
			begin := r.cursor + p
			r.cursor = begin + len(text)
			return begin
		}
	}
	return r.cursor
}
