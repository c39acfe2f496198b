package insight

import "docpipe/internal/models"

// ContainsPII 判断候选区间 [start, start+length) 是否与同一文本池的
// 任一 PII 区间重叠。三个半开比较刻意对称：两个方向的部分重叠和
// 完全包含都算重叠，而恰好首尾相接的区间不算。
func ContainsPII(spans []models.PIISpan, start, length int) bool {
	end := start + length
	for _, s := range spans {
		if (s.Begin <= start && start < s.End) ||
			(s.Begin < end && end <= s.End) ||
			(start <= s.Begin && s.Begin < end) {
			return true
		}
	}
	return false
}
