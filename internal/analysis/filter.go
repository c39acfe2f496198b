package analysis

import "docpipe/internal/models"

// FilterByConfidence 返回置信度达标的块子集：置信度缺失或不低于
// threshold 的块被保留。纯函数，保持原有顺序，对已过滤的输入幂等。
func FilterByConfidence(blocks []models.Block, threshold float64) []models.Block {
	kept := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Confidence == nil || *b.Confidence >= threshold {
			kept = append(kept, b)
		}
	}
	return kept
}
