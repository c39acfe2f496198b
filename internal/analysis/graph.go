package analysis

import "docpipe/internal/models"

// Graph 把过滤后的扁平块列表组织成按 id 索引的节点表。
// 关系边在查询时才解析，指向被过滤掉的 id 的边会被静默忽略，
// 这是正常路径而不是错误：一个块完全可以引用一个因置信度
// 不足而被移除的块。
type Graph struct {
	byID map[string]*models.Block
}

// NewGraph 基于过滤后的块列表构建节点表。
func NewGraph(blocks []models.Block) *Graph {
	g := &Graph{byID: make(map[string]*models.Block, len(blocks))}
	for i := range blocks {
		g.byID[blocks[i].ID] = &blocks[i]
	}
	return g
}

// ChildrenOf 返回块的第一条 CHILD 关系指向的全部子块。
// 上游保证一个块至多有一条 CHILD 关系；若出现多条，以第一条为准。
// 没有 CHILD 关系或目标全部缺失时返回空切片。
func (g *Graph) ChildrenOf(b *models.Block) []*models.Block {
	for _, rel := range b.Relationships {
		if rel.Kind != models.RelationChild {
			continue
		}
		children := make([]*models.Block, 0, len(rel.IDs))
		for _, id := range rel.IDs {
			if child, ok := g.byID[id]; ok {
				children = append(children, child)
			}
		}
		return children
	}
	return nil
}

// ValueTargetOf 返回 KEY 块的 VALUE 关系指向的块。
// VALUE 关系按上游约定只有一个目标；关系缺失或目标被过滤掉时返回 nil。
func (g *Graph) ValueTargetOf(b *models.Block) *models.Block {
	for _, rel := range b.Relationships {
		if rel.Kind != models.RelationValue {
			continue
		}
		for _, id := range rel.IDs {
			if target, ok := g.byID[id]; ok {
				return target
			}
		}
		return nil
	}
	return nil
}
