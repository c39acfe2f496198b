package analysis

import (
	"fmt"
	"sort"
	"strings"

	"docpipe/internal/models"
	"docpipe/pkg/logger"
)

// Resolver 对过滤后的块列表做一次遍历，产出文本行、表格和表单字段。
type Resolver struct {
	log *logger.Logger
}

// NewResolver 创建一个 Resolver。log 为 nil 时使用默认日志器。
func NewResolver(log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.New("resolver", "")
	}
	return &Resolver{log: log}
}

// Resolve 按块类型分支处理每个块。单个畸形块不会中断整篇文档的
// 解析：它的贡献被跳过并记录日志，遍历继续。
func (r *Resolver) Resolve(blocks []models.Block) *models.ExtractedDocument {
	g := NewGraph(blocks)
	doc := &models.ExtractedDocument{
		Lines:  []string{},
		Tables: []models.Table{},
		Fields: []models.FormField{},
	}

	for i := range blocks {
		b := &blocks[i]
		if err := r.resolveBlock(g, b, doc); err != nil {
			r.log.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
				"block_id":   b.ID,
				"block_kind": string(b.Kind),
			}).Warn("Skipping block that failed to resolve")
		}
	}
	return doc
}

// resolveBlock 处理单个块。recover 兜底保证任何意外的 panic 都只
// 作用于当前块。
func (r *Resolver) resolveBlock(g *Graph, b *models.Block, doc *models.ExtractedDocument) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("resolve block %s: %v", b.ID, p)
		}
	}()

	switch b.Kind {
	case models.BlockKindLine:
		if b.Text != "" {
			doc.Lines = append(doc.Lines, b.Text)
		}
	case models.BlockKindTable:
		if table, ok := r.resolveTable(g, b); ok {
			doc.Tables = append(doc.Tables, table)
		}
	case models.BlockKindKeyValueSet:
		if field, ok := r.resolveFormField(g, b); ok {
			upsertField(doc, field)
		}
	}
	// 其余块类型（WORD、CELL 等）由所属父块消费，这里不直接处理。
	return nil
}

// resolveTable 收集表格的单元格文本并压成稀疏网格。
// 行按行号升序输出，每行只包含实际存在的列（按列号升序），
// 坐标重复时后写的单元格覆盖先写的。没有任何非空单元格的表格被丢弃。
func (r *Resolver) resolveTable(g *Graph, b *models.Block) (models.Table, bool) {
	grid := make(map[int]map[int]string)
	for _, cell := range g.ChildrenOf(b) {
		if cell.Kind != models.BlockKindCell {
			continue
		}
		text := joinChildWords(g, cell)
		if text == "" {
			continue
		}
		// 畸形单元格缺失行列号时按 0 处理，可能与其他单元格在 (0,0) 相撞。
		row, col := 0, 0
		if cell.RowIndex != nil {
			row = *cell.RowIndex
		}
		if cell.ColumnIndex != nil {
			col = *cell.ColumnIndex
		}
		if grid[row] == nil {
			grid[row] = make(map[int]string)
		}
		grid[row][col] = text
	}

	if len(grid) == 0 {
		return models.Table{}, false
	}

	rowIdx := make([]int, 0, len(grid))
	for row := range grid {
		rowIdx = append(rowIdx, row)
	}
	sort.Ints(rowIdx)

	table := models.Table{Rows: make([][]string, 0, len(rowIdx))}
	for _, row := range rowIdx {
		colIdx := make([]int, 0, len(grid[row]))
		for col := range grid[row] {
			colIdx = append(colIdx, col)
		}
		sort.Ints(colIdx)
		cells := make([]string, 0, len(colIdx))
		for _, col := range colIdx {
			cells = append(cells, grid[row][col])
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, true
}

// resolveFormField 处理带 KEY 角色的键值节点：键文本和经 VALUE 边
// 找到的值文本都非空时才产出字段。
func (r *Resolver) resolveFormField(g *Graph, b *models.Block) (models.FormField, bool) {
	if !b.HasRole(models.EntityRoleKey) {
		return models.FormField{}, false
	}
	key := joinChildWords(g, b)
	if key == "" {
		return models.FormField{}, false
	}
	valueBlock := g.ValueTargetOf(b)
	if valueBlock == nil {
		return models.FormField{}, false
	}
	value := joinChildWords(g, valueBlock)
	if value == "" {
		return models.FormField{}, false
	}
	return models.FormField{Key: key, Value: value}, true
}

// upsertField 追加表单字段；键已存在时只覆盖值，保留首次出现的位置。
func upsertField(doc *models.ExtractedDocument, field models.FormField) {
	for i := range doc.Fields {
		if doc.Fields[i].Key == field.Key {
			doc.Fields[i].Value = field.Value
			return
		}
	}
	doc.Fields = append(doc.Fields, field)
}

// joinChildWords 把块的 WORD 子块文本用单个空格拼接并裁剪首尾空白。
func joinChildWords(g *Graph, b *models.Block) string {
	var words []string
	for _, child := range g.ChildrenOf(b) {
		if child.Kind == models.BlockKindWord {
			words = append(words, child.Text)
		}
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
