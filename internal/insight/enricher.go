package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"docpipe/internal/config"
	"docpipe/internal/models"
	"docpipe/internal/provider"
	"docpipe/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Enricher 对解析出的文档做洞察富化：逐个文本池调用外部洞察服务，
// 汇总情感、关键短语和分类实体，并为每条标注打上 PII 重叠标记。
type Enricher struct {
	provider      provider.InsightProvider
	maxTextBytes  int
	topKeyPhrases int
	concurrency   int
	log           *logger.Logger
}

// NewEnricher 创建一个 Enricher。log 为 nil 时使用默认日志器。
func NewEnricher(p provider.InsightProvider, cfg config.InsightConfig, log *logger.Logger) *Enricher {
	if log == nil {
		log = logger.New("enricher", "")
	}
	return &Enricher{
		provider:      p,
		maxTextBytes:  cfg.MaxTextBytes,
		topKeyPhrases: cfg.TopKeyPhrases,
		concurrency:   cfg.PoolConcurrency,
		log:           log,
	}
}

// pool 是提交给洞察服务的一个文本池。
type pool struct {
	name       string
	text       string
	isDocument bool
}

// poolResult 是单个文本池的富化结果。
type poolResult struct {
	sentiment *models.Sentiment
	phrases   []models.Annotation
	entities  models.EntityGroups
}

// Enrich 并发处理文档、表单和各表格文本池。池之间相互独立且只读，
// 并发度由配置限定。单个池的洞察调用失败采用跳过并继续策略：
// 该池在结果中缺席并记录告警，其余池照常产出；上下文取消则使
// 整个请求失败。裁剪后为空白的池不发起任何调用。
func (e *Enricher) Enrich(ctx context.Context, doc *models.ExtractedDocument) (*models.Enrichment, error) {
	pools := collectPools(doc)
	results := make([]*poolResult, len(pools))

	sem := make(chan struct{}, e.concurrency)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pools {
		i := i
		p := pools[i]
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			res, err := e.enrichPool(gctx, p)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.log.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
					"pool": p.name,
				}).Warn("Insight calls failed for text pool, skipping its enrichment")
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	enrichment := &models.Enrichment{Entities: make(map[string]models.EntityGroups)}
	for i, res := range results {
		if res == nil {
			continue
		}
		enrichment.Entities[pools[i].name] = res.entities
		if pools[i].isDocument {
			enrichment.Sentiment = res.sentiment
			enrichment.KeyPhrases = res.phrases
		}
	}
	return enrichment, nil
}

// enrichPool 按顺序完成一个池的全部洞察调用。PII 检测针对完整池文本
// 先行执行，其结果是后续标记的依据；其余检测的输入先按提供商的
// 字节上限截断，不做分块合并，精度损失是已知的取舍。
func (e *Enricher) enrichPool(ctx context.Context, p pool) (*poolResult, error) {
	spans, err := e.provider.DetectPII(ctx, p.text)
	if err != nil {
		return nil, fmt.Errorf("detect pii: %w", err)
	}

	truncated := truncateBytes(p.text, e.maxTextBytes)
	res := &poolResult{}

	if p.isDocument {
		sentiment, err := e.provider.DetectSentiment(ctx, truncated)
		if err != nil {
			return nil, fmt.Errorf("detect sentiment: %w", err)
		}
		res.sentiment = sentiment

		phrases, err := e.provider.DetectKeyPhrases(ctx, truncated)
		if err != nil {
			return nil, fmt.Errorf("detect key phrases: %w", err)
		}
		res.phrases = e.rankPhrases(annotate(p.text, spans, phrases))
	}

	entities, err := e.provider.DetectEntities(ctx, truncated)
	if err != nil {
		return nil, fmt.Errorf("detect entities: %w", err)
	}
	res.entities = groupByCategory(annotate(p.text, spans, entities))
	return res, nil
}

// rankPhrases 按分值降序稳定排序（同分保持检测器顺序）并截取前 N 条。
func (e *Enricher) rankPhrases(phrases []models.Annotation) []models.Annotation {
	sort.SliceStable(phrases, func(i, j int) bool {
		return phrases[i].Score > phrases[j].Score
	})
	if len(phrases) > e.topKeyPhrases {
		phrases = phrases[:e.topKeyPhrases]
	}
	return phrases
}

// collectPools 从解析结果中收集非空文本池，空白池直接略过。
func collectPools(doc *models.ExtractedDocument) []pool {
	var pools []pool
	if text := doc.DocumentText(); strings.TrimSpace(text) != "" {
		pools = append(pools, pool{name: models.PoolDocument, text: text, isDocument: true})
	}
	if text := doc.FormText(); strings.TrimSpace(text) != "" {
		pools = append(pools, pool{name: models.PoolForms, text: text})
	}
	for i, table := range doc.Tables {
		if text := table.Text(); strings.TrimSpace(text) != "" {
			pools = append(pools, pool{name: fmt.Sprintf("%s%d", models.PoolTablePrefix, i), text: text})
		}
	}
	return pools
}

// annotate 按检测器返回顺序为每条标注恢复偏移并打 PII 标记。
func annotate(blob string, spans []models.PIISpan, anns []models.Annotation) []models.Annotation {
	r := NewOffsetReconstructor(blob)
	for i := range anns {
		begin := r.Locate(anns[i].Text)
		anns[i].BeginOffset = begin
		anns[i].Redacted = ContainsPII(spans, begin, len(anns[i].Text))
	}
	return anns
}

// groupByCategory 按类别归组，组内保持检测器返回顺序。
func groupByCategory(anns []models.Annotation) models.EntityGroups {
	groups := make(models.EntityGroups)
	for _, a := range anns {
		groups[a.Category] = append(groups[a.Category], a)
	}
	return groups
}

// truncateBytes 把文本截断到 limit 字节以内，并退回到最近的
// UTF-8 字符边界，避免产生半个字符。
func truncateBytes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
