package provider

import (
	"context"
	"fmt"

	"docpipe/internal/config"
	"docpipe/internal/models"
)

// AnalysisProvider 定义了所有文档分析服务客户端必须实现的通用接口。
// 核心只通过它提交作业和查询作业状态，具体服务（Textract 等）在适配器中实现。
type AnalysisProvider interface {
	// StartAnalysis 针对对象存储中的一份文档启动分析作业，返回作业 id。
	StartAnalysis(ctx context.Context, loc models.DocumentLocation) (string, error)
	// GetAnalysis 查询作业状态；SUCCEEDED 时附带完整的块列表。
	GetAnalysis(ctx context.Context, jobID string) (*models.AnalysisResult, error)
}

// InsightProvider 定义了所有文本洞察服务客户端必须实现的通用接口。
// 四个检测各自独立，输入均受提供商的单次文本长度上限约束，
// 截断由调用方负责。
type InsightProvider interface {
	DetectPII(ctx context.Context, text string) ([]models.PIISpan, error)
	DetectSentiment(ctx context.Context, text string) (*models.Sentiment, error)
	DetectKeyPhrases(ctx context.Context, text string) ([]models.Annotation, error)
	DetectEntities(ctx context.Context, text string) ([]models.Annotation, error)
}

// NewAnalysisProvider 是一个工厂函数，根据配置创建文档分析客户端。
func NewAnalysisProvider(ctx context.Context, cfg config.AnalysisProviderConfig) (AnalysisProvider, error) {
	switch cfg.Name {
	case "textract":
		return NewTextractProvider(ctx, cfg.Region)
	default:
		return nil, fmt.Errorf("unsupported analysis provider: %s", cfg.Name)
	}
}

// NewInsightProvider 是一个工厂函数，根据配置创建文本洞察客户端。
func NewInsightProvider(ctx context.Context, cfg config.InsightProviderConfig) (InsightProvider, error) {
	switch cfg.Name {
	case "comprehend":
		return NewComprehendProvider(ctx, cfg.Region, cfg.LanguageCode)
	default:
		return nil, fmt.Errorf("unsupported insight provider: %s", cfg.Name)
	}
}
