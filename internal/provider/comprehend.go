package provider

import (
	"context"
	"fmt"

	"docpipe/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	ctypes "github.com/aws/aws-sdk-go-v2/service/comprehend/types"
)

// ComprehendProvider 是基于 AWS Comprehend 的文本洞察适配器。
// 所有检测使用同一个固定的语言代码。
type ComprehendProvider struct {
	client   *comprehend.Client
	language ctypes.LanguageCode
}

// NewComprehendProvider 使用默认凭证链创建 Comprehend 客户端。
func NewComprehendProvider(ctx context.Context, region, languageCode string) (*ComprehendProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
	}
	return &ComprehendProvider{
		client:   comprehend.NewFromConfig(awsCfg),
		language: ctypes.LanguageCode(languageCode),
	}, nil
}

// DetectPII 返回文本中个人身份信息的半开字符区间列表。
func (p *ComprehendProvider) DetectPII(ctx context.Context, text string) ([]models.PIISpan, error) {
	out, err := p.client.DetectPiiEntities(ctx, &comprehend.DetectPiiEntitiesInput{
		Text:         aws.String(text),
		LanguageCode: p.language,
	})
	if err != nil {
		return nil, fmt.Errorf("PII 检测失败: %w", err)
	}
	spans := make([]models.PIISpan, 0, len(out.Entities))
	for _, e := range out.Entities {
		spans = append(spans, models.PIISpan{
			Begin: int(aws.ToInt32(e.BeginOffset)),
			End:   int(aws.ToInt32(e.EndOffset)),
		})
	}
	return spans, nil
}

// DetectSentiment 返回文本的整体情感标签和各标签的置信分。
func (p *ComprehendProvider) DetectSentiment(ctx context.Context, text string) (*models.Sentiment, error) {
	out, err := p.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: p.language,
	})
	if err != nil {
		return nil, fmt.Errorf("情感检测失败: %w", err)
	}
	sentiment := &models.Sentiment{
		Label:  string(out.Sentiment),
		Scores: map[string]float64{},
	}
	if s := out.SentimentScore; s != nil {
		sentiment.Scores["positive"] = float64(aws.ToFloat32(s.Positive))
		sentiment.Scores["negative"] = float64(aws.ToFloat32(s.Negative))
		sentiment.Scores["neutral"] = float64(aws.ToFloat32(s.Neutral))
		sentiment.Scores["mixed"] = float64(aws.ToFloat32(s.Mixed))
	}
	return sentiment, nil
}

// DetectKeyPhrases 按检测器返回顺序给出关键短语标注。
func (p *ComprehendProvider) DetectKeyPhrases(ctx context.Context, text string) ([]models.Annotation, error) {
	out, err := p.client.DetectKeyPhrases(ctx, &comprehend.DetectKeyPhrasesInput{
		Text:         aws.String(text),
		LanguageCode: p.language,
	})
	if err != nil {
		return nil, fmt.Errorf("关键短语检测失败: %w", err)
	}
	phrases := make([]models.Annotation, 0, len(out.KeyPhrases))
	for _, kp := range out.KeyPhrases {
		phrases = append(phrases, models.Annotation{
			Text:  aws.ToString(kp.Text),
			Score: float64(aws.ToFloat32(kp.Score)),
		})
	}
	return phrases, nil
}

// DetectEntities 按检测器返回顺序给出带类别的实体标注。
func (p *ComprehendProvider) DetectEntities(ctx context.Context, text string) ([]models.Annotation, error) {
	out, err := p.client.DetectEntities(ctx, &comprehend.DetectEntitiesInput{
		Text:         aws.String(text),
		LanguageCode: p.language,
	})
	if err != nil {
		return nil, fmt.Errorf("实体检测失败: %w", err)
	}
	entities := make([]models.Annotation, 0, len(out.Entities))
	for _, e := range out.Entities {
		entities = append(entities, models.Annotation{
			Text:     aws.ToString(e.Text),
			Score:    float64(aws.ToFloat32(e.Score)),
			Category: string(e.Type),
		})
	}
	return entities, nil
}
