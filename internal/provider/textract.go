package provider

import (
	"context"
	"fmt"

	"docpipe/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	ttypes "github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// TextractProvider 是基于 AWS Textract 的文档分析适配器。
// 分析固定启用表格和表单两类特征。
type TextractProvider struct {
	client *textract.Client
}

// NewTextractProvider 使用默认凭证链创建 Textract 客户端。
func NewTextractProvider(ctx context.Context, region string) (*TextractProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
	}
	return &TextractProvider{client: textract.NewFromConfig(awsCfg)}, nil
}

// StartAnalysis 对 S3 中的文档启动异步分析作业。
func (p *TextractProvider) StartAnalysis(ctx context.Context, loc models.DocumentLocation) (string, error) {
	out, err := p.client.StartDocumentAnalysis(ctx, &textract.StartDocumentAnalysisInput{
		DocumentLocation: &ttypes.DocumentLocation{
			S3Object: &ttypes.S3Object{
				Bucket: aws.String(loc.Bucket),
				Name:   aws.String(loc.Key),
			},
		},
		FeatureTypes: []ttypes.FeatureType{ttypes.FeatureTypeTables, ttypes.FeatureTypeForms},
	})
	if err != nil {
		return "", fmt.Errorf("启动文档分析作业失败: %w", err)
	}
	return aws.ToString(out.JobId), nil
}

// GetAnalysis 查询作业状态。作业成功时跟随 NextToken 拉取全部分页，
// 返回完整的块列表。
func (p *TextractProvider) GetAnalysis(ctx context.Context, jobID string) (*models.AnalysisResult, error) {
	out, err := p.client.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
		JobId: aws.String(jobID),
	})
	if err != nil {
		return nil, fmt.Errorf("查询文档分析作业失败: %w", err)
	}

	switch out.JobStatus {
	case ttypes.JobStatusSucceeded:
		blocks := convertBlocks(out.Blocks)
		token := out.NextToken
		for token != nil {
			page, err := p.client.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
				JobId:     aws.String(jobID),
				NextToken: token,
			})
			if err != nil {
				return nil, fmt.Errorf("拉取文档分析结果分页失败: %w", err)
			}
			blocks = append(blocks, convertBlocks(page.Blocks)...)
			token = page.NextToken
		}
		return &models.AnalysisResult{Status: models.JobStatusSucceeded, Blocks: blocks}, nil
	case ttypes.JobStatusFailed:
		return &models.AnalysisResult{
			Status:        models.JobStatusFailed,
			FailureReason: aws.ToString(out.StatusMessage),
		}, nil
	default:
		return &models.AnalysisResult{Status: models.JobStatusPending}, nil
	}
}

// convertBlocks 把 Textract 的块转换成内部模型，指针字段保留"缺失"语义。
func convertBlocks(in []ttypes.Block) []models.Block {
	out := make([]models.Block, 0, len(in))
	for _, b := range in {
		block := models.Block{
			ID:   aws.ToString(b.Id),
			Kind: models.BlockKind(b.BlockType),
			Text: aws.ToString(b.Text),
		}
		if b.Confidence != nil {
			c := float64(*b.Confidence)
			block.Confidence = &c
		}
		if b.RowIndex != nil {
			row := int(*b.RowIndex)
			block.RowIndex = &row
		}
		if b.ColumnIndex != nil {
			col := int(*b.ColumnIndex)
			block.ColumnIndex = &col
		}
		for _, et := range b.EntityTypes {
			block.EntityRoles = append(block.EntityRoles, models.EntityRole(et))
		}
		for _, rel := range b.Relationships {
			block.Relationships = append(block.Relationships, models.Relationship{
				Kind: models.RelationKind(rel.Type),
				IDs:  rel.Ids,
			})
		}
		out = append(out, block)
	}
	return out
}
