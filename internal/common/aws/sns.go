// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// BatchSummary describes one finished scoring batch. It carries counts only, never scores per candidate.
type BatchSummary struct {
	RequestID                 string    `json:"requestId"`
	TaskType                  string    `json:"taskType"`
	SubjectID                 string    `json:"subjectId"`
	TotalCandidatesConsidered int       `json:"totalCandidatesConsidered"`
	RecommendationsGenerated  int       `json:"recommendationsGenerated"`
	AverageScore              float64   `json:"averageScore"`
	GeneratedAt               time.Time `json:"generatedAt"`
}

// SummaryPublisher posts batch summaries to one SNS topic.
type SummaryPublisher struct {
	client   SNSAPI
	topicARN string
}

func NewSummaryPublisher(client SNSAPI, topicARN string) *SummaryPublisher {
	return &SummaryPublisher{client: client, topicARN: topicARN}
}

// NewSNSClient builds an SNS client from the default credential chain.
func NewSNSClient(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sns.NewFromConfig(cfg), nil
}

func (p *SummaryPublisher) Publish(ctx context.Context, s BatchSummary) (string, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal batch summary: %w", err)
	}

	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"taskType": {DataType: awssdk.String("String"), StringValue: awssdk.String(s.TaskType)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("publish batch summary: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
