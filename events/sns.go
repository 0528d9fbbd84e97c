package events

import (
	"context"
	"encoding/json"

	aws_pkg "github.com/devmazaharul/fcommerce/pkg/aws"
	"github.com/devmazaharul/fcommerce/models"
	"go.uber.org/zap"
)

// SNSPublisher fans order events out through an SNS topic.
type SNSPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

func NewSNSPublisher(client aws_pkg.SNSPublisher, topicArn string, logger *zap.Logger) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn, logger: logger}
}

func (p *SNSPublisher) PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.topicArn, event.EventType, data); err != nil {
		p.logger.Error("Failed to publish SNS event", zap.String("topic_arn", p.topicArn), zap.Error(err))
		return err
	}
	return nil
}

func (p *SNSPublisher) Close() error { return nil }
