package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the storefront.
const (
	MetricHTTPRequests  = "HTTPRequests"
	MetricHTTPLatency   = "HTTPLatency"
	MetricHTTP4xx       = "HTTP4xxErrors"
	MetricHTTP5xx       = "HTTP5xxErrors"
	MetricOrdersCreated = "OrdersCreated"
	MetricOrdersFailed  = "OrdersFailed"
)

// MetricsRecorder is what middleware and services record metrics through.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// MetricsClient wraps AWS CloudWatch PutMetricData.
type MetricsClient struct {
	client    *cloudwatch.Client
	namespace string
}

func NewMetricsClient(cfg sdkaws.Config, namespace string) *MetricsClient {
	if namespace == "" {
		namespace = "FCommerce"
	}
	return &MetricsClient{client: cloudwatch.NewFromConfig(cfg), namespace: namespace}
}

// PutMetric sends a single data point.
func (m *MetricsClient) PutMetric(ctx context.Context, metricName string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{Name: sdkaws.String(k), Value: sdkaws.String(v)})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(m.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: sdkaws.String(metricName),
			Value:      sdkaws.Float64(value),
			Unit:       unit,
			Timestamp:  sdkaws.Time(time.Now()),
			Dimensions: dims,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to put metric: %w", err)
	}
	return nil
}

func (m *MetricsClient) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions)
}

func (m *MetricsClient) RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

// NoopMetrics discards everything. Used when CloudWatch is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordCount(context.Context, string, map[string]string) error { return nil }

func (NoopMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}
