package aws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]types.Message
	receives int
	deleted  []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	f.receives++
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return &sqs.ReceiveMessageOutput{Messages: batch}, nil
	}
	first := f.receives == 1
	f.mu.Unlock()
	if first {
		return nil, errors.New("throttled")
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, sdkaws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func message(id, body string) types.Message {
	return types.Message{MessageId: sdkaws.String(id), ReceiptHandle: sdkaws.String("rh-" + id), Body: sdkaws.String(body)}
}

func TestSQSConsumer_DeletesHandledMessages(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeSQS{batches: [][]types.Message{{
		message("1", "ok"),
		message("2", "fail"),
		{MessageId: sdkaws.String("3")},
		message("4", "ok"),
	}}}
	consumer := NewSQSConsumerWithClient(client, "https://sqs.local/orders", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	handled := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- consumer.StartPolling(ctx, func(_ context.Context, body string) error {
			handled <- body
			if body == "fail" {
				return errors.New("handler failed")
			}
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-handled:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, []string{"rh-1", "rh-4"}, client.deleted)
}

func TestSQSConsumer_BacksOffOnReceiveError(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeSQS{}
	consumer := NewSQSConsumerWithClient(client, "https://sqs.local/orders", zap.NewNop())
	consumer.backoff = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.StartPolling(ctx, func(context.Context, string) error { return nil }) }()

	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.receives >= 2
	}, 2*time.Second, 5*time.Millisecond, "polling resumes after the backoff")
	cancel()
	<-done
}

func TestMetricsClient_Disabled(t *testing.T) {
	m := NewMetricsClient(sdkaws.Config{}, "Vastrashahi", false)
	assert.False(t, m.IsEnabled())
	assert.NoError(t, m.RecordCount(context.Background(), MetricOrdersCreated, nil))
}

type failingRecorder struct{ calls chan string }

func (f *failingRecorder) RecordCount(_ context.Context, name string, _ map[string]string) error {
	f.calls <- name
	return errors.New("cloudwatch unreachable")
}

func (f *failingRecorder) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

func (f *failingRecorder) IsEnabled() bool { return true }

func TestRecordCountAsync(t *testing.T) {
	defer goleak.VerifyNone(t)

	<-RecordCountAsync(nil, MetricImagesUploaded, nil, zap.NewNop())
	<-RecordCountAsync(NewMetricsClient(sdkaws.Config{}, "", false), MetricImagesUploaded, nil, zap.NewNop())

	rec := &failingRecorder{calls: make(chan string, 1)}
	done := RecordCountAsync(rec, MetricImagesUploaded, map[string]string{"Service": "vastrashahi"}, zap.NewNop())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("metric was never sent")
	}
	assert.Equal(t, MetricImagesUploaded, <-rec.calls)
}
