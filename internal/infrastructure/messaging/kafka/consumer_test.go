package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
)

type mockKafkaReader struct {
	fetchFunc  func(ctx context.Context) (kafka.Message, error)
	commitFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc  func() error
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx)
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.commitFunc != nil {
		return m.commitFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaReader) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockKafkaReader) Stats() kafka.ReaderStats {
	return kafka.ReaderStats{}
}

func newTestConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "seaguard-test",
		Topics:  []string{TopicWarningDetected},
	}
}

func newTestConsumer(r ReaderInterface) *Consumer {
	return &Consumer{
		reader:   r,
		config:   newTestConsumerConfig(),
		logger:   logging.NewNopLogger(),
		handlers: make(map[string]MessageHandler),
		metrics:  &ConsumerMetrics{},
	}
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(newTestConsumerConfig()))

	cfg := newTestConsumerConfig()
	cfg.Brokers = nil
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.GroupID = ""
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.AutoOffsetReset = "somewhere"
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = newTestConsumerConfig()
	cfg.SASLEnabled = true
	assert.Error(t, ValidateConsumerConfig(cfg))
}

func TestConsumer_Subscribe(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{})

	err := c.Subscribe(TopicWarningDetected, func(ctx context.Context, msg *Message) error { return nil })
	require.NoError(t, err)
	assert.Len(t, c.handlers, 1)

	assert.Error(t, c.Subscribe(TopicRiskAlert, nil))

	require.NoError(t, c.Unsubscribe(TopicWarningDetected))
	assert.Empty(t, c.handlers)
}

func TestConsumer_Start_AlreadyRunning(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{})
	c.running.Store(true)

	err := c.Start(context.Background())
	assert.Equal(t, ErrAlreadyRunning, err)
}

func TestConsumer_ConsumeLoop_DispatchAndCommit(t *testing.T) {
	fetched := false
	committed := make(chan struct{})
	reader := &mockKafkaReader{
		fetchFunc: func(ctx context.Context) (kafka.Message, error) {
			if fetched {
				<-ctx.Done()
				return kafka.Message{}, ctx.Err()
			}
			fetched = true
			return kafka.Message{
				Topic: TopicWarningDetected,
				Value: []byte(`{"event_id":"e1"}`),
				Headers: []kafka.Header{
					{Key: "event_type", Value: []byte("warning.detected")},
				},
			}, nil
		},
		commitFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			assert.Len(t, msgs, 1)
			close(committed)
			return nil
		},
	}

	c := newTestConsumer(reader)

	handled := make(chan *Message, 1)
	require.NoError(t, c.Subscribe(TopicWarningDetected, func(ctx context.Context, msg *Message) error {
		handled <- msg
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Start(ctx))

	select {
	case msg := <-handled:
		assert.Equal(t, `{"event_id":"e1"}`, string(msg.Value))
		assert.Equal(t, "warning.detected", msg.Headers["event_type"])
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for handler")
	}

	select {
	case <-committed:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for commit")
	}

	require.NoError(t, c.Close())
	assert.Equal(t, int64(1), c.metrics.MessagesProcessed.Load())
}

func TestConsumer_ProcessMessage_RetryThenSuccess(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{})
	c.config.RetryConfig = RetryConfig{
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}

	attempts := 0
	handler := func(ctx context.Context, msg *Message) error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	}

	err := c.processMessage(context.Background(), &Message{Topic: TopicWarningDetected}, handler)
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, int64(1), c.metrics.MessagesRetried.Load())
}

func TestConsumer_ProcessMessage_RetriesExhausted(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{})
	c.config.RetryConfig = RetryConfig{
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	}

	handler := func(ctx context.Context, msg *Message) error {
		return errors.New("permanent")
	}

	err := c.processMessage(context.Background(), &Message{Topic: TopicWarningDetected}, handler)
	assert.Error(t, err)
	assert.Equal(t, int64(1), c.metrics.MessagesRetried.Load())
}

func TestConsumer_ProcessMessage_DeadLetter(t *testing.T) {
	var dlCaptured []kafka.Message
	dlWriter := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			dlCaptured = msgs
			return nil
		},
	}

	c := newTestConsumer(&mockKafkaReader{})
	c.config.RetryConfig = RetryConfig{
		MaxRetries:      1,
		RetryBackoff:    time.Millisecond,
		DeadLetterTopic: TopicDeadLetter,
	}
	c.deadLetterProducer = newTestProducer(dlWriter)

	msg := &Message{
		Topic:   TopicWarningDetected,
		Key:     []byte("w1"),
		Value:   []byte("bad payload"),
		Headers: map[string]string{"event_type": "warning.detected"},
	}
	err := c.processMessage(context.Background(), msg, func(ctx context.Context, m *Message) error {
		return errors.New("cannot decode")
	})
	assert.Error(t, err)

	require.Len(t, dlCaptured, 1)
	assert.Equal(t, TopicDeadLetter, dlCaptured[0].Topic)
	assert.Equal(t, "bad payload", string(dlCaptured[0].Value))

	headers := make(map[string]string)
	for _, h := range dlCaptured[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, TopicWarningDetected, headers["original_topic"])
	assert.Equal(t, "cannot decode", headers["error_message"])
	assert.Equal(t, "warning.detected", headers["event_type"])
	assert.Equal(t, int64(1), c.metrics.MessagesDeadLettered.Load())
}

func TestConsumer_Close_Idempotent(t *testing.T) {
	c := newTestConsumer(&mockKafkaReader{})
	c.running.Store(true)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
