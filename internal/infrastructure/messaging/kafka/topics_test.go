package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	deleteFunc func(topics ...string) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) DeleteTopics(topics ...string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func newTestTopicManager(mock ConnInterface) *TopicManager {
	return &TopicManager{
		conn:   mock,
		logger: logging.NewNopLogger(),
	}
}

func TestDefaultTopics(t *testing.T) {
	defaults := DefaultTopics()
	require.Len(t, defaults, 5)

	names := make(map[string]TopicConfig, len(defaults))
	for _, cfg := range defaults {
		names[cfg.Name] = cfg
	}
	assert.Contains(t, names, TopicBulletinReceived)
	assert.Contains(t, names, TopicWarningDetected)
	assert.Contains(t, names, TopicWarningNotified)
	assert.Contains(t, names, TopicRiskAlert)
	assert.Contains(t, names, TopicDeadLetter)

	// Warnings outlive raw bulletins.
	assert.Greater(t, names[TopicWarningDetected].RetentionMs, names[TopicBulletinReceived].RetentionMs)
}

func TestTopicManager_CreateTopic(t *testing.T) {
	var captured []kafka.TopicConfig
	m := newTestTopicManager(&mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			captured = topics
			return nil
		},
	})

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name:              TopicRiskAlert,
		NumPartitions:     6,
		ReplicationFactor: 3,
		RetentionMs:       1000,
	})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, TopicRiskAlert, captured[0].Topic)
	assert.Equal(t, 6, captured[0].NumPartitions)
	require.Len(t, captured[0].ConfigEntries, 1)
	assert.Equal(t, "retention.ms", captured[0].ConfigEntries[0].ConfigName)
	assert.Equal(t, "1000", captured[0].ConfigEntries[0].ConfigValue)
}

func TestTopicManager_CreateTopic_Invalid(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})

	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestTopicManager_CreateTopic_AlreadyExists(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			return assert.AnError
		},
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: topics[0]}}, nil
		},
	})

	err := m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1})
	assert.NoError(t, err)
}

func TestTopicManager_ListTopics(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{
				{Topic: TopicWarningDetected},
				{Topic: TopicWarningDetected},
				{Topic: TopicRiskAlert},
			}, nil
		},
	})

	topics, err := m.ListTopics(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{TopicWarningDetected, TopicRiskAlert}, topics)
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := WarningDetectedPayload{
		WarningID:       "w1",
		Source:          "CN_MSA",
		Bureau:          "海南海事局",
		Title:           "军事训练",
		MatchedKeywords: []string{"军事训练"},
		CoordinateCount: 4,
		DetectedAt:      time.Now().UTC(),
	}
	env, err := NewEventEnvelope("warning.detected", "seaguard-ingestion", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	msg, err := env.ToMessage(TopicWarningDetected)
	require.NoError(t, err)
	assert.Equal(t, TopicWarningDetected, msg.Topic)
	assert.Equal(t, "warning.detected", msg.Headers["event_type"])

	decoded, err := MessageToEventEnvelope(&Message{Value: msg.Value})
	require.NoError(t, err)
	assert.Equal(t, env.EventID, decoded.EventID)

	var got WarningDetectedPayload
	require.NoError(t, decoded.DecodePayload(&got))
	assert.Equal(t, "w1", got.WarningID)
	assert.Equal(t, "CN_MSA", got.Source)
	assert.Equal(t, 4, got.CoordinateCount)
}

func TestMessageToEventEnvelope_Empty(t *testing.T) {
	_, err := MessageToEventEnvelope(&Message{})
	assert.Error(t, err)
}
