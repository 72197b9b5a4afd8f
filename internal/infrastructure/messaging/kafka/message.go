// Package kafka provides the messaging layer for bulletin and alert
// events: a producer/consumer pair over segmentio/kafka-go, topic
// management, and the event envelope shared by all topics.
package kafka

import (
	"context"
	"time"
)

// ProducerMessage is an outbound message handed to the Producer.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
	Partition int
}

// Message is an inbound message delivered to a MessageHandler.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
	Headers   map[string]string
}

// MessageHandler processes a consumed message. A non-nil error triggers
// the consumer's retry and dead-letter handling.
type MessageHandler func(ctx context.Context, msg *Message) error

// TopicConfig describes a topic to create or ensure.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
	MaxMessageBytes   int
	Configs           map[string]string
}

// BatchItemError records a single failed message within a batch publish.
type BatchItemError struct {
	Index int
	Topic string
	Error error
}

// BatchPublishResult summarizes the outcome of PublishBatch.
type BatchPublishResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchItemError
}
