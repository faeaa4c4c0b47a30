package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Brokers: []string{" "}}.Enabled())
	assert.True(t, Config{Brokers: []string{"localhost:9092"}}.Enabled())
}

func TestNewProducerTargetsTopic(t *testing.T) {
	t.Parallel()

	p := NewProducer(Config{Brokers: []string{"localhost:9092"}, Topic: "events"})
	defer p.Close()
	assert.Equal(t, "events", p.writer.Topic)
	assert.Equal(t, "localhost:9092", p.writer.Addr.String())
}
