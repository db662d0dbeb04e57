//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "onboard/pkg/domain"
	audit "onboard/pkg/platform/audit"
	"onboard/pkg/testutil/containers"
)

func TestKafkaPublisher_ProducesToTopic(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	t.Cleanup(func() { _ = rp.Container.Terminate(context.Background()) })

	const topic = "onboard.audit.events"
	ctx := context.Background()

	pub, err := NewKafka(rp.Brokers, topic)
	require.NoError(t, err)

	onboardingID := id.NewOnboardingID()
	require.NoError(t, pub.Emit(ctx, audit.Event{
		OnboardingID: onboardingID,
		Action:       string(audit.EventOverrideApplied),
		Source:       "back-office",
		Decision:     "complete",
	}))
	require.NoError(t, pub.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.Empty(t, fetches.Errors())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, onboardingID.String(), string(records[0].Key))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(records[0].Value, &payload))
	assert.Equal(t, string(audit.EventOverrideApplied), payload["action"])
	assert.Equal(t, string(audit.CategoryCompliance), payload["category"])
	assert.Equal(t, "complete", payload["decision"])
	assert.Equal(t, "back-office", payload["source"])
}
