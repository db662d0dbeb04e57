package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "onboard/pkg/domain"
	audit "onboard/pkg/platform/audit"
	"onboard/pkg/platform/circuit"
)

func TestLogPublisher_Emit(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	onboardingID := id.NewOnboardingID()
	err := pub.Emit(context.Background(), audit.Event{
		OnboardingID: onboardingID,
		Action:       string(audit.EventOverrideApplied),
		Source:       "partner-portal",
		Decision:     "complete",
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit", line["log_type"])
	assert.Equal(t, string(audit.EventOverrideApplied), line["action"])
	assert.Equal(t, string(audit.CategoryCompliance), line["category"])
	assert.Equal(t, "partner-portal", line["source"])
}

func TestKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafka(nil, "onboard.audit.events")
	require.Error(t, err)

	_, err = NewKafka([]string{"localhost:9092"}, "")
	require.Error(t, err)
}

func TestKafkaPublisher_OpenBreakerFallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	breaker := circuit.New("audit-kafka", circuit.WithFailureThreshold(1))
	breaker.RecordFailure()
	require.True(t, breaker.IsOpen())

	// The client never connects eagerly, so an unreachable broker is fine
	// while the breaker keeps Emit away from the network.
	pub, err := NewKafka([]string{"localhost:1"}, "onboard.audit.events",
		WithLogger(logger),
		WithBreaker(breaker),
	)
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = pub.Close(ctx)
	}()

	err = pub.Emit(context.Background(), audit.Event{
		OnboardingID: id.NewOnboardingID(),
		Action:       string(audit.EventConfigDriftDetected),
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit event diverted to log", line["msg"])
	assert.Equal(t, "circuit open", line["fallback_reason"])
}
