package nats

import (
	"testing"
	"time"

	"inzite-research-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "research.RESEARCH_COMPLETED", Subject(events.ResearchCompleted))
}

func TestEncodeDecode_KeepsEventType(t *testing.T) {
	in := events.NewResearchFailed("abc-123", "u1", "db down")

	data, err := encode(in)
	require.NoError(t, err)

	out, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, events.ResearchFailed, out.EventType())
	assert.Equal(t, "abc-123", out.Payload()["session_id"])
	assert.Equal(t, "db down", out.Payload()["error"])
	assert.WithinDuration(t, in.Timestamp(), out.Timestamp(), time.Millisecond)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := decode([]byte("not json"))
	assert.Error(t, err)
}
