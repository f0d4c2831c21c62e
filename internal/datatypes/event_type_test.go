package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_RoundTrip(t *testing.T) {
	for _, et := range []EventType{PersonUpserted, PersonProfileUpdated, PersonDeleted} {
		got, ok := ParseEventType(et.String())
		require.True(t, ok, et.String())
		assert.Equal(t, et, got)
	}

	assert.Empty(t, EventType(999).String())

	_, ok := ParseEventType("feedback_record.created")
	assert.False(t, ok)
	assert.False(t, IsValidEventType(""))
}

func TestEventType_TriggersEmbedding(t *testing.T) {
	assert.True(t, PersonUpserted.TriggersEmbedding())
	assert.True(t, PersonProfileUpdated.TriggersEmbedding())
	assert.False(t, PersonDeleted.TriggersEmbedding())
}
