package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResetter struct{ n int }

func (c *countingResetter) Reset() { c.n++ }

func TestNewScheduler_EmptySpecDisables(t *testing.T) {
	s, err := NewScheduler("  ", &countingResetter{}, nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	// nil receiver is safe
	s.Start()
	s.Stop()
	assert.True(t, s.Next().IsZero())
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every tuesday", &countingResetter{}, nil)
	assert.Error(t, err)
}

func TestNewScheduler_DailyNextIsMidnightUTC(t *testing.T) {
	s, err := NewScheduler("@daily", &countingResetter{}, nil)
	require.NoError(t, err)

	next := s.Next()
	require.False(t, next.IsZero())
	next = next.UTC()
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now().UTC()))
	assert.True(t, next.Before(time.Now().UTC().Add(25*time.Hour)))

	s.Start()
	s.Stop()
}
