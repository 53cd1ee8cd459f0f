package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowRespectsBurst(t *testing.T) {
	l := New(60, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("reddit"), "burst slot %d", i)
	}
	assert.False(t, l.Allow("reddit"))
}

func TestPlatformsAreIsolated(t *testing.T) {
	l := New(60, 1)

	assert.True(t, l.Allow("reddit"))
	assert.False(t, l.Allow("reddit"))
	assert.True(t, l.Allow("discord"))
}

func TestWaitHonorsContextCancel(t *testing.T) {
	l := New(1, 1)
	require.True(t, l.Allow("reddit"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, "reddit")
	assert.Error(t, err)
}
