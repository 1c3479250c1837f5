package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_SetHealthy(t *testing.T) {
	tr := NewTracker()
	tr.SetHealthy("database", "ok")

	s := tr.Get("database")
	require.NotNil(t, s)
	assert.True(t, s.Healthy)
	assert.Equal(t, "ok", s.Message)
	assert.True(t, tr.Healthy())
}

func TestTracker_SetUnhealthy(t *testing.T) {
	tr := NewTracker()
	tr.SetHealthy("smtp", "ok")
	tr.SetUnhealthy("smtp", errors.New("535 bad credentials"))

	s := tr.Get("smtp")
	require.NotNil(t, s)
	assert.False(t, s.Healthy)
	assert.Equal(t, "535 bad credentials", s.Message)
	assert.False(t, tr.Healthy())
	assert.Len(t, tr.All(), 1)
}

func TestTracker_GetNotFound(t *testing.T) {
	assert.Nil(t, NewTracker().Get("missing"))
}

func TestTracker_Run(t *testing.T) {
	tr := NewTracker()
	tr.Run(context.Background(), []Check{
		{Component: "database", Run: func(context.Context) (string, error) { return "3 sessions", nil }},
		{Component: "veclite", Run: func(context.Context) (string, error) { return "", ErrSkipped }},
		{Component: "ledger", Run: func(context.Context) (string, error) { return "", errors.New("403") }},
	})

	all := tr.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"database", "veclite", "ledger"},
		[]string{all[0].Component, all[1].Component, all[2].Component})

	assert.True(t, all[0].Healthy)
	assert.Equal(t, "3 sessions", all[0].Message)
	assert.True(t, all[1].Skipped)
	assert.Equal(t, "not configured", all[1].Message)
	assert.False(t, all[2].Healthy)
	assert.EqualError(t, all[2].Err, "403")
	assert.False(t, tr.Healthy())
}

func TestTracker_RunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	tr := NewTracker()
	tr.Run(ctx, []Check{
		{Component: "a", Run: func(context.Context) (string, error) { calls++; cancel(); return "", nil }},
		{Component: "b", Run: func(context.Context) (string, error) { calls++; return "", nil }},
	})
	assert.Equal(t, 1, calls)
	assert.Len(t, tr.All(), 1)
}
