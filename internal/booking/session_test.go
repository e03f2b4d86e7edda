package booking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationLifecycleSuccess(t *testing.T) {
	reg := NewSessionRegistry()
	conv := reg.Get("conv-1")
	assert.Equal(t, StatusIdle, conv.Status())

	require.NoError(t, conv.Begin())
	assert.Equal(t, StatusProcessing, conv.Status())

	conv.Complete(false)
	assert.Equal(t, StatusSuccess, conv.Status())

	// Terminal: no new attempt and no reset.
	assert.ErrorIs(t, conv.Begin(), ErrAttemptFinished)
	assert.ErrorIs(t, conv.Reset(), ErrNotResettable)
}

func TestConversationLifecycleWaitlisted(t *testing.T) {
	conv := NewSessionRegistry().Get("conv-2")
	require.NoError(t, conv.Begin())
	conv.Complete(true)
	assert.Equal(t, StatusWaitlisted, conv.Status())
	assert.ErrorIs(t, conv.Begin(), ErrAttemptFinished)
}

func TestConversationFailAndReset(t *testing.T) {
	conv := NewSessionRegistry().Get("conv-3")
	require.NoError(t, conv.Begin())

	diag := &Diagnostic{AttemptID: "a-1", Message: "confirmation line has 3 fields, want at least 5"}
	conv.Fail(diag)
	assert.Equal(t, StatusError, conv.Status())
	assert.Equal(t, diag, conv.Diagnostic())

	// A new attempt is blocked until the conversation is reset.
	assert.ErrorIs(t, conv.Begin(), ErrNotResettable)

	require.NoError(t, conv.Reset())
	assert.Equal(t, StatusIdle, conv.Status())
	assert.Nil(t, conv.Diagnostic())

	require.NoError(t, conv.Begin())
}

func TestConversationCancelReturnsToIdle(t *testing.T) {
	conv := NewSessionRegistry().Get("conv-4")
	require.NoError(t, conv.Begin())
	conv.Cancel()
	assert.Equal(t, StatusIdle, conv.Status())
	require.NoError(t, conv.Begin())
}

func TestConversationConcurrentBegin(t *testing.T) {
	conv := NewSessionRegistry().Get("conv-5")

	const attempts = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if conv.Begin() == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var count int
	for range wins {
		count++
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, StatusProcessing, conv.Status())
}

func TestRegistryReturnsSameConversation(t *testing.T) {
	reg := NewSessionRegistry()
	a := reg.Get("conv-6")
	b := reg.Get("conv-6")
	assert.Same(t, a, b)
	assert.NotSame(t, a, reg.Get("conv-7"))
}
