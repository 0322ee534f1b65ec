package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_GetOrCreate(t *testing.T) {
	m := NewSessionManager(time.Hour, testDelay, nil)

	s, created := m.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, StepCart, s.Checkout.Step())
	assert.Len(t, s.Chat.Messages(), 1)
	assert.False(t, s.IsAdmin())

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created := m.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, s.ID, other.ID)
	assert.Equal(t, 2, m.Len())
}

func TestSessionManager_SessionsAreIsolated(t *testing.T) {
	m := NewSessionManager(0, testDelay, nil)
	a := m.Create()
	b := m.Create()
	a.Cart.Add(item("x", 10))
	a.setAdmin(true)
	assert.Equal(t, 0, b.Cart.Len())
	assert.False(t, b.IsAdmin())
}

func TestSessionManager_Sweep(t *testing.T) {
	m := NewSessionManager(time.Minute, testDelay, nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	stale := m.Create()
	now = now.Add(30 * time.Second)
	fresh := m.Create()
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	_, ok := m.Get(stale.ID)
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)
}

func TestSessionManager_RunStopsOnCancel(t *testing.T) {
	m := NewSessionManager(time.Minute, testDelay, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()
	time.Sleep(5 * time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestSessionManager_WaitForPayments(t *testing.T) {
	paid := make(chan Receipt, 1)
	m := NewSessionManager(time.Minute, testDelay, func(r Receipt) { paid <- r })
	s := m.Create()
	s.Cart.Add(item("a", 100))
	require.NoError(t, s.Checkout.Proceed())
	_, err := s.Checkout.SubmitPayment()
	require.NoError(t, err)

	m.Wait()
	r := <-paid
	assert.Equal(t, int64(100), r.Total)
}

func TestSessionManager_SweepKeepsPendingPayment(t *testing.T) {
	m := NewSessionManager(time.Minute, 50*time.Millisecond, nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := m.Create()
	s.Cart.Add(item("a", 100))
	require.NoError(t, s.Checkout.Proceed())
	_, err := s.Checkout.SubmitPayment()
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 0, m.Sweep())
	assert.Equal(t, 1, m.Len())

	m.Wait()
	assert.Equal(t, StepSuccess, s.Checkout.Step())
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 0, m.Len())
}
