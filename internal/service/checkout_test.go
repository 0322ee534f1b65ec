package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 10 * time.Millisecond

func filledCheckout(t *testing.T, hook func(Receipt)) (*Checkout, *Cart) {
	t.Helper()
	cart := NewCart()
	cart.Add(item("a", 999))
	cart.UpdateQuantity("a", 1)
	cart.Add(item("b", 500))
	return NewCheckout(cart, testDelay, hook), cart
}

func TestCheckout_HappyPath(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []Receipt
	)
	co, cart := filledCheckout(t, func(r Receipt) {
		mu.Lock()
		seen = append(seen, r)
		mu.Unlock()
	})

	require.Equal(t, StepCart, co.Step())
	require.NoError(t, co.Proceed())
	require.Equal(t, StepCheckout, co.Step())

	done, err := co.SubmitPayment()
	require.NoError(t, err)
	assert.True(t, co.State().Pending)

	r := <-done
	co.Wait()

	assert.Equal(t, int64(2498), r.Total)
	assert.Len(t, r.Items, 2)
	assert.False(t, r.CompletedAt.IsZero())
	assert.Equal(t, 0, cart.Len())

	st := co.State()
	assert.Equal(t, StepSuccess, st.Step)
	assert.False(t, st.Pending)
	require.NotNil(t, st.Receipt)
	assert.Equal(t, int64(2498), st.Receipt.Total)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, r.Total, seen[0].Total)
}

func TestCheckout_ProceedRequiresItems(t *testing.T) {
	co := NewCheckout(NewCart(), testDelay, nil)
	assert.ErrorIs(t, co.Proceed(), ErrEmptyCart)
	assert.Equal(t, StepCart, co.Step())
}

func TestCheckout_ProceedOnlyFromCart(t *testing.T) {
	co, _ := filledCheckout(t, nil)
	require.NoError(t, co.Proceed())
	assert.ErrorIs(t, co.Proceed(), ErrInvalidState)
}

func TestCheckout_SubmitOnlyFromCheckout(t *testing.T) {
	co, _ := filledCheckout(t, nil)
	_, err := co.SubmitPayment()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCheckout_SecondSubmitWhilePending(t *testing.T) {
	co, _ := filledCheckout(t, nil)
	require.NoError(t, co.Proceed())
	done, err := co.SubmitPayment()
	require.NoError(t, err)

	_, err = co.SubmitPayment()
	assert.ErrorIs(t, err, ErrPaymentBusy)
	assert.ErrorIs(t, co.Proceed(), ErrPaymentBusy)

	<-done
	co.Wait()
}

func TestCheckout_TotalCapturedAtSubmit(t *testing.T) {
	co, cart := filledCheckout(t, nil)
	require.NoError(t, co.Proceed())
	done, err := co.SubmitPayment()
	require.NoError(t, err)
	cart.Add(item("late", 1_000_000))

	r := <-done
	co.Wait()
	assert.Equal(t, int64(2498), r.Total)
	assert.Equal(t, 0, cart.Len())
}

func TestCheckout_CloseKeepsItems(t *testing.T) {
	co, cart := filledCheckout(t, nil)
	require.NoError(t, co.Proceed())
	co.Close()
	assert.Equal(t, StepCart, co.Step())
	assert.Equal(t, 2, cart.Len())
}

func TestCheckout_ClosedDrawerStillCompletes(t *testing.T) {
	co, cart := filledCheckout(t, nil)
	require.NoError(t, co.Proceed())
	_, err := co.SubmitPayment()
	require.NoError(t, err)
	co.Close()
	co.Wait()

	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, StepSuccess, co.Step())

	co.Open()
	st := co.State()
	assert.Equal(t, StepCart, st.Step)
	assert.Nil(t, st.Receipt)
}

func TestCheckout_OpenDoesNotResetCheckoutStep(t *testing.T) {
	co, _ := filledCheckout(t, nil)
	require.NoError(t, co.Proceed())
	co.Open()
	assert.Equal(t, StepCheckout, co.Step())
}

func TestCheckout_NegativeDelay(t *testing.T) {
	co := NewCheckout(NewCart(), -time.Second, nil)
	if co.delay != 0 {
		t.Fatalf("expected delay clamped to 0, got %v", co.delay)
	}
	if !errors.Is(co.Proceed(), ErrEmptyCart) {
		t.Fatalf("expected empty cart")
	}
}
