package service

import (
	"errors"
	"sync"
	"time"

	"safio/internal/domain"
)

// Step is the stage of the cart drawer.
type Step string

const (
	StepCart     Step = "cart"
	StepCheckout Step = "checkout"
	StepSuccess  Step = "success"
)

var (
	ErrInvalidState = errors.New("invalid state")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrPaymentBusy  = errors.New("payment already in progress")
)

// DefaultPaymentDelay is how long the simulated payment takes.
const DefaultPaymentDelay = 1500 * time.Millisecond

// Receipt describes a completed payment. Total and Items are captured when
// the payment is submitted.
type Receipt struct {
	Items       []domain.CartItem `json:"items"`
	Total       int64             `json:"total"`
	CompletedAt time.Time         `json:"completedAt"`
}

// Checkout is the cart -> checkout -> success state machine of one drawer.
type Checkout struct {
	mu      sync.Mutex
	cart    *Cart
	step    Step
	pending bool
	last    *Receipt

	delay      time.Duration
	onComplete func(Receipt)
	wg         sync.WaitGroup
}

// NewCheckout drives cart. onComplete runs after the cart has been cleared;
// it may be nil.
func NewCheckout(cart *Cart, delay time.Duration, onComplete func(Receipt)) *Checkout {
	if delay < 0 {
		delay = 0
	}
	return &Checkout{cart: cart, step: StepCart, delay: delay, onComplete: onComplete}
}

// CheckoutState is a snapshot for rendering the drawer.
type CheckoutState struct {
	Step    Step              `json:"step"`
	Pending bool              `json:"pending"`
	Items   []domain.CartItem `json:"items"`
	Total   int64             `json:"total"`
	Count   int               `json:"count"`
	Receipt *Receipt          `json:"receipt,omitempty"`
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.cart.Items()
	st := CheckoutState{
		Step:    c.step,
		Pending: c.pending,
		Items:   items,
		Total:   totalOf(items),
		Count:   c.cart.Count(),
	}
	if c.step == StepSuccess {
		st.Receipt = c.last
	}
	return st
}

func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Pending reports whether a payment is in flight.
func (c *Checkout) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Proceed moves from cart to checkout.
func (c *Checkout) Proceed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return ErrPaymentBusy
	}
	if c.step != StepCart {
		return ErrInvalidState
	}
	if c.cart.Len() == 0 {
		return ErrEmptyCart
	}
	c.step = StepCheckout
	return nil
}

// SubmitPayment starts the simulated payment. After the delay the cart is
// cleared and the drawer moves to success whether or not anyone is still
// waiting on the returned channel.
func (c *Checkout) SubmitPayment() (<-chan Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return nil, ErrPaymentBusy
	}
	if c.step != StepCheckout {
		return nil, ErrInvalidState
	}
	items := c.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	r := Receipt{Items: items, Total: totalOf(items)}
	c.pending = true

	done := make(chan Receipt, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		time.Sleep(c.delay)
		c.complete(r, done)
	}()
	return done, nil
}

func (c *Checkout) complete(r Receipt, done chan<- Receipt) {
	r.CompletedAt = time.Now().UTC()
	c.mu.Lock()
	c.cart.Clear()
	c.step = StepSuccess
	c.pending = false
	c.last = &r
	c.mu.Unlock()

	if c.onComplete != nil {
		c.onComplete(r)
	}
	done <- r
	close(done)
}

// Close dismisses the drawer. Cart lines survive unless payment completed.
func (c *Checkout) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepCart
	c.last = nil
}

// Open shows the drawer; a finished checkout starts over at the cart.
func (c *Checkout) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepSuccess {
		c.step = StepCart
		c.last = nil
	}
}

// Wait blocks until in-flight payments have completed.
func (c *Checkout) Wait() {
	c.wg.Wait()
}
