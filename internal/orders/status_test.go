package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		{StatusCompleted, StatusAccepted, false},
		{StatusCompleted, StatusRejected, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusCompleted, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusAccepted.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, MethodCash.Valid())
	assert.True(t, MethodQRIS.Valid())
	assert.False(t, MethodNone.Valid())
	assert.False(t, PaymentMethod("transfer").Valid())

	assert.True(t, MethodCash.AutoPaid())
	assert.False(t, MethodQRIS.AutoPaid())
}
