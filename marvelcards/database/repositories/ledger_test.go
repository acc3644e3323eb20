package repositories

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreditDelta(t *testing.T) {
	tests := []struct {
		name    string
		current string
		delta   string
		want    string
	}{
		{name: "credit from zero", current: "0", delta: "0.2", want: "0.2"},
		{name: "exact fractional sum", current: "0.1", delta: "0.2", want: "0.3"},
		{name: "debit to exactly zero", current: "1", delta: "-1", want: "0"},
		{name: "sale price accumulates", current: "0.6", delta: "0.2", want: "0.8"},
		{name: "negative delta within balance", current: "2.5", delta: "-1.2", want: "1.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := decimal.RequireFromString(tt.delta)
			got, err := applyCreditDelta(1, tt.current, delta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestApplyCreditDelta_floor(t *testing.T) {
	delta := decimal.RequireFromString("-0.3")
	_, err := applyCreditDelta(7, "0.2", delta)

	require.Error(t, err)
	assert.True(t, IsInsufficientFunds(err))

	var ife *InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, int64(7), ife.UserID)
	assert.Equal(t, "0.2", ife.Balance)
	assert.Equal(t, "-0.3", ife.Delta)
}

func TestApplyCreditDelta_corruptBalance(t *testing.T) {
	_, err := applyCreditDelta(1, "not-a-number", decimal.Zero)
	require.Error(t, err)
	assert.False(t, IsInsufficientFunds(err))
}

func TestShouldDropOffers(t *testing.T) {
	tests := []struct {
		name     string
		holdings int64
		reserved int64
		want     bool
	}{
		{name: "spare copies remain", holdings: 2, reserved: 1, want: false},
		{name: "saturated is still legal", holdings: 1, reserved: 1, want: false},
		{name: "over-reserved after removal", holdings: 0, reserved: 1, want: true},
		{name: "nothing reserved", holdings: 0, reserved: 0, want: false},
		{name: "deeply over-reserved", holdings: 1, reserved: 3, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldDropOffers(tt.holdings, tt.reserved))
		})
	}
}
