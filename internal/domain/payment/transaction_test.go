package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCharge(t *testing.T) {
	t.Run("creates a positive paid entry", func(t *testing.T) {
		txn, err := NewCharge(uuid.New(), uuid.New(), decimal.NewFromFloat(54.30), "card")
		require.NoError(t, err)

		assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(54.30)))
		assert.Equal(t, TransactionStatusPaid, txn.Status)
		assert.False(t, txn.IsRefund())
		assert.False(t, txn.TxnAt.IsZero())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewCharge(uuid.New(), uuid.New(), decimal.Zero, "card")
		require.Error(t, err)
	})

	t.Run("rejects missing method", func(t *testing.T) {
		_, err := NewCharge(uuid.New(), uuid.New(), decimal.NewFromInt(10), "  ")
		require.Error(t, err)
	})
}

func TestNewRefund(t *testing.T) {
	t.Run("stores the negated amount with refunded status", func(t *testing.T) {
		txn, err := NewRefund(uuid.New(), uuid.New(), decimal.NewFromInt(60), "card", "damaged")
		require.NoError(t, err)

		assert.True(t, txn.Amount.Equal(decimal.NewFromInt(-60)))
		assert.Equal(t, TransactionStatusRefunded, txn.Status)
		assert.True(t, txn.IsRefund())
		assert.True(t, txn.AbsoluteAmount().Equal(decimal.NewFromInt(60)))
	})

	t.Run("records reason and timestamp in the gateway response", func(t *testing.T) {
		txn, err := NewRefund(uuid.New(), uuid.New(), decimal.NewFromInt(25), "upi", "spoiled produce")
		require.NoError(t, err)

		assert.Equal(t, "spoiled produce", txn.RefundReason())
		assert.Contains(t, txn.GatewayResponse, "refunded_at")
	})

	t.Run("rejects blank reason", func(t *testing.T) {
		_, err := NewRefund(uuid.New(), uuid.New(), decimal.NewFromInt(10), "card", "")
		require.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewRefund(uuid.New(), uuid.New(), decimal.NewFromInt(-5), "card", "oops")
		require.Error(t, err)
	})
}
