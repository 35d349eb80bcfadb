package payment

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"frangapp/internal/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

var testRequest = ChargeRequest{
	AmountMinor:    999,
	Currency:       "USD",
	Description:    "10 credits for Demo",
	Source:         "tok_visa",
	IdempotencyKey: "tx-1",
}

func TestStripeGateway_Charge(t *testing.T) {
	var gotKey string
	var gotParams *stripe.ChargeParams
	gw := newStripeGateway(settings.Static{settings.KeyStripeSecretKey: "sk_from_settings"}, StripeConfig{},
		func(key string, params *stripe.ChargeParams) (*stripe.Charge, error) {
			gotKey, gotParams = key, params
			return &stripe.Charge{ID: "ch_123", Amount: 999, Currency: "usd"}, nil
		})

	ch, err := gw.Charge(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, "ch_123", ch.ID)
	assert.Equal(t, "sk_from_settings", gotKey)
	assert.Equal(t, int64(999), *gotParams.Amount)
	assert.Equal(t, "usd", *gotParams.Currency)
	assert.Equal(t, "10 credits for Demo", *gotParams.Description)
	require.NotNil(t, gotParams.IdempotencyKey)
	assert.Equal(t, "tx-1", *gotParams.IdempotencyKey)

	_, hasDeadline := gotParams.Context.Deadline()
	assert.True(t, hasDeadline)
}

func TestStripeGateway_SecretKeyOverride(t *testing.T) {
	var gotKey string
	gw := newStripeGateway(settings.Static{settings.KeyStripeSecretKey: "sk_settings"}, StripeConfig{SecretKey: "sk_env"},
		func(key string, _ *stripe.ChargeParams) (*stripe.Charge, error) {
			gotKey = key
			return &stripe.Charge{ID: "ch_1"}, nil
		})

	_, err := gw.Charge(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, "sk_env", gotKey)
}

func TestStripeGateway_NotConfigured(t *testing.T) {
	var calls int32
	gw := newStripeGateway(settings.Static{}, StripeConfig{},
		func(string, *stripe.ChargeParams) (*stripe.Charge, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		})

	_, err := gw.Charge(context.Background(), testRequest)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindInvalidRequest, perr.Kind)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestStripeGateway_ErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantCode string
	}{
		{
			name: "card declined",
			err: &stripe.Error{
				Type:        stripe.ErrorTypeCard,
				Code:        stripe.ErrorCode("card_declined"),
				DeclineCode: stripe.DeclineCode("insufficient_funds"),
				Msg:         "Your card has insufficient funds.",
			},
			wantKind: KindDeclined,
			wantCode: "insufficient_funds",
		},
		{
			name:     "invalid request",
			err:      &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, Code: stripe.ErrorCode("resource_missing"), Msg: "No such token"},
			wantKind: KindInvalidRequest,
			wantCode: "resource_missing",
		},
		{
			name:     "idempotency conflict",
			err:      &stripe.Error{Type: stripe.ErrorTypeIdempotency, Msg: "Keys for idempotent requests can only be used with the same parameters"},
			wantKind: KindInvalidRequest,
		},
		{
			name:     "api error",
			err:      &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "Something went wrong"},
			wantKind: KindNetwork,
		},
		{
			name:     "transport",
			err:      errors.New("dial tcp: connection refused"),
			wantKind: KindNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newStripeGateway(nil, StripeConfig{SecretKey: "sk"},
				func(string, *stripe.ChargeParams) (*stripe.Charge, error) {
					return nil, tt.err
				})

			ch, err := gw.Charge(context.Background(), testRequest)

			assert.Nil(t, ch)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantKind, perr.Kind)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, perr.Code)
			}
		})
	}
}

func TestStripeGateway_Timeout(t *testing.T) {
	gw := newStripeGateway(nil, StripeConfig{SecretKey: "sk", Timeout: 20 * time.Millisecond},
		func(_ string, params *stripe.ChargeParams) (*stripe.Charge, error) {
			<-params.Context.Done()
			return nil, params.Context.Err()
		})

	_, err := gw.Charge(context.Background(), testRequest)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindNetwork, perr.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStripeGateway_CircuitOpensOnNetworkErrors(t *testing.T) {
	var calls int32
	gw := newStripeGateway(nil, StripeConfig{SecretKey: "sk", FailureThreshold: 2, FailureWindow: 2, OpenDelay: time.Minute},
		func(string, *stripe.ChargeParams) (*stripe.Charge, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("connection reset by peer")
		})

	for i := 0; i < 2; i++ {
		_, err := gw.Charge(context.Background(), testRequest)
		require.Error(t, err)
	}
	require.True(t, gw.CircuitOpen())

	_, err := gw.Charge(context.Background(), testRequest)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindNetwork, perr.Kind)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open circuit must not contact the gateway")
}

func TestStripeGateway_DeclinesDoNotOpenCircuit(t *testing.T) {
	var calls int32
	gw := newStripeGateway(nil, StripeConfig{SecretKey: "sk", FailureThreshold: 2, FailureWindow: 2},
		func(string, *stripe.ChargeParams) (*stripe.Charge, error) {
			atomic.AddInt32(&calls, 1)
			return nil, &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "declined"}
		})

	for i := 0; i < 5; i++ {
		_, err := gw.Charge(context.Background(), testRequest)
		require.Error(t, err)
	}

	assert.False(t, gw.CircuitOpen())
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}
