package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
)

// fakeTx satisfies pgx.Tx through the embedded interface; only identity matters here.
type fakeTx struct {
	pgx.Tx
}

func TestTxFromContext_Empty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected no transaction, got %v", tx)
	}
}

func TestWithTx_RoundTrip(t *testing.T) {
	tx := &fakeTx{}
	ctx := WithTx(context.Background(), tx)
	if got := TxFromContext(ctx); got != tx {
		t.Errorf("expected stored transaction, got %v", got)
	}
}

func TestConn_PrefersTransaction(t *testing.T) {
	tx := &fakeTx{}
	ctx := WithTx(context.Background(), tx)
	if got := Conn(ctx, nil); got != Querier(tx) {
		t.Errorf("expected transaction to be returned, got %v", got)
	}
}

func TestConn_Fallback(t *testing.T) {
	fallback := &fakeTx{}
	if got := Conn(context.Background(), fallback); got != Querier(fallback) {
		t.Errorf("expected fallback to be returned, got %v", got)
	}
}

func TestWithinTx_ReusesActiveTransaction(t *testing.T) {
	tx := &fakeTx{}
	ctx := WithTx(context.Background(), tx)

	// A nil pool would panic on Begin, so reaching fn proves the nested path.
	m := NewTxManager(nil)
	called := false
	err := m.WithinTx(ctx, func(inner context.Context) error {
		called = true
		if TxFromContext(inner) != tx {
			t.Error("expected the outer transaction inside fn")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected fn to be called")
	}
}
