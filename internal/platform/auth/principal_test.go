package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
)

func TestValidRole(t *testing.T) {
	for role, want := range map[string]bool{"patient": true, "doctor": true, "admin": false, "": false, "Doctor": false} {
		if got := ValidRole(role); got != want {
			t.Errorf("ValidRole(%q) = %v, want %v", role, got, want)
		}
	}
}

func TestPrincipal_Require(t *testing.T) {
	if err := (Principal{}).Require(RolePatient); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated, got %v", err)
	}
	p := Principal{ID: uuid.New(), Handle: "alice", Role: RolePatient}
	if err := p.Require(RolePatient); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Require(RoleDoctor); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestPrincipalFromContext(t *testing.T) {
	if p := PrincipalFromContext(context.Background()); p.Authenticated() {
		t.Error("expected anonymous principal on empty context")
	}
	want := Principal{ID: uuid.New(), Handle: "alice", Role: RolePatient}
	if got := PrincipalFromContext(WithPrincipal(context.Background(), want)); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestClaimsFromContext(t *testing.T) {
	if ClaimsFromContext(context.Background()) != nil {
		t.Error("expected nil claims on empty context")
	}
	c := &Claims{Handle: "alice"}
	if ClaimsFromContext(withClaims(context.Background(), c)) != c {
		t.Error("expected stored claims")
	}
}
