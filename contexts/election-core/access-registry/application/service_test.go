package application_test

import (
	"context"
	"errors"
	"testing"

	accessregistry "chainvotes/contexts/election-core/access-registry"
	domainerrors "chainvotes/contexts/election-core/access-registry/domain/errors"
)

func TestOwnerGrantsAndRevokesAdmin(t *testing.T) {
	module := accessregistry.NewInMemoryModule("Owner@Example.com", nil)
	ctx := context.Background()

	if err := module.Service.AddAdmin(ctx, "owner@example.com", "Alice@Example.com"); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}
	isAdmin, err := module.Service.IsAdmin(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("is admin failed: %v", err)
	}
	if !isAdmin {
		t.Fatalf("expected alice to be admin")
	}

	// Grant is idempotent.
	if err := module.Service.AddAdmin(ctx, "owner@example.com", "ALICE@example.com"); err != nil {
		t.Fatalf("repeat add admin failed: %v", err)
	}

	if err := module.Service.RemoveAdmin(ctx, "owner@example.com", "alice@example.com"); err != nil {
		t.Fatalf("remove admin failed: %v", err)
	}
	isAdmin, err = module.Service.IsAdmin(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("is admin after removal failed: %v", err)
	}
	if isAdmin {
		t.Fatalf("expected alice to lose admin rights")
	}
}

func TestNonOwnerCannotMutateAdminSet(t *testing.T) {
	module := accessregistry.NewInMemoryModule("owner@example.com", nil)
	ctx := context.Background()

	if err := module.Service.AddAdmin(ctx, "owner@example.com", "alice@example.com"); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}

	// Admins are not owners; mutations stay owner-only.
	err := module.Service.AddAdmin(ctx, "alice@example.com", "bob@example.com")
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	err = module.Service.RemoveAdmin(ctx, "alice@example.com", "alice@example.com")
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestOwnerCannotBeRemoved(t *testing.T) {
	module := accessregistry.NewInMemoryModule("owner@example.com", nil)
	ctx := context.Background()

	err := module.Service.RemoveAdmin(ctx, "owner@example.com", "OWNER@example.com")
	if !errors.Is(err, domainerrors.ErrCannotRemoveOwner) {
		t.Fatalf("expected cannot-remove-owner, got %v", err)
	}
	isAdmin, err := module.Service.IsAdmin(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("is admin failed: %v", err)
	}
	if !isAdmin {
		t.Fatalf("owner must stay in the admin set")
	}
}

func TestRemoveAbsentAdminIsNoOp(t *testing.T) {
	module := accessregistry.NewInMemoryModule("owner@example.com", nil)

	if err := module.Service.RemoveAdmin(context.Background(), "owner@example.com", "ghost@example.com"); err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
}

func TestBlankIdentityIsNeverAdmin(t *testing.T) {
	module := accessregistry.NewInMemoryModule("owner@example.com", nil)

	isAdmin, err := module.Service.IsAdmin(context.Background(), "   ")
	if err != nil {
		t.Fatalf("is admin failed: %v", err)
	}
	if isAdmin {
		t.Fatalf("blank identity must not be admin")
	}

	err = module.Service.AddAdmin(context.Background(), "owner@example.com", "  ")
	if !errors.Is(err, domainerrors.ErrInvalidIdentity) {
		t.Fatalf("expected invalid identity, got %v", err)
	}
}

func TestAdminEventsReachOutbox(t *testing.T) {
	module := accessregistry.NewInMemoryModule("owner@example.com", nil)
	ctx := context.Background()

	if err := module.Service.AddAdmin(ctx, "owner@example.com", "alice@example.com"); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}
	if err := module.Service.RemoveAdmin(ctx, "owner@example.com", "alice@example.com"); err != nil {
		t.Fatalf("remove admin failed: %v", err)
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 outbox rows, got %d", len(pending))
	}
	types := map[string]bool{}
	for _, row := range pending {
		types[row.EventType] = true
	}
	if !types["admin.added"] || !types["admin.removed"] {
		t.Fatalf("expected admin.added and admin.removed, got %v", types)
	}
}
