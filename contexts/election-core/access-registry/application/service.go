package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "chainvotes/contexts/election-core/access-registry/domain/errors"
	"chainvotes/contexts/election-core/access-registry/ports"

	"github.com/google/uuid"
)

// Service orchestrates admin set mutations. Grants and revocations are
// owner-only; the owner identity itself is permanent.
type Service struct {
	Admins ports.AdminRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (s Service) AddAdmin(ctx context.Context, caller string, identity string) error {
	logger := ResolveLogger(s.Logger)
	caller = NormalizeIdentity(caller)
	identity = NormalizeIdentity(identity)
	if caller == "" || identity == "" {
		return domainerrors.ErrInvalidIdentity
	}

	if err := s.requireOwner(ctx, caller); err != nil {
		logger.Warn("admin grant rejected",
			"event", "access_admin_grant_unauthorized",
			"module", "election-core/access-registry",
			"layer", "application",
			"caller", caller,
			"identity", identity,
		)
		return err
	}

	now := s.now()
	added, err := s.Admins.PutAdmin(ctx, ports.Admin{
		Identity:  identity,
		GrantedBy: caller,
		GrantedAt: now,
	})
	if err != nil {
		return err
	}
	if !added {
		// Granting an existing admin is a no-op that still succeeds.
		return nil
	}

	if err := s.appendAdminEvent(ctx, "admin.added", identity, caller, now); err != nil {
		return err
	}
	logger.Info("admin added",
		"event", "access_admin_added",
		"module", "election-core/access-registry",
		"layer", "application",
		"identity", identity,
		"granted_by", caller,
	)
	return nil
}

func (s Service) RemoveAdmin(ctx context.Context, caller string, identity string) error {
	logger := ResolveLogger(s.Logger)
	caller = NormalizeIdentity(caller)
	identity = NormalizeIdentity(identity)
	if caller == "" || identity == "" {
		return domainerrors.ErrInvalidIdentity
	}

	if err := s.requireOwner(ctx, caller); err != nil {
		logger.Warn("admin revoke rejected",
			"event", "access_admin_revoke_unauthorized",
			"module", "election-core/access-registry",
			"layer", "application",
			"caller", caller,
			"identity", identity,
		)
		return err
	}

	owner, err := s.Admins.Owner(ctx)
	if err != nil {
		return err
	}
	if identity == NormalizeIdentity(owner) {
		return domainerrors.ErrCannotRemoveOwner
	}

	now := s.now()
	removed, err := s.Admins.DeleteAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	if err := s.appendAdminEvent(ctx, "admin.removed", identity, caller, now); err != nil {
		return err
	}
	logger.Info("admin removed",
		"event", "access_admin_removed",
		"module", "election-core/access-registry",
		"layer", "application",
		"identity", identity,
		"revoked_by", caller,
	)
	return nil
}

// IsAdmin is a pure query; blank identities are simply not admins.
func (s Service) IsAdmin(ctx context.Context, identity string) (bool, error) {
	identity = NormalizeIdentity(identity)
	if identity == "" {
		return false, nil
	}
	return s.Admins.IsAdmin(ctx, identity)
}

func (s Service) Owner(ctx context.Context) (string, error) {
	return s.Admins.Owner(ctx)
}

func (s Service) ListAdmins(ctx context.Context) ([]ports.Admin, error) {
	return s.Admins.ListAdmins(ctx)
}

func (s Service) requireOwner(ctx context.Context, caller string) error {
	owner, err := s.Admins.Owner(ctx)
	if err != nil {
		return err
	}
	if caller != NormalizeIdentity(owner) {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) appendAdminEvent(
	ctx context.Context,
	eventType string,
	identity string,
	actor string,
	occurredAt time.Time,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.newEventID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"identity":    identity,
		"actor":       actor,
		"occurred_at": occurredAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt,
		SourceService:    "access-registry",
		SchemaVersion:    1,
		PartitionKeyPath: "identity",
		PartitionKey:     identity,
		Data:             data,
	})
}

func (s Service) newEventID(ctx context.Context) (string, error) {
	if s.IDGen == nil {
		return uuid.NewString(), nil
	}
	return s.IDGen.NewID(ctx)
}

// NormalizeIdentity canonicalizes caller identities. Identities are treated
// case-insensitively so hex wallet addresses compare equal regardless of
// checksum casing.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}
