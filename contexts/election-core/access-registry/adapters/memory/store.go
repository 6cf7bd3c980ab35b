package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "chainvotes/contexts/election-core/access-registry/domain/errors"
	"chainvotes/contexts/election-core/access-registry/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type Store struct {
	mu sync.RWMutex

	owner  string
	admins map[string]ports.Admin
	outbox map[string]outboxRecord
}

// NewStore seeds the store with the owner, which is permanently an admin.
func NewStore(owner string) *Store {
	owner = normalize(owner)
	admins := make(map[string]ports.Admin)
	if owner != "" {
		admins[owner] = ports.Admin{
			Identity:  owner,
			IsOwner:   true,
			GrantedAt: time.Now().UTC(),
		}
	}
	return &Store{
		owner:  owner,
		admins: admins,
		outbox: make(map[string]outboxRecord),
	}
}

func (s *Store) Owner(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner, nil
}

func (s *Store) IsAdmin(_ context.Context, identity string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[normalize(identity)]
	return ok, nil
}

func (s *Store) PutAdmin(_ context.Context, admin ports.Admin) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := normalize(admin.Identity)
	if _, exists := s.admins[identity]; exists {
		return false, nil
	}
	s.admins[identity] = ports.Admin{
		Identity:  identity,
		IsOwner:   identity == s.owner,
		GrantedBy: normalize(admin.GrantedBy),
		GrantedAt: admin.GrantedAt.UTC(),
	}
	return true, nil
}

func (s *Store) DeleteAdmin(_ context.Context, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity = normalize(identity)
	if identity == s.owner {
		return false, domainerrors.ErrCannotRemoveOwner
	}
	if _, exists := s.admins[identity]; !exists {
		return false, nil
	}
	delete(s.admins, identity)
	return true, nil
}

func (s *Store) ListAdmins(_ context.Context) ([]ports.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Admin, 0, len(s.admins))
	for _, admin := range s.admins {
		items = append(items, admin)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].GrantedAt.Equal(items[j].GrantedAt) {
			return items[i].Identity < items[j].Identity
		}
		return items[i].GrantedAt.Before(items[j].GrantedAt)
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrOutboxConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrOutboxConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func normalize(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}
