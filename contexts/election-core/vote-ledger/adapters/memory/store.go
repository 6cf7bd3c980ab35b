package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"chainvotes/contexts/election-core/vote-ledger/domain/entities"
	domainerrors "chainvotes/contexts/election-core/vote-ledger/domain/errors"
	"chainvotes/contexts/election-core/vote-ledger/ports"

	"github.com/google/uuid"
)

type participationKey struct {
	campaignID uint64
	voter      string
}

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store keeps ballots and participation in memory. AppendBallot applies the
// structure tally under the store's lock, so ballot, participation and tally
// move together or not at all.
type Store struct {
	mu sync.RWMutex

	ballots       map[uint64][]entities.Ballot
	participation map[participationKey]entities.Participation
	outbox        map[string]outboxRecord
	tally         ports.TallyMutator
}

// NewStore wires the ledger store against the tally mutator of the structure
// store. A nil mutator is allowed for ledger-only tests.
func NewStore(tally ports.TallyMutator) *Store {
	return &Store{
		ballots:       make(map[uint64][]entities.Ballot),
		participation: make(map[participationKey]entities.Participation),
		outbox:        make(map[string]outboxRecord),
		tally:         tally,
	}
}

func (s *Store) HasVoted(_ context.Context, campaignID uint64, voter string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.participation[participationKey{campaignID: campaignID, voter: normalize(voter)}]
	return ok, nil
}

func (s *Store) AppendBallot(ctx context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voter := normalize(ballot.Voter)
	key := participationKey{campaignID: ballot.CampaignID, voter: voter}
	if _, ok := s.participation[key]; ok {
		return domainerrors.ErrAlreadyVoted
	}

	if s.tally != nil {
		if err := s.tally.ApplyVoteTally(ctx, ballot.CampaignID, ballot.PositionID, ballot.CandidateID); err != nil {
			return err
		}
	}

	ballot.Voter = voter
	ballot.CastAt = ballot.CastAt.UTC()
	s.ballots[ballot.CampaignID] = append(s.ballots[ballot.CampaignID], ballot)
	s.participation[key] = entities.Participation{
		CampaignID: ballot.CampaignID,
		Voter:      voter,
		VotedAt:    ballot.CastAt,
	}
	return nil
}

func (s *Store) GetParticipation(
	_ context.Context,
	campaignID uint64,
	voter string,
) (entities.Participation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.participation[participationKey{campaignID: campaignID, voter: normalize(voter)}]
	return record, ok, nil
}

func (s *Store) ListBallotsByCampaign(_ context.Context, campaignID uint64) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Ballot, len(s.ballots[campaignID]))
	copy(items, s.ballots[campaignID])
	return items, nil
}

func (s *Store) CountBallotsByCampaign(_ context.Context, campaignID uint64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ballots[campaignID]), nil
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
