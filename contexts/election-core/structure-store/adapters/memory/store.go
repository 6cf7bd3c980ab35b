package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"chainvotes/contexts/election-core/structure-store/domain/entities"
	domainerrors "chainvotes/contexts/election-core/structure-store/domain/errors"
	"chainvotes/contexts/election-core/structure-store/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type positionKey struct {
	campaignID uint64
	positionID uint64
}

// Store keeps the structure arenas in memory. Campaign ids are slice
// positions shifted by one, so ids are sequential from 1 and never reused;
// the same holds for position and candidate ids within their parents.
type Store struct {
	mu sync.RWMutex

	campaigns  []entities.Campaign
	positions  map[uint64][]entities.Position
	candidates map[positionKey][]entities.Candidate
	outbox     map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		positions:  make(map[uint64][]entities.Position),
		candidates: make(map[positionKey][]entities.Candidate),
		outbox:     make(map[string]outboxRecord),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign.CampaignID = uint64(len(s.campaigns)) + 1
	campaign.PositionIDs = nil
	s.campaigns = append(s.campaigns, campaign)
	return campaign.CampaignID, nil
}

func (s *Store) UpdateCampaignStatus(_ context.Context, campaignID uint64, isActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if campaignID == 0 || campaignID > uint64(len(s.campaigns)) {
		return domainerrors.ErrCampaignNotFound
	}
	s.campaigns[campaignID-1].IsActive = isActive
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID uint64) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getCampaignLocked(campaignID)
}

func (s *Store) CampaignCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.campaigns), nil
}

func (s *Store) CampaignIDAt(_ context.Context, index int) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.campaigns) {
		return 0, domainerrors.ErrCampaignNotFound
	}
	return s.campaigns[index].CampaignID, nil
}

func (s *Store) ListCampaigns(_ context.Context) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		item, err := s.getCampaignLocked(campaign.CampaignID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) AddPosition(_ context.Context, position entities.Position) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position.CampaignID == 0 || position.CampaignID > uint64(len(s.campaigns)) {
		return 0, domainerrors.ErrCampaignNotFound
	}
	position.PositionID = uint64(len(s.positions[position.CampaignID])) + 1
	position.CandidateIDs = nil
	s.positions[position.CampaignID] = append(s.positions[position.CampaignID], position)
	return position.PositionID, nil
}

func (s *Store) GetPosition(_ context.Context, campaignID uint64, positionID uint64) (entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPositionLocked(campaignID, positionID)
}

func (s *Store) AddCandidate(_ context.Context, candidate entities.Candidate) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getPositionLocked(candidate.CampaignID, candidate.PositionID); err != nil {
		return 0, err
	}
	key := positionKey{campaignID: candidate.CampaignID, positionID: candidate.PositionID}
	candidate.CandidateID = uint64(len(s.candidates[key])) + 1
	candidate.VoteCount = 0
	s.candidates[key] = append(s.candidates[key], candidate)
	return candidate.CandidateID, nil
}

func (s *Store) GetCandidate(
	_ context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := positionKey{campaignID: campaignID, positionID: positionID}
	items := s.candidates[key]
	if candidateID == 0 || candidateID > uint64(len(items)) {
		if _, err := s.getPositionLocked(campaignID, positionID); err != nil {
			return entities.Candidate{}, err
		}
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return items[candidateID-1], nil
}

// ApplyVoteTally increments the candidate's vote count and the campaign's
// voter count in one step. The vote-ledger calls it exactly once per
// accepted ballot while holding its own ledger lock, so tallies stay
// consistent with participation records.
func (s *Store) ApplyVoteTally(
	_ context.Context,
	campaignID uint64,
	positionID uint64,
	candidateID uint64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if campaignID == 0 || campaignID > uint64(len(s.campaigns)) {
		return domainerrors.ErrCampaignNotFound
	}
	key := positionKey{campaignID: campaignID, positionID: positionID}
	items := s.candidates[key]
	if candidateID == 0 || candidateID > uint64(len(items)) {
		return domainerrors.ErrCandidateNotFound
	}
	items[candidateID-1].VoteCount++
	s.campaigns[campaignID-1].VoterCount++
	return nil
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

func (s *Store) getCampaignLocked(campaignID uint64) (entities.Campaign, error) {
	if campaignID == 0 || campaignID > uint64(len(s.campaigns)) {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	campaign := s.campaigns[campaignID-1]
	positions := s.positions[campaignID]
	campaign.PositionIDs = make([]uint64, 0, len(positions))
	for _, position := range positions {
		campaign.PositionIDs = append(campaign.PositionIDs, position.PositionID)
	}
	return campaign, nil
}

func (s *Store) getPositionLocked(campaignID uint64, positionID uint64) (entities.Position, error) {
	if campaignID == 0 || campaignID > uint64(len(s.campaigns)) {
		return entities.Position{}, domainerrors.ErrCampaignNotFound
	}
	items := s.positions[campaignID]
	if positionID == 0 || positionID > uint64(len(items)) {
		return entities.Position{}, domainerrors.ErrPositionNotFound
	}
	position := items[positionID-1]
	key := positionKey{campaignID: campaignID, positionID: positionID}
	candidates := s.candidates[key]
	position.CandidateIDs = make([]uint64, 0, len(candidates))
	for _, candidate := range candidates {
		position.CandidateIDs = append(position.CandidateIDs, candidate.CandidateID)
	}
	return position, nil
}
