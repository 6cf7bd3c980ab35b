package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"chainvotes/contexts/election-core/vote-ledger/ports"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	campaignID uint64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Ballot events are partitioned by campaign so result consumers see the
	// ballots of one campaign in cast order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "vote-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "campaign_id",
		PartitionKey:     strconv.FormatUint(campaignID, 10),
		Data:             payload,
	}, nil
}
