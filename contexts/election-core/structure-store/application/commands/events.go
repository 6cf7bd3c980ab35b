package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"chainvotes/contexts/election-core/structure-store/ports"
)

func newStructureEnvelope(
	eventID string,
	eventType string,
	campaignID uint64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Structure events are partitioned by campaign for stable ordering on
	// campaign-scoped consumers (indexers, result pages).
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "structure-store",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "campaign_id",
		PartitionKey:     strconv.FormatUint(campaignID, 10),
		Data:             payload,
	}, nil
}
