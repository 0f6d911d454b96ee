package readings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	readingsEntity "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/readings"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/timeseries"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/ws"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
	v2oss "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb/v2-oss"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
)

const TypeReadingsImport = "readings:import"

// HandleReadingsImport writes one import batch to the dataset's bucket,
// drops the affected available-range cache entry, and notifies live clients.
func HandleReadingsImport(ctx context.Context, t *asynq.Task) error {
	log := logger.WithScope(TypeReadingsImport)

	var req readingsEntity.ImportRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal payload")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	dataset, err := datasets.Resolve(req.Dataset)
	if err != nil {
		// Retrying cannot make an unknown dataset appear.
		log.Error().Err(err).Str("dataset", req.Dataset).Msg("Unknown dataset in import batch")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	points, skipped := req.ToPoints()
	if skipped > 0 {
		log.Warn().
			Int("skipped", skipped).
			Str("well_number", req.WellNumber).
			Msg("Rows without timestamps dropped from import batch")
	}
	if len(points) == 0 {
		log.Warn().Str("well_number", req.WellNumber).Msg("Import batch had no storable rows")
		return nil
	}

	client, ok := influxdb.GetCurrentClient().(*v2oss.Client)
	if !ok || client == nil {
		return fmt.Errorf("influxdb v2-oss client not initialized")
	}
	if err := client.WritePointsToBucket(dataset.Bucket, points); err != nil {
		return err
	}

	// New points may extend the well's coverage, so the cached range is stale.
	timeseries.InvalidateAvailableRange(dataset.ID, req.WellNumber, req.Series)

	ws.Broadcast(ws.Event{
		Type:    ws.EventReadingBatch,
		Dataset: dataset.ID,
		Well:    req.WellNumber,
		Data: map[string]interface{}{
			"series":   req.Series,
			"count":    len(points),
			"batch_id": req.BatchID,
		},
	})

	log.Info().
		Str("task_id", t.ResultWriter().TaskID()).
		Str("task_type", t.Type()).
		Str("dataset", dataset.ID).
		Str("well_number", req.WellNumber).
		Int("points", len(points)).
		Msg("Job completed successfully")

	return nil
}
