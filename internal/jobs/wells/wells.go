package wells

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	wellsEntity "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/entities/wells"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/services/datasets"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/ws"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb"
	v2oss "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/influxdb/v2-oss"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
)

const TypeWellsSync = "wells:sync"

// HandleWellsSync writes a well metadata point. The latest point per
// well_number is the current record, so an upsert is just an append.
func HandleWellsSync(ctx context.Context, t *asynq.Task) error {
	log := logger.WithScope(TypeWellsSync)

	var req wellsEntity.UpsertRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal payload")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	dataset, err := datasets.Resolve(req.Dataset)
	if err != nil {
		log.Error().Err(err).Str("dataset", req.Dataset).Msg("Unknown dataset in well sync")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	well := wellsEntity.FromUpsertRequest(&req, time.Now().UTC())

	client, ok := influxdb.GetCurrentClient().(*v2oss.Client)
	if !ok || client == nil {
		return fmt.Errorf("influxdb v2-oss client not initialized")
	}
	if err := client.WritePointsToBucket(dataset.Bucket, []interface{}{well.ToPoint()}); err != nil {
		return err
	}

	ws.Broadcast(ws.Event{
		Type:    ws.EventWellUpdated,
		Dataset: dataset.ID,
		Well:    well.WellNumber,
	})

	log.Info().
		Str("task_id", t.ResultWriter().TaskID()).
		Str("task_type", t.Type()).
		Str("dataset", dataset.ID).
		Str("well_number", well.WellNumber).
		Str("measurements", well.GetName()).
		Msg("Job completed successfully")

	return nil
}
