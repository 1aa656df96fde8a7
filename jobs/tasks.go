package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/aurumworks/aurum/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePriceRefresh is the task type for the metal spot price pull.
	TaskTypePriceRefresh = "pricefeed:refresh"
)

// PriceRefreshPayload carries the reason a refresh was queued, for the worker
// log.
type PriceRefreshPayload struct {
	Trigger string `json:"trigger"`
}

// NewPriceRefreshTask constructs the price refresh task.
func NewPriceRefreshTask(payload PriceRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePriceRefresh, data), nil
}

// PriceRefresher is the slice of the price feed service the worker needs.
type PriceRefresher interface {
	Refresh(ctx context.Context) error
}

// NewPriceRefreshHandler adapts the price feed service to an Asynq handler.
func NewPriceRefreshHandler(refresher PriceRefresher, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PriceRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskTypePriceRefresh)
		return tracker.End(refresher.Refresh(ctx))
	}
}
