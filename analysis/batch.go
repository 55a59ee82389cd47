package analysis

import (
	"context"
	"time"

	"github.com/lciaqsar/qsarstats/core/parallel"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/uncertainty"
)

// PODResult is the POD distribution of one key, or the error that prevented
// it.
type PODResult struct {
	Key   modelkey.Key
	Table uncertainty.CDFTable
	Err   error
}

// MOEResult is the MOE distributions of one key, or the error that
// prevented them.
type MOEResult struct {
	Key    modelkey.Key
	Tables []PercentileCDF
	Err    error
}

// BatchPOD runs PODAndPredictionInterval for every key with at most workers
// keys in flight (one per CPU when workers <= 0). Results follow the order
// of keys. A failing key records an ItemError and never stops its siblings.
func (a *Analyzer) BatchPOD(ctx context.Context, keys []modelkey.Key, workers int, opts IntervalOptions) []PODResult {
	out := make([]PODResult, len(keys))
	start := time.Now()
	errs := parallel.ForEach(ctx, len(keys), workers, func(ctx context.Context, i int) error {
		table, err := a.PODAndPredictionInterval(ctx, keys[i], opts)
		out[i].Table = table
		return err
	})
	a.finishBatch(log.OperationPOD, keys, errs, start, func(i int, key modelkey.Key, err error) {
		out[i].Key = key
		out[i].Err = err
	})
	return out
}

// BatchMOE runs MOEAndPredictionIntervals for every key, like BatchPOD.
func (a *Analyzer) BatchMOE(ctx context.Context, keys []modelkey.Key, workers int, opts IntervalOptions) []MOEResult {
	out := make([]MOEResult, len(keys))
	start := time.Now()
	errs := parallel.ForEach(ctx, len(keys), workers, func(ctx context.Context, i int) error {
		tables, err := a.MOEAndPredictionIntervals(ctx, keys[i], opts)
		out[i].Tables = tables
		return err
	})
	a.finishBatch(log.OperationMOE, keys, errs, start, func(i int, key modelkey.Key, err error) {
		out[i].Key = key
		out[i].Err = err
	})
	return out
}

func (a *Analyzer) finishBatch(operation string, keys []modelkey.Key, errs []error, start time.Time, set func(i int, key modelkey.Key, err error)) {
	failed := 0
	for i, key := range keys {
		var itemErr error
		if errs[i] != nil {
			failed++
			itemErr = &errors.ItemError{Item: key.String(), Err: errs[i]}
			a.keyLogger(key, operation).Warn("batch item failed", "error", errs[i])
		}
		set(i, key.Clone(), itemErr)
	}
	a.logger.Info("batch finished",
		log.OperationKey, operation,
		log.ModelCountKey, len(keys),
		"failed", failed,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
}
