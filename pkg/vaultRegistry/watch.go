package vaultRegistry

import (
	"context"
	"fmt"
)

// watch consumes confirmed heights until the subscription closes or a batch
// fails. Processing errors are unrecoverable: the loop exits with the error
// as the registry's fault and the cursor stays at the last applied height.
func (r *Registry) watch(ctx context.Context, heights <-chan uint64) error {
	r.logger.Sugar().Infow("Starting watch loop")

	for {
		select {
		case <-ctx.Done():
			r.logger.Sugar().Infow("Watch loop context cancelled, stopping")
			return nil
		case height, ok := <-heights:
			if !ok {
				r.logger.Sugar().Infow("Height subscription closed, stopping")
				return nil
			}
			if err := r.processHeight(ctx, height); err != nil {
				r.logger.Sugar().Errorw("Watch loop stopping on unrecoverable error",
					"height", height,
					"error", err,
				)
				return err
			}
		}
	}
}

// processHeight drains the range from the cursor through height and applies
// it as one batch: fetch, decode, apply to a clone, swap. The cursor
// advances to height even when the range held no events.
func (r *Registry) processHeight(ctx context.Context, height uint64) error {
	r.mu.RLock()
	address := r.address
	next := r.state.clone()
	r.mu.RUnlock()

	if height <= next.lastProcessedBlock {
		r.logger.Sugar().Debugw("Skipping already-processed height",
			"height", height,
			"lastProcessedBlock", next.lastProcessedBlock,
		)
		return nil
	}

	logs, err := r.source.FetchLogs(ctx, address, next.lastProcessedBlock+1, height)
	if err != nil {
		return fmt.Errorf("fetch logs through height %d: %w", height, err)
	}
	events, err := r.source.DecodeLogs(logs)
	if err != nil {
		return fmt.Errorf("decode logs through height %d: %w", height, err)
	}

	for _, ev := range events {
		if err := r.applier.Apply(ctx, next, ev); err != nil {
			return fmt.Errorf("apply event at block %d: %w", ev.BlockNumber(), err)
		}
	}
	next.lastProcessedBlock = height

	r.mu.Lock()
	r.state = next
	r.mu.Unlock()

	if len(events) > 0 {
		r.logger.Sugar().Infow("Applied confirmed events",
			"height", height,
			"events", len(events),
		)
	} else {
		r.logger.Sugar().Debugw("No new events, cursor advanced",
			"height", height,
		)
	}
	return nil
}
