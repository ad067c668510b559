package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// PopulateResult summarizes a replay.
type PopulateResult struct {
	Posted int
	Failed int
}

// ReadEvents decodes a JSON array of events without interpreting them.
func ReadEvents(r io.Reader) ([]json.RawMessage, error) {
	var events []json.RawMessage
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding events file: %w", err)
	}
	return events, nil
}

// Populate posts events one at a time, in order. A rejected event is logged
// and counted; it does not stop the replay. Only context cancellation does.
func (c *HTTPClient) Populate(ctx context.Context, events []json.RawMessage, logger *slog.Logger) (PopulateResult, error) {
	var res PopulateResult
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		resp, err := c.PostEvent(ctx, ev)
		if err != nil {
			res.Failed++
			logger.Warn("event not posted", "index", i, "err", err)
			continue
		}
		res.Posted++
		logger.Debug("event posted", "index", i, "id", resp.ID)
	}
	return res, nil
}
