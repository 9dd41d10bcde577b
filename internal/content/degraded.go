// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type degradedKey struct{}

// TrackDegraded returns a context that records whether any query run under
// it swallowed a storage failure, and a function that reports it. Empty
// results produced during an outage look like real ones, so callers that
// cache responses use this to skip them.
func TrackDegraded(ctx context.Context) (context.Context, func() bool) {
	flag := new(atomic.Bool)
	return context.WithValue(ctx, degradedKey{}, flag), flag.Load
}

// degrade logs a storage failure that a query method swallows and marks
// the tracking context, if any.
func degrade(ctx context.Context, op string, kind Kind, err error) {
	if flag, ok := ctx.Value(degradedKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
	slog.Warn("content query degraded to empty result", "op", op, "kind", kind, "error", err)
}
