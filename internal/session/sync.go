// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"mochi/shell/internal/logging"
)

// Trigger names the event that asked for a reconciliation.
type Trigger string

const (
	TriggerBoot       Trigger = "boot"
	TriggerRouteEntry Trigger = "route_entry"
	TriggerManual     Trigger = "manual"
)

// Synchronizer decides when the store is reconciled with its source.
// It never polls.
type Synchronizer struct {
	store *Store
	log   *logging.Dev
}

// NewSynchronizer returns a Synchronizer for store. log may be nil.
func NewSynchronizer(store *Store, log *logging.Dev) *Synchronizer {
	return &Synchronizer{store: store, log: log}
}

// Store returns the store being synchronized.
func (y *Synchronizer) Store() *Store {
	return y.store
}

// Boot reconciles once at application start.
func (y *Synchronizer) Boot() Session {
	return y.sync(TriggerBoot)
}

// EnsureInitialized reconciles on entry into a protected route, only when the
// store has not been reconciled yet.
func (y *Synchronizer) EnsureInitialized() Session {
	if snap := y.store.Snapshot(); snap.Initialized {
		return snap
	}
	return y.sync(TriggerRouteEntry)
}

// Refresh reconciles on explicit request.
func (y *Synchronizer) Refresh() Session {
	return y.sync(TriggerManual)
}

func (y *Synchronizer) sync(trigger Trigger) Session {
	y.store.Sync()
	snap := y.store.Snapshot()
	y.log.Printf("Session", "synced on %s: authenticated=%t", trigger, snap.Authenticated)
	return snap
}
