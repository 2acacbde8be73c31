// Package timeouts defines shared timeout constants used across binaries.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers and exporters wait for in-flight work
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Autosave caps a single save-slot write after a table action.
const Autosave = 3 * time.Second

// Action caps dispatch of one table action from an adapter.
const Action = 2 * time.Second

// WebSocketWrite caps one state push to a live view peer.
const WebSocketWrite = 2 * time.Second
