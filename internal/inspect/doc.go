// Package inspect serves a live view of a bridge over HTTP.
//
// Routes:
//
//	GET /healthz          liveness check
//	GET /metrics          Prometheus exposition of the given gatherer
//	GET /stats            react.Stats as JSON
//	GET /instances        mounted instances and their cells as JSON
//	GET /instances/{id}   one instance
//	GET /events           WebSocket stream of lifecycle events
//
// The Hub returned by Server.Hub is a react.Observer; register it with
// react.WithObserver so that /events receives the bridge's events.
package inspect
