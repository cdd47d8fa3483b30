// Package tracestore records bridge lifecycle events and persists them.
//
// A Recorder is a react.Observer that keeps the events of a session in
// memory. Snapshot turns it into a Trace, which a Store writes as JSON or
// YAML either to a local directory (FileStore) or to an S3 bucket
// (S3Store):
//
//	rec := tracestore.NewRecorder(0)
//	bridge, _ := react.Use(rt, react.WithObserver(rec))
//	// ... render, interact, unmount ...
//	store, _ := tracestore.NewFileStore("traces", tracestore.FormatYAML)
//	key, err := store.Put(ctx, rec.Snapshot(bridge.Stats()))
package tracestore
