// Package coordination provides a Hub that wires the taskcore runtime
// components together for a single run.
//
// The Hub creates and manages the complete execution pipeline:
//
//	Submit → TaskQueue → WorkerPool → CompletionChannel
//
// Plus event-driven observers:
//
//   - Event Bus (task and pool lifecycle notifications)
//   - Log subscriber (structured logging of published events)
//
// Usage:
//
//	hub, err := coordination.NewHub(coordination.Config{Workers: 4})
//	if err != nil {
//	    return err
//	}
//	if err := hub.Start(); err != nil {
//	    return err
//	}
//	defer hub.Stop()
//
//	aw, err := hub.Submit(func() error { return doWork() })
package coordination
