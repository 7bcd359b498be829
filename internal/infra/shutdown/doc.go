// Package shutdown coordinates graceful shutdown of respd.
//
// Hooks registered with OnShutdown run in reverse order of registration
// once SIGINT or SIGTERM arrives, the parent context ends, or Trigger is
// called. All hooks share one deadline.
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait()
package shutdown
