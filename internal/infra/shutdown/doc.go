// Package shutdown ties process signals to context cancellation.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	h.OnClose(store.Close)
//	err := run(ctx)
//	h.Shutdown()
//
// A first SIGINT or SIGTERM cancels ctx so a running snapshot can save its
// checkpoint. Hooks run once, in reverse order of registration.
package shutdown
