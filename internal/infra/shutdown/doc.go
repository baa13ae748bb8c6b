// Package shutdown runs named cleanup hooks once when the process is asked
// to stop, either by SIGINT/SIGTERM or by the caller's context ending.
//
//	h := shutdown.NewHandler(5*time.Second, shutdown.WithLogger(log))
//	h.OnShutdown("metrics-textfile", writeMetrics)
//	go console.Run(ctx)
//	err := h.WaitContext(ctx)
//
// Hooks share one timeout; a hook reached after it expires is reported as
// a HookError without running.
package shutdown
