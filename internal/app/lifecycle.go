package app

func (a *Application) sweep() {
	removed, err := a.Workspace.Sweep(a.Config.Workspace.SweepMaxAge)
	if err != nil {
		a.Logger.Warning("Lifecycle", "startup sweep incomplete", map[string]interface{}{
			"removed": removed,
			"error":   err.Error(),
		})
		return
	}
	if removed > 0 {
		a.Logger.Info("Lifecycle", "removed stale artifacts", map[string]interface{}{
			"removed": removed,
			"max_age": a.Config.Workspace.SweepMaxAge.String(),
		})
	}
}

// Shutdown reclaims outstanding results and logs the session's statistics.
// Later calls do nothing.
func (a *Application) Shutdown() {
	select {
	case <-a.shutdown.Done():
		return
	default:
	}

	stats := a.Cleaner.GetProcessingStats()
	a.Logger.Info("Lifecycle", "cleaning statistics", map[string]interface{}{
		"processed":   stats.TotalProcessed,
		"succeeded":   stats.SuccessfulRuns,
		"failed":      stats.FailedRuns,
		"avg_time_ms": stats.AverageTime.Milliseconds(),
		"outstanding": a.Cleaner.Outstanding(),
	})
	a.shutdown.Shutdown()
}
