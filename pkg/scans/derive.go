package scans

// ModuleStatus is the derived per-module state consumed by the view
// layer. Never persisted; always recomputed from a snapshot.
type ModuleStatus string

const (
	ModulePending   ModuleStatus = "pending"
	ModuleRunning   ModuleStatus = "running"
	ModuleCompleted ModuleStatus = "completed"
	ModuleFailed    ModuleStatus = "failed"
)

// DeriveModuleStatus maps one module of a snapshot to its display
// status. Rule order is fixed priority: a present result always wins,
// even when the server still reports the module as current (tolerates a
// stale current_module pointer).
func DeriveModuleStatus(moduleID string, currentModule *string, results map[string]ModuleResult, overall Status) ModuleStatus {
	if _, ok := results[moduleID]; ok {
		return ModuleCompleted
	}
	if currentModule != nil && *currentModule == moduleID {
		return ModuleRunning
	}
	if overall == StatusFailed {
		return ModuleFailed
	}
	return ModulePending
}

// DeriveMatrix computes the full status matrix for the given modules.
func DeriveMatrix(s *Scan, modules []string) map[string]ModuleStatus {
	matrix := make(map[string]ModuleStatus, len(modules))
	for _, m := range modules {
		matrix[m] = DeriveModuleStatus(m, s.CurrentModule, s.Results, s.Status)
	}
	return matrix
}
