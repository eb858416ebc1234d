package glider

import "path/filepath"

// =============================================================================
// Deployment Layout
// =============================================================================

// DeploymentsDir is the subdirectory of the data home holding all deployments.
const DeploymentsDir = "deployments"

// Layout computes the directories of one deployment.
// Pattern: {root}/{YYYY}/{deployment}/...
type Layout struct {
	Deployment Deployment
	Root       string
}

// NewLayout places d under deploymentsRoot.
func NewLayout(deploymentsRoot string, d Deployment) Layout {
	return Layout{
		Deployment: d,
		Root:       filepath.Join(deploymentsRoot, d.Year(), d.Name),
	}
}

// ConfigDir holds the processing config documents and deployment.yml.
func (l Layout) ConfigDir() string {
	return filepath.Join(l.Root, "config", "proc")
}

// ProcLogsDir holds the per-step processing logs.
func (l Layout) ProcLogsDir() string {
	return filepath.Join(l.Root, "proc-logs")
}

// BinaryDir holds the raw binary files for the mode.
func (l Layout) BinaryDir(m Mode) string {
	return filepath.Join(l.Root, "data", "in", "binary", m.BinaryKind())
}

// RawNCDir holds the raw netCDF output for the mode.
func (l Layout) RawNCDir(m Mode) string {
	return filepath.Join(l.Root, "data", "in", "rawnc", m.BinaryKind())
}

// QCQueueDir holds files waiting for quality control.
func (l Layout) QCQueueDir(m Mode) string {
	return filepath.Join(l.Root, "data", "out", string(m), "qc_queue")
}

// Directories returns every directory a provisioned deployment has.
func (l Layout) Directories() []string {
	return []string{
		l.ConfigDir(),
		l.BinaryDir(ModeRealTime),
		l.BinaryDir(ModeDelayed),
		l.RawNCDir(ModeRealTime),
		l.RawNCDir(ModeDelayed),
		l.QCQueueDir(ModeDelayed),
		l.QCQueueDir(ModeRealTime),
		l.ProcLogsDir(),
	}
}
