// Package batch runs deployment preparation steps over a list of deployments.
// Every deployment is an isolated unit of work: its failure is logged and
// recorded, and the batch moves on to the next one.
package batch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/artpar/gliderprep/internal/core/descriptor"
	"github.com/artpar/gliderprep/internal/core/glider"
	"github.com/artpar/gliderprep/internal/core/validation"
	"github.com/artpar/gliderprep/internal/shell/configset"
	"github.com/artpar/gliderprep/internal/shell/workspace"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrProcLogsMissing is returned when a deployment has no proc-logs directory.
	ErrProcLogsMissing = errors.New("proc-logs directory not found")

	// ErrInvalidDescriptor is returned when a compiled descriptor fails validation.
	ErrInvalidDescriptor = errors.New("compiled descriptor is invalid")

	// ErrConfigIncomplete is returned when required config documents are missing.
	ErrConfigIncomplete = errors.New("config set is incomplete")
)

// =============================================================================
// Runner
// =============================================================================

// Proc-log step and name for descriptor compilation.
const (
	logStep = "configure"
	logName = "deploymentyaml"
)

// Config configures a Runner.
type Config struct {
	// DeploymentsRoot is {data home}/deployments.
	DeploymentsRoot string

	// ConfigHome holds one config set directory per glider. Optional.
	ConfigHome string

	// User names the proc-log files. Default: "unknown".
	User string

	// Now stamps proc-log file names. Default: time.Now.
	Now func() time.Time

	// NewHandler builds the proc-log file handler.
	// Default: a text handler at debug level.
	NewHandler HandlerFunc
}

// Runner prepares deployments one at a time.
type Runner struct {
	config Config
	logger *slog.Logger
}

// NewRunner creates a runner logging batch-level events to logger.
func NewRunner(config Config, logger *slog.Logger) *Runner {
	if config.User == "" {
		config.User = "unknown"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewHandler == nil {
		config.NewHandler = defaultHandler
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{config: config, logger: logger}
}

// Summary reports the outcome of one batch.
type Summary struct {
	RunID string
	// Written maps a deployment to the path its step produced.
	Written map[string]string
	// Failed maps a deployment to the error that stopped it.
	Failed map[string]error
	// Missing maps a deployment to its absent config documents (Check only).
	Missing map[string][]string
	// Warnings counts degraded sensors across the batch.
	Warnings int
}

// OK reports whether every deployment succeeded.
func (s Summary) OK() bool {
	return len(s.Failed) == 0
}

func newSummary() Summary {
	return Summary{
		RunID:   uuid.NewString(),
		Written: make(map[string]string),
		Failed:  make(map[string]error),
		Missing: make(map[string][]string),
	}
}

// =============================================================================
// Compile
// =============================================================================

// Compile writes deployment.yml for each named deployment.
func (r *Runner) Compile(names []string) Summary {
	summary := newSummary()
	logger := r.logger.With("run_id", summary.RunID)

	for _, name := range names {
		path, warnings, err := r.compileOne(logger, summary.RunID, name)
		summary.Warnings += warnings
		if err != nil {
			summary.Failed[name] = err
			continue
		}
		summary.Written[name] = path
	}

	logger.Info("compile finished",
		"written", len(summary.Written),
		"failed", len(summary.Failed),
		"warnings", summary.Warnings,
	)
	return summary
}

// compileOne logs every failure exactly once: on the batch logger until the
// proc-log file is open, on the deployment logger after.
func (r *Runner) compileOne(batchLogger *slog.Logger, runID, name string) (string, int, error) {
	layout, err := workspace.Locate(r.config.DeploymentsRoot, name)
	if err != nil {
		batchLogger.Error("deployment not found", "deployment", name, "error", err)
		return "", 0, err
	}

	logger, closeLog, err := r.deploymentLogger(layout, runID)
	if err != nil {
		batchLogger.Error("failed to open proc-log", "deployment", name, "error", err)
		return "", 0, err
	}
	defer closeLog()

	configDir := layout.ConfigDir()
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		logger.Warn("invalid deployment config root", "path", configDir)
	}

	in, err := configset.Load(configDir)
	if err != nil {
		logger.Error("failed to load config set", "error", err)
		return "", 0, err
	}

	result, err := descriptor.Compile(in, name, logger)
	if err != nil {
		logger.Error("failed to compile descriptor", "error", err)
		return "", 0, err
	}
	warnings := len(result.Warnings)

	if field, msg := validation.ValidateDescriptor(result.Descriptor); field != "" {
		err := fmt.Errorf("%w: %s: %s", ErrInvalidDescriptor, field, msg)
		logger.Error("descriptor failed validation", "field", field, "error", msg)
		return "", warnings, err
	}

	path, err := configset.WriteDescriptor(configDir, result.Descriptor)
	if err != nil {
		logger.Error("failed to write descriptor", "error", err)
		return "", warnings, err
	}

	logger.Info("successfully wrote deployment descriptor",
		"path", path,
		"added_variables", len(result.Added),
		"warnings", warnings,
	)
	return path, warnings, nil
}

// deploymentLogger opens the deployment's proc-log file and returns a logger
// writing to it and to the batch logger.
func (r *Runner) deploymentLogger(layout glider.Layout, runID string) (*slog.Logger, func(), error) {
	dir := layout.ProcLogsDir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%s: %w", dir, ErrProcLogsMissing)
	}

	name := glider.ProcLogName(r.config.User, r.config.Now(), layout.Deployment.Name, logStep, logName)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open proc-log: %w", err)
	}

	handler := newTeeHandler(r.logger.Handler(), r.config.NewHandler(f))
	logger := slog.New(handler).With("run_id", runID, "deployment", layout.Deployment.Name)
	return logger, func() { f.Close() }, nil
}

// =============================================================================
// Init
// =============================================================================

// Init provisions the directory tree of each named deployment. When the
// runner has a config home, the glider's config set is copied into the new
// config directory.
func (r *Runner) Init(names []string) Summary {
	summary := newSummary()
	logger := r.logger.With("run_id", summary.RunID)

	for _, name := range names {
		layout, err := workspace.Plan(r.config.DeploymentsRoot, name)
		if err == nil {
			err = workspace.Provision(layout)
		}
		if err == nil && r.config.ConfigHome != "" {
			var copied []string
			src := filepath.Join(r.config.ConfigHome, layout.Deployment.Glider)
			copied, err = configset.CopyConfig(src, layout.ConfigDir())
			if err == nil {
				logger.Info("copied config set", "deployment", name, "from", src, "files", len(copied))
			}
		}
		if err != nil {
			summary.Failed[name] = err
			logger.Error("failed to initialize deployment", "deployment", name, "error", err)
			continue
		}
		summary.Written[name] = layout.Root
		logger.Info("initialized deployment", "deployment", name, "path", layout.Root)
	}
	return summary
}

// =============================================================================
// Check
// =============================================================================

// Check reports which required config documents each deployment lacks.
// A deployment with missing documents is recorded as failed.
func (r *Runner) Check(names []string) Summary {
	summary := newSummary()
	logger := r.logger.With("run_id", summary.RunID)

	for _, name := range names {
		layout, err := workspace.Locate(r.config.DeploymentsRoot, name)
		if err != nil {
			summary.Failed[name] = err
			logger.Error("deployment not found", "deployment", name, "error", err)
			continue
		}

		missing := configset.Missing(layout.ConfigDir())
		if len(missing) > 0 {
			summary.Missing[name] = missing
			summary.Failed[name] = fmt.Errorf("%s: %w: %d missing", name, ErrConfigIncomplete, len(missing))
			logger.Warn("config set incomplete", "deployment", name, "missing", missing)
			continue
		}
		summary.Written[name] = layout.ConfigDir()
		logger.Info("config set complete", "deployment", name, "path", layout.ConfigDir())
	}
	return summary
}
