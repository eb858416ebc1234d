// Package glider contains pure functions for glider deployment names and the
// on-disk layout of a deployment.
// This is part of the Functional Core - all functions are pure with no I/O.
package glider

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrInvalidDeploymentName = errors.New("deployment name must be formatted as glider-YYYYmmddTHHMM")
	ErrInvalidTrajectory     = errors.New("invalid trajectory date")
)

// =============================================================================
// Deployment Names
// =============================================================================

// TrajectoryLayout is the time layout of the trajectory part of a deployment name.
const TrajectoryLayout = "20060102T1504"

var deploymentNameRegex = regexp.MustCompile(`^(.*)-(\d{8}T\d{4})$`)

// Deployment identifies one glider deployment.
type Deployment struct {
	Name       string
	Glider     string
	Trajectory time.Time
}

// Year returns the four digit year the deployment started in.
func (d Deployment) Year() string {
	return fmt.Sprintf("%04d", d.Trajectory.Year())
}

// ParseDeploymentName splits a deployment name into glider and trajectory.
// The trajectory is interpreted as UTC.
//
// Example:
//
//	d, _ := ParseDeploymentName("ru39-20250423T1535")
//	// d.Glider == "ru39", d.Year() == "2025"
func ParseDeploymentName(name string) (Deployment, error) {
	match := deploymentNameRegex.FindStringSubmatch(name)
	if match == nil || match[1] == "" {
		return Deployment{}, fmt.Errorf("%q: %w", name, ErrInvalidDeploymentName)
	}

	trajectory, err := time.ParseInLocation(TrajectoryLayout, match[2], time.UTC)
	if err != nil {
		return Deployment{}, fmt.Errorf("%q: %w: %v", name, ErrInvalidTrajectory, err)
	}

	return Deployment{
		Name:       name,
		Glider:     match[1],
		Trajectory: trajectory,
	}, nil
}

// =============================================================================
// Processing Modes
// =============================================================================

// Mode selects the real-time or delayed-mode data stream.
type Mode string

const (
	ModeRealTime Mode = "rt"
	ModeDelayed  Mode = "delayed"
)

// BinaryKind returns the binary file directory for the mode: "stbd" for rt,
// "debd" for delayed.
func (m Mode) BinaryKind() string {
	if m == ModeDelayed {
		return "debd"
	}
	return "stbd"
}

// =============================================================================
// Log Names
// =============================================================================

// ProcLogName returns the proc-log file name for one processing step.
// Pattern: {user}-{YYYYmmdd}-{deployment}-{step}-{name}.log
//
// Example:
//
//	ProcLogName("gsb", day, "ru39-20250423T1535", "configure", "deploymentyaml")
//	// returns "gsb-20251016-ru39-20250423T1535-configure-deploymentyaml.log"
func ProcLogName(user string, day time.Time, deployment, step, name string) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s.log", user, day.Format("20060102"), deployment, step, name)
}
