package main

import (
	"fmt"
	"io"
	"log/slog"
	"os/user"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/gliderprep/internal/core/validation"
	"github.com/artpar/gliderprep/internal/shell/batch"
	"github.com/artpar/gliderprep/internal/shell/workspace"
)

// =============================================================================
// Root Command
// =============================================================================

// app holds the flags and state shared by all commands.
type app struct {
	configPath string
	logLevel   string
	test       bool

	config *Config
	logger *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "gliderprep",
		Short: "Prepare glider deployments for binary conversion",
		Long: `Prepares glider deployments for binary-to-trajectory conversion.

Deployments live under $GLIDER_DATA_HOME/deployments/<year>/<deployment> and
are named glider-YYYYmmddTHHMM, e.g. ru39-20250423T1535.`,
		Version:           fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to config file")
	flags.StringVarP(&a.logLevel, "loglevel", "l", "", "Verbosity level: debug, info, warn, error (overrides config)")
	flags.BoolVar(&a.test, "test", false, "Use GLIDER_DATA_HOME_TEST instead of GLIDER_DATA_HOME")

	root.AddCommand(newInitCmd(a), newCheckCmd(a), newCompileCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.config = cfg
	a.logger = SetupLogger(cfg)
	return nil
}

func (a *app) runner(root, configHome string) *batch.Runner {
	return batch.NewRunner(batch.Config{
		DeploymentsRoot: root,
		ConfigHome:      configHome,
		User:            currentUser(),
		NewHandler: func(w io.Writer) slog.Handler {
			return NewHandler(a.config, w)
		},
	}, a.logger)
}

// =============================================================================
// Commands
// =============================================================================

func newCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <deployment>...",
		Short: "Write deployment.yml for each deployment",
		Long: `Merges the config set in <deployment>/config/proc into deployment.yml:

  deployment-template.yml      base descriptor
  deployment-globalattrs.yml   global attributes, override template metadata
  platform.yml                 platform ids and serials
  instruments.json             instrument calibration records
  sensor_defs-raw.json         raw sensor definitions
  sensor_defs-sci_profile.json profile sensor definitions, override raw ones
  sensors.txt                  sensors present in the binary files

A deployment that fails is reported and skipped; the others are still compiled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkNames(args); err != nil {
				return err
			}
			root, err := workspace.DeploymentsRoot(a.config.ResolveDataHome(a.test))
			if err != nil {
				return &exitError{code: ExitConfigError, err: err}
			}
			summary := a.runner(root, "").Compile(args)
			return report(cmd.OutOrStdout(), "compiled", summary, len(args))
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var copyConfig bool

	cmd := &cobra.Command{
		Use:   "init <deployment>...",
		Short: "Create the directory tree for each deployment",
		Long: `Creates config/proc, proc-logs and the data/in and data/out directories
for each deployment. With --copy-config the glider's config set is copied from
$GLIDER_CONFIG_HOME/<glider> into config/proc.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkNames(args); err != nil {
				return err
			}
			root, err := workspace.CreateDeploymentsRoot(a.config.ResolveDataHome(a.test))
			if err != nil {
				return &exitError{code: ExitConfigError, err: err}
			}
			configHome := ""
			if copyConfig {
				if a.config.ConfigHome == "" {
					return &exitError{code: ExitConfigError, err: fmt.Errorf("--copy-config requires GLIDER_CONFIG_HOME")}
				}
				configHome = a.config.ConfigHome
			}
			summary := a.runner(root, configHome).Init(args)
			return report(cmd.OutOrStdout(), "initialized", summary, len(args))
		},
	}
	cmd.Flags().BoolVar(&copyConfig, "copy-config", false, "Copy the glider's config set from the config home")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <deployment>...",
		Short: "Report missing config documents for each deployment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkNames(args); err != nil {
				return err
			}
			root, err := workspace.DeploymentsRoot(a.config.ResolveDataHome(a.test))
			if err != nil {
				return &exitError{code: ExitConfigError, err: err}
			}
			summary := a.runner(root, "").Check(args)
			return report(cmd.OutOrStdout(), "complete", summary, len(args))
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func checkNames(names []string) error {
	if field, msg := validation.ValidateDeploymentNames(names); field != "" {
		return &exitError{code: ExitConfigError, err: fmt.Errorf("%s: %s", field, msg)}
	}
	return nil
}

// report prints one line per deployment and turns failures into an exit error.
func report(w io.Writer, verb string, summary batch.Summary, total int) error {
	for _, name := range sortedKeys(summary.Written) {
		fmt.Fprintf(w, "%-24s %s %s\n", name, verb, summary.Written[name])
	}
	for _, name := range sortedKeys(summary.Failed) {
		fmt.Fprintf(w, "%-24s FAILED %v\n", name, summary.Failed[name])
		if missing := summary.Missing[name]; len(missing) > 0 {
			fmt.Fprintf(w, "%-24s missing %s\n", "", strings.Join(missing, ", "))
		}
	}
	if summary.Warnings > 0 {
		fmt.Fprintf(w, "%d sensor warning(s), see proc-logs\n", summary.Warnings)
	}

	if !summary.OK() {
		return &exitError{
			code: ExitDeploymentError,
			err:  fmt.Errorf("%d of %d deployments failed", len(summary.Failed), total),
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func currentUser() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "unknown"
	}
	return u.Username
}
