// Package cli wires the safediff command line: flags and config, unlocking
// both databases, diffing and writing the report.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rolledback/safediff/internal/config"
	"github.com/rolledback/safediff/internal/diff"
	"github.com/rolledback/safediff/internal/display"
	"github.com/rolledback/safediff/internal/format"
	"github.com/rolledback/safediff/internal/logging"
	"github.com/rolledback/safediff/internal/models"
	"github.com/rolledback/safediff/internal/unlock"
)

// ErrDifferences is returned when --exit-code is set and the databases differ.
var ErrDifferences = errors.New("differences found")

const configFlag = "config"

// Deps are the outside resources the command talks to.
type Deps struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Registry *format.Registry
	Prompter unlock.Prompter
}

// DefaultDeps uses the process streams, every built-in format and the
// terminal for password prompts.
func DefaultDeps() Deps {
	return Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Registry: format.Default(),
		Prompter: unlock.NewTerminalPrompter(os.Stderr),
	}
}

// NewRootCommand builds the safediff command.
func NewRootCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "safediff [flags] INPUT-A INPUT-B",
		Short: "Show the differences between two password databases",
		Long: `safediff compares two password database files and lists the groups and
entries that were added, removed or modified, down to single fields and
entry history.

Entries are matched by their IDs, so moved or renamed entries are reported
as modifications rather than as a removal plus an addition.

Supported formats: KeePass (.kdbx) and Password Safe v3 (.psafe3).

Examples:
  safediff old.kdbx new.kdbx
  safediff -m -s backup.kdbx current.kdbx
  safediff --format json --passwords "$PW" a.psafe3 b.psafe3`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "failed to bind flags")
			}
			configPath, _ := cmd.Flags().GetString(configFlag)
			if err := config.ReadFile(v, configPath); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			cfg.InputA, cfg.InputB = args[0], args[1]
			return run(cmd, deps, cfg)
		},
	}
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	addFlags(cmd.Flags())
	return cmd
}

func addFlags(f *pflag.FlagSet) {
	f.BoolP(config.KeyNoColor, "C", false, "disable color output")
	f.BoolP(config.KeyVerbose, "v", false, "also list unchanged groups and entries")
	f.BoolP(config.KeyMaskPasswords, "m", false, "mask password values")
	f.String(config.KeyMask, display.DefaultMask, "text shown in place of masked passwords")
	f.StringP(config.KeyFormat, "f", config.FormatText, "output format: text, json or yaml")
	f.Bool(config.KeyExitCode, false, "exit with status 1 when the databases differ")

	f.String(config.KeyPasswordA, "", "password for the first file (asked for if omitted)")
	f.String(config.KeyPasswordB, "", "password for the second file (asked for if omitted)")
	f.StringP(config.KeyPasswords, "p", "", "password for both files")
	f.BoolP(config.KeySamePassword, "s", false, "ask for the password once and use it for both files")
	f.Bool(config.KeyNoPasswordA, false, "the first file has no password")
	f.Bool(config.KeyNoPasswordB, false, "the second file has no password")
	f.Bool(config.KeyNoPasswords, false, "neither file has a password")
	f.String(config.KeyKeyFileA, "", "key file for the first file")
	f.String(config.KeyKeyFileB, "", "key file for the second file")
	f.String(config.KeyKeyFiles, "", "key file for both files (keyfile-a and keyfile-b take precedence)")

	f.String(configFlag, "", "config file")
	f.String(config.KeyLogLevel, logging.DefaultLevel, "log level: debug, info, warn or error")
	f.Int(config.KeyUnlockAttempts, 3, "password prompts per file before giving up")
	f.Duration(config.KeyUnlockInterval, time.Second, "minimum delay between unlock attempts on one file")
}

func run(cmd *cobra.Command, deps Deps, cfg *config.Config) error {
	level := cfg.LogLevel
	if cfg.Verbose && !cfg.LogLevelSet {
		level = "info"
	}
	log, err := logging.New(level, deps.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	planA, planB := unlock.ResolvePlans(cfg.Credentials, cfg.InputA, cfg.InputB)
	for _, p := range []unlock.Plan{planA, planB} {
		if err := deps.Registry.Check(p.Path, p.KeyFile); err != nil {
			return err
		}
	}

	unlocker := unlock.New(deps.Registry.Open, deps.Prompter, unlock.NewLimiter(cfg.UnlockInterval), cfg.UnlockAttempts, log)
	a, b, err := unlocker.OpenBoth(cmd.Context(), planA, planB)
	if err != nil {
		return err
	}
	logTree(log, cfg.InputA, a)
	logTree(log, cfg.InputB, b)

	delta := diff.Diff(a, b)
	stats := diff.Summarise(delta)
	log.Infow("diff complete",
		"added", stats.Added,
		"removed", stats.Removed,
		"modified", stats.Modified,
		"unchanged", stats.Unchanged,
	)

	if err := write(deps.Stdout, cfg, delta); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	if cfg.ExitCode && stats.HasChanges() {
		return ErrDifferences
	}
	return nil
}

func write(w io.Writer, cfg *config.Config, delta *diff.Delta) error {
	opts := display.Options{
		UseColor:      cfg.UseColor(),
		UseVerbose:    cfg.Verbose,
		MaskPasswords: cfg.MaskPasswords,
		Mask:          cfg.Mask,
	}
	if cfg.Format == config.FormatText {
		_, err := display.New(delta, opts).WriteTo(w)
		return err
	}

	report, err := display.BuildReport(delta, opts)
	if err != nil {
		return err
	}
	if cfg.Format == config.FormatYAML {
		return report.EncodeYAML(w)
	}
	return report.EncodeJSON(w)
}

func logTree(log *zap.SugaredLogger, path string, root *models.Group) {
	groups, entries := count(root)
	log.Infow("opened database", "path", path, "groups", groups, "entries", entries)
}

func count(g *models.Group) (groups, entries int) {
	entries = len(g.Entries)
	for _, sub := range g.Groups {
		gs, es := count(sub)
		groups += 1 + gs
		entries += es
	}
	return groups, entries
}
