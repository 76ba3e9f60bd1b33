/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/host-init/pkg/audit"
	"github.com/NVIDIA/host-init/pkg/config"
	"github.com/NVIDIA/host-init/pkg/defaults"
	"github.com/NVIDIA/host-init/pkg/logging"
	"github.com/NVIDIA/host-init/pkg/orchestrator"
	"github.com/NVIDIA/host-init/pkg/prompt"
)

const (
	name           = "hostinit"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// New builds the root command.
func New() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Interactive first-boot host initialization",
		Description: fmt.Sprintf(`hostinit - host initialization tool

Version: %s
Commit:  %s
Built:   %s

Runs the ordered initialization pipeline on a fresh Linux host:

  1. Detect distribution, package manager, container environment
  2. Snapshot the files about to change (no mutation before this succeeds)
  3. Refresh and upgrade system packages
  4. Prompt for and validate the new hostname and root password
  5. Apply hostname, update the hosts table, rotate the root credential
  6. Apply the kernel tunable profile and open-file limits
  7. Write the audit log and completion report

Must run as root on the target host. Prompts are interactive; there is
no non-interactive mode for the credential.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-update",
				Usage: "Skip the package index refresh and upgrade",
			},
			&cli.BoolFlag{
				Name:  "skip-packages",
				Usage: "Skip obsolete-package cleanup",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   fmt.Sprintf("Policy file path (default: %s)", defaults.ConfigFile),
				Sources: cli.EnvVars("HOSTINIT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Diagnostic log level: debug, info, warn, error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))

	if os.Geteuid() != 0 {
		return fmt.Errorf("%s mutates system files and must run as root", name)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	runner, log, err := newRunner(cfg, cmd.Bool("skip-update"), cmd.Bool("skip-packages"))
	if err != nil {
		return err
	}
	defer log.Close()

	return runner.Run(ctx)
}

// newRunner assembles the pipeline from a loaded policy.
func newRunner(cfg *config.Config, skipUpdate, skipPackages bool) (*orchestrator.Runner, *audit.Logger, error) {
	runID := uuid.NewString()

	log, err := audit.New(cfg.LogPath, runID)
	if err != nil {
		return nil, nil, err
	}

	p := prompt.New(os.Stdin, os.Stderr, cfg.MaxPromptAttempts)

	runner := orchestrator.NewRunner(cfg, version, log, p)
	runner.RunID = runID
	runner.SkipUpdate = skipUpdate
	runner.SkipPackages = skipPackages
	return runner, log, nil
}

// Execute runs the root command and maps any fatal condition to exit
// code 1. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := New().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
