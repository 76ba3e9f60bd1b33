// Package cli implements the command-line interface for the hostinit tool.
//
// # Overview
//
// hostinit runs the interactive host initialization pipeline: system
// detection, pre-mutation backup, package refresh, hostname and root
// credential configuration, kernel tunable hardening, and open-file
// limit tuning. It is designed for operators provisioning fresh Linux
// hosts and must run as root.
//
// # Usage
//
//	hostinit [--skip-update] [--skip-packages] [--config FILE] [--log-level LEVEL]
//
// # Flags
//
//	--skip-update      Skip the package index refresh and upgrade
//	--skip-packages    Skip obsolete-package cleanup
//	--config, -c       Policy file path (default: /etc/hostinit.yaml)
//	--log-level        Diagnostic log level: debug, info, warn, error
//	--help, -h         Show command help
//	--version, -v      Show version information
//
// # Environment Variables
//
//	HOSTINIT_CONFIG  Policy file path (same as --config)
//	LOG_LEVEL        Diagnostic log level (same as --log-level)
//
// # Exit Codes
//
//	0  Success
//	1  Any fatal condition (invalid arguments, validation exhaustion,
//	   snapshot failure, mutation failure)
//
// On a fatal condition mid-pipeline the tool prints the path of the
// pre-run backup snapshot for manual recovery; there is no automatic
// rollback.
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/host-init/pkg/cli.version=1.0.0'"
package cli
