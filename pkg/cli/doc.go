// Package cli implements the command-line interface for the rsspot tool.
//
// # Overview
//
// The rsspot CLI explores the Rackspace Spot server class catalog and
// builds cluster bidding recommendations. It is designed for platform
// engineers sizing spot-backed Kubernetes clusters and batch fleets.
//
// # Commands
//
// pricing build - Build bidding scenarios for a cluster:
//
//	rsspot pricing build --nodes 5 --risk low --max-hour 2.50
//
// Fetches live market pricing, evaluates the selected strategies
// (max_performance, max_value, balanced; all three when none is given),
// and emits one scenario per strategy with per-pool node counts, cost
// totals, and suggested bids.
//
// pricing list - List per-class pricing with cost projections:
//
//	rsspot pricing list --region us-central-dfw-1 --class gp --nodes 3
//
// pricing catalog - Export the raw catalog for offline pricing:
//
//	rsspot pricing catalog --output catalog.json
//
// pricing get - Show pricing details for one server class:
//
//	rsspot pricing get gp.vs1.medium-dfw
//
// serverclasses, regions - Raw catalog listings:
//
//	rsspot serverclasses list --region us-east-iad-1
//	rsspot regions list
//
// config show - Show the resolved profile with secrets redacted.
//
// history list|clear - Inspect the locally recorded command history.
//
// # Shared Flags
//
//	--config, -c   Config file (default: $HOME/.config/rsspot/config.yml)
//	--profile, -p  Named profile from the config file
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: json, yaml, table (default: table)
//
// # Exit Codes
//
//	0  success
//	1  general failure, including invalid input and transport errors
//	2  the catalog produced no usable offerings
//	3  no offering matched the requested filters
//	4  offerings matched but every strategy exceeded the budget
//
// # Offline Pricing
//
// pricing list and pricing build accept --catalog FILE to price against
// a previously saved catalog (JSON or YAML) without credentials or
// network access:
//
//	rsspot pricing build --catalog catalog.json --nodes 5
//
// # Version Information
//
// Version metadata is injected at build time:
//
//	go build -ldflags="-X 'github.com/rackerlabs/rsspot/pkg/cli.version=1.0.0'"
package cli
