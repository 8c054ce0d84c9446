// Package config resolves the local configuration file and the active
// connection profile.
//
// Configuration lives in ~/.config/rsspot/config.{yml,yaml,json} with a
// profile map shape:
//
//	active_profile: prod
//	profiles:
//	  prod:
//	    org: my-org
//	    region: us-central-dfw-1
//	    refresh_token: "..."
//
// Legacy flat files where the connection settings sit at the top level
// are migrated to a single "default" profile on load. Environment
// variables (RSSPOT_CONFIG, RSSPOT_PROFILE, RSSPOT_ORG, RSSPOT_REGION,
// RSSPOT_REFRESH_TOKEN and friends) override file values.
package config
