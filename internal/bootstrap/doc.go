// Package bootstrap runs the idempotent provisioning sequence for a fresh
// development container: env file activation, preflight commands, CLI tool
// installs, shell profile blocks, workspace templates and MCP registrations.
//
// Every unit probes for existing presence (PATH lookup, marker search, file
// existence, "mcp get") and acts only when absent, so running the sequence a
// second time only confirms already-applied state. A required preflight
// failure aborts the run with ErrFatal; every other failure is logged as a
// warning and the sequence continues. There is no rollback and no retry.
package bootstrap
