// Package doctor diagnoses a provisioned sandbox: base binaries, manifest
// tools, credentials, env file, profile blocks, MCP registrations and the
// devcontainer definition. Every check reports a Fix when it is not OK.
package doctor
