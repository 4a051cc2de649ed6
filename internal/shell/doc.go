// Package shell renders shell code for environment re-export.
// It generates export lines (POSIX export for bash/zsh/sh, set -gx for Fish)
// and the profile hook that evaluates idobata env in every new shell.
package shell
