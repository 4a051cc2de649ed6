// Package scaffold creates workspace template files once-if-absent: the
// roundtable task-list descriptor (YAML) and the task-runner definition
// (Makefile). Existing files are never overwritten.
package scaffold
