// Package display provides terminal UI utilities for qfi: the scan summary
// table, warning blocks, and the post-generation status output.
//
// It centralizes ANSI color handling so command code never touches escape
// codes directly. Color is applied only when the target writer is a TTY.
package display
