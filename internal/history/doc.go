// Package history persists a local record of generation runs in a SQLite
// database so users can review what qfi produced, when, and from where.
// Recording is best-effort: failures here never fail a build.
package history
