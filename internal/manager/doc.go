// Package manager is the service layer behind the HTTP API. It owns the model
// session, the registry snapshot and the optional fingerprint recorder, and
// translates API requests into session operations. Files by concern:
//
//   - manager.go: core Manager type, simple getters.
//   - config.go: ManagerConfig; NewWithConfig applies defaults.
//   - errors.go: error types and helpers (IsModelNotFound).
//   - ops.go: Load, Unload and Embed.
//   - status_report.go: Status reporting.
//   - sanity.go: preflight checks for the configured engine and model path.
//
// External packages should use public methods only.
package manager
