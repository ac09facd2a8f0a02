// Package session owns the lifecycle of at most one loaded model handle and
// serves embeddings on top of it. It is structured into small files by concern:
//
//   - session.go: Session type, Handshake/Load/Unload/Embed and read-only views.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - types.go: State, Handle, Snapshot.
//   - errors.go: error kinds and helpers (KindOf, IsNotFound, IsNotLoaded, ...).
//   - loader.go: Loader interface, engine selection and the placeholder loader.
//   - gguf.go: GGUF header validation and the memory-mapped loader.
//   - events.go, eventpub_memory.go: lifecycle events.
//   - metrics.go: Prometheus collectors.
//
// Build tags and engines:
//
//   - placeholder (default): no file access, each handle is a 1 MiB resident
//     block standing in for model weights.
//   - gguf: validates the artifact header and maps the file read-only.
//   - llama: in-process go-llama.cpp with embeddings enabled. Requires
//     `-tags=llama` and the llama.cpp shared libraries next to the binary
//     (llama_cgo.go). Without the tag the engine reports Unavailable.
//
// All state transitions (Load, Unload) run under one exclusive lock, so a
// caller can never observe two live handles or a handle freed mid-reload.
// Embed holds the read lock for its whole duration.
package session
