package types

// Model represents a loadable model artifact on disk.
type Model struct {
	// Stable identifier for the model (the filename).
	// example: all-minilm-l6.gguf
	ID string `json:"id" example:"all-minilm-l6.gguf"`
	// Human-friendly name (filename without extension).
	// example: all-minilm-l6
	Name string `json:"name" example:"all-minilm-l6"`
	// Absolute path to the artifact.
	// example: /home/user/models/all-minilm-l6.gguf
	Path string `json:"path" example:"/home/user/models/all-minilm-l6.gguf"`
	// Artifact format derived from the extension.
	// example: gguf
	Format string `json:"format" example:"gguf"`
	// File size in bytes.
	// example: 45949216
	SizeBytes int64 `json:"size_bytes" example:"45949216"`
}
