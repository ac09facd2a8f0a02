package types

// HandshakeResponse is returned by GET /handshake.
type HandshakeResponse struct {
	// example: Native Handshake: Connection Secure!
	Message string `json:"message" example:"Native Handshake: Connection Secure!"`
}

// LoadRequest is the body of POST /load. Both fields are optional; when
// neither is set the server's configured model path is used.
type LoadRequest struct {
	// Filesystem path of the artifact.
	// example: /models/test.gguf
	Path string `json:"path,omitempty" example:"/models/test.gguf"`
	// Registry id (filename in the models dir). Ignored when Path is set.
	// example: test.gguf
	Model string `json:"model,omitempty" example:"test.gguf"`
}

// LoadResponse is returned by POST /load and POST /unload.
type LoadResponse struct {
	// Whether a model is resident after the call.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// Path of the resident model.
	// example: /models/test.gguf
	Path string `json:"path,omitempty" example:"/models/test.gguf"`
	// Opaque id of the resident handle.
	HandleID string `json:"handle_id,omitempty"`
	// Human-readable outcome.
	// example: model loaded
	Message string `json:"message" example:"model loaded"`
}

// EmbedRequest is the body of POST /embed.
type EmbedRequest struct {
	// Text to embed. Empty text is valid.
	// example: ping
	Text string `json:"text" example:"ping"`
}

// EmbedResponse is returned by POST /embed.
type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
	// example: 128
	Dim int `json:"dim" example:"128"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Machine-readable failure class when known.
	// example: not_found
	Kind string `json:"kind,omitempty" example:"not_found"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Whether a model handle is resident.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// Session state (empty or loaded).
	// example: loaded
	State string `json:"state" example:"loaded"`
	// Result of the native handshake.
	Handshake string `json:"handshake"`
	// Path of the resident model.
	Path string `json:"path,omitempty"`
	// Opaque id of the resident handle.
	HandleID string `json:"handle_id,omitempty"`
	// Bytes held by the resident handle.
	// example: 1048576
	HandleBytes int64 `json:"handle_bytes" example:"1048576"`
	// When the resident model was loaded (unix seconds, 0 when empty).
	LoadedAtUnix int64 `json:"loaded_at_unix"`
	// Successful loads since start.
	LoadsTotal uint64 `json:"loads_total"`
	// Handles released since start.
	UnloadsTotal uint64 `json:"unloads_total"`
	// Dimension of vectors returned by /embed.
	// example: 128
	EmbeddingDim int `json:"embedding_dim" example:"128"`
	// Loader engine (placeholder, gguf, llama).
	// example: placeholder
	Engine string `json:"engine" example:"placeholder"`
	// Whether /embed needs a loaded model.
	RequireModel bool `json:"require_model"`
	// Uptime of the server in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	// Query text; it is embedded the same way as /embed.
	// example: ping
	Text string `json:"text" example:"ping"`
	// Number of results. Defaults to 5, capped at 100.
	// example: 5
	K int `json:"k,omitempty" example:"5"`
}

// SearchHit is one recorded text ranked against the query.
type SearchHit struct {
	// example: pong
	Text string `json:"text" example:"pong"`
	// Short digest of the text, as printed by the verify command.
	TextHash string `json:"text_hash"`
	// Cosine similarity to the query, in [-1, 1].
	// example: 0.42
	Score float64 `json:"score" example:"0.42"`
}

// SearchResponse is returned by POST /search.
type SearchResponse struct {
	Engine  string      `json:"engine" example:"placeholder"`
	Results []SearchHit `json:"results"`
}
