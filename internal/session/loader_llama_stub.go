//go:build !llama

package session

import "context"

// LlamaBuiltIn reports whether the llama engine is compiled in.
const LlamaBuiltIn = false

// llamaLoader is compiled when the 'llama' build tag is NOT set, keeping
// default builds CGO-free. It refuses every load instead of mocking one.
type llamaLoader struct {
	ctxSize int
	threads int
}

// NewLlamaLoader returns the llama engine loader.
func NewLlamaLoader(ctxSize, threads int) Loader {
	return &llamaLoader{ctxSize: ctxSize, threads: threads}
}

func (l *llamaLoader) Open(ctx context.Context, path string) (Handle, error) {
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}
