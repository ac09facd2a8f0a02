//go:build cgo

// Command libmodelbridge builds the C ABI of the model bridge.
//
//	go build -buildmode=c-shared -o libmodelbridge.so ./cmd/libmodelbridge
//
// Strings and vectors returned to the caller are allocated with malloc and
// must be released with mb_free_string and mb_free_embedding.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"modelbridge/internal/bridge"
)

//export mb_handshake
func mb_handshake() *C.char {
	return C.CString(bridge.Default().Handshake())
}

//export mb_load_model
func mb_load_model(path *C.char) C.int {
	if path == nil {
		return 0
	}
	if bridge.Default().LoadModel(C.GoString(path)) {
		return 1
	}
	return 0
}

//export mb_free_model
func mb_free_model() {
	bridge.Default().FreeModel()
}

//export mb_get_embedding
func mb_get_embedding(text *C.char, outLen *C.int) *C.float {
	if outLen != nil {
		*outLen = 0
	}
	if text == nil {
		return nil
	}
	vec := bridge.Default().GetEmbedding(C.GoString(text))
	if vec == nil {
		return nil
	}
	buf := (*C.float)(C.malloc(C.size_t(len(vec)) * C.size_t(unsafe.Sizeof(C.float(0)))))
	if buf == nil {
		return nil
	}
	dst := unsafe.Slice(buf, len(vec))
	for i, f := range vec {
		dst[i] = C.float(f)
	}
	if outLen != nil {
		*outLen = C.int(len(vec))
	}
	return buf
}

//export mb_embedding_dim
func mb_embedding_dim() C.int {
	return C.int(bridge.Default().EmbeddingDim())
}

//export mb_free_string
func mb_free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

//export mb_free_embedding
func mb_free_embedding(v *C.float) {
	if v != nil {
		C.free(unsafe.Pointer(v))
	}
}

// Required by -buildmode=c-shared; never runs.
func main() {}
