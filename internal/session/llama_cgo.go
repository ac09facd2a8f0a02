//go:build llama

package session

// cgo link directives for the in-process llama engine.
// - rpath of $ORIGIN so the runtime loader finds libllama.so and
//   libggml*.so in the same directory as the built binary (./bin).
// - -L${SRCDIR}/../../bin so the linker finds libllama.so at link time.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
