package session

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"golang.org/x/exp/mmap"

	"modelbridge/internal/common/fsutil"
)

// GGUF header constants.
const (
	GGUFMagic      = 0x46554747 // "GGUF" little-endian
	GGUFHeaderSize = 24
)

// SupportedGGUFVersions lists header versions the loader accepts. Version 1
// used 32-bit counts and is rejected.
var SupportedGGUFVersions = []uint32{2, 3}

// Header is the fixed GGUF file header.
type Header struct {
	Magic          uint32 `json:"magic"`
	Version        uint32 `json:"version"`
	TensorCount    uint64 `json:"tensor_count"`
	MetadataKVSize uint64 `json:"metadata_kv_count"`
	FileSize       int64  `json:"file_size"`
}

// Inspect validates the artifact at path and returns its header. Errors are
// NotFound, MalformedFormat or UnsupportedVersion.
func Inspect(path string) (Header, error) {
	var hdr Header
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return hdr, ErrNotFound(path, err)
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return hdr, ErrNotFound(path, nil)
		}
		return hdr, ErrNotFound(path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return hdr, ErrNotFound(path, err)
	}
	if fi.IsDir() {
		return hdr, ErrMalformedFormat(path, "is a directory")
	}
	hdr.FileSize = fi.Size()

	var buf [GGUFHeaderSize]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return hdr, ErrMalformedFormat(path, "file too small for header")
	}
	hdr.Magic = binary.LittleEndian.Uint32(buf[0:4])
	if hdr.Magic != GGUFMagic {
		return hdr, ErrMalformedFormat(path, fmt.Sprintf("invalid magic 0x%08x", hdr.Magic))
	}
	hdr.Version = binary.LittleEndian.Uint32(buf[4:8])
	if !versionSupported(hdr.Version) {
		return hdr, ErrUnsupportedVersion(path, hdr.Version)
	}
	hdr.TensorCount = binary.LittleEndian.Uint64(buf[8:16])
	hdr.MetadataKVSize = binary.LittleEndian.Uint64(buf[16:24])
	return hdr, nil
}

func versionSupported(v uint32) bool {
	for _, s := range SupportedGGUFVersions {
		if v == s {
			return true
		}
	}
	return false
}

// EncodeHeader renders a GGUF header. Used to build fixtures and by tooling
// that writes empty artifacts.
func EncodeHeader(version uint32, tensors, kvs uint64) []byte {
	b := make([]byte, GGUFHeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], GGUFMagic)
	binary.LittleEndian.PutUint32(b[4:8], version)
	binary.LittleEndian.PutUint64(b[8:16], tensors)
	binary.LittleEndian.PutUint64(b[16:24], kvs)
	return b
}

// GGUFLoader validates the artifact header and maps the file read-only. The
// mapping is the resident handle.
type GGUFLoader struct{}

func (GGUFLoader) Open(ctx context.Context, path string) (Handle, error) {
	hdr, err := Inspect(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, _ := fsutil.ExpandHome(path)
	r, err := mmap.Open(p)
	if err != nil {
		return nil, ErrResourceExhausted("mmap "+path, err)
	}
	return &mappedHandle{id: uuid.NewString(), path: path, r: r, header: hdr}, nil
}

type mappedHandle struct {
	id     string
	path   string
	r      *mmap.ReaderAt
	header Header
}

func (h *mappedHandle) ID() string     { return h.id }
func (h *mappedHandle) Path() string   { return h.path }
func (h *mappedHandle) Header() Header { return h.header }

func (h *mappedHandle) Size() int64 {
	if h.r == nil {
		return 0
	}
	return int64(h.r.Len())
}

func (h *mappedHandle) Close() error {
	if h.r == nil {
		return nil
	}
	err := h.r.Close()
	h.r = nil
	return err
}
