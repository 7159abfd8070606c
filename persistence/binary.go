// Package persistence serializes computed contact maps into a sectioned,
// checksummed, optionally compressed binary snapshot format.
package persistence

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"unsafe"

	"io"
)

// float32Bytes reinterprets a float32 slice as raw bytes without copying.
//
// Byte order is native. Snapshots are little-endian in practice (x86, ARM);
// validateAlignment guards the unsafe conversion.
func float32Bytes(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	if err := validateAlignment(unsafe.Pointer(&vec[0]), 4); err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vec[0])), len(vec)*4), nil
}

// bytesToFloat32 copies raw little-endian bytes into a fresh float32 slice.
func bytesToFloat32(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, errors.New("float32 payload length not a multiple of 4")
	}
	out := make([]float32, len(data)/4)
	if len(out) == 0 {
		return out, nil
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(data)), data)
	return out, nil
}

func validateAlignment(p unsafe.Pointer, align uintptr) error {
	if uintptr(p)%align != 0 {
		return errors.New("slice not aligned for unsafe conversion")
	}
	return nil
}

// SaveToFile writes a snapshot to a file via a temp file plus atomic rename.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the final file.
	tmpName = ""
	return nil
}

// LoadFromFile reads a snapshot from a file.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewReaderSize(f, 256*1024)
	return readFunc(buf)
}
