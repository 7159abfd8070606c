package persistence

import "errors"

const (
	// MagicNumber identifies contactgo snapshot files (ASCII: "CMP0").
	MagicNumber = 0x434D5030
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000

	// Matrix kinds stored in a snapshot.
	MatrixKindDistance = 1 // raw minimum-distance matrix (radius == -1)
	MatrixKindContact  = 2 // thresholded boolean contact matrix
)

var (
	ErrInvalidMagic      = errors.New("invalid magic number")
	ErrInvalidVersion    = errors.New("unsupported version")
	ErrInvalidMatrixKind = errors.New("invalid matrix kind")
	ErrUnknownCodec      = errors.New("unknown codec name in snapshot header")
)

// FileHeader is the fixed-size header at the start of every snapshot file.
// The variable-length JSON header (radius, dimensions) follows immediately,
// encoded with the codec named in CodecName.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	MatrixKind  uint8 // 1=distance, 2=contact
	Compression uint8 // CompressionType of the payload
	Padding     [2]byte
	CodecName   [8]byte // NUL-padded codec name ("json", "go-json")
	HeaderLen   uint32  // length of the encoded JSON header
}

// snapshotHeader is the codec-encoded part of the header.
type snapshotHeader struct {
	Radius      float64 `json:"radius"`
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	CreatedUnix int64   `json:"created_unix"`
}
