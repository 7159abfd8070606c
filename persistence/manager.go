package persistence

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/contactgo/blobstore"
	"github.com/hupe1980/contactgo/codec"
	"github.com/hupe1980/contactgo/matrix"
)

// Snapshot is the persisted state of a computed contact map: the radius it
// was computed with and exactly one matrix (raw distances for radius == -1,
// a boolean contact matrix otherwise).
type Snapshot struct {
	Radius  float64
	Dense   *matrix.Dense
	Contact *matrix.Contact
}

// SaveOptions controls snapshot encoding.
type SaveOptions struct {
	// Codec encodes the JSON header. If nil, codec.Default is used.
	// The codec name is recorded in the file, so load never guesses.
	Codec codec.Codec

	// Compression is applied to the matrix payload.
	Compression CompressionType
}

var errSnapshotShape = errors.New("snapshot must hold exactly one of Dense or Contact")

// Save writes a snapshot:
//
//	FileHeader | encoded header | payload length | compressed payload | CRC32
//
// The checksum covers everything before it.
func Save(w io.Writer, snap *Snapshot, opts SaveOptions) error {
	if (snap.Dense == nil) == (snap.Contact == nil) {
		return errSnapshotShape
	}

	c := opts.Codec
	if c == nil {
		c = codec.Default
	}

	kind := uint8(MatrixKindDistance)
	rows, cols := 0, 0
	if snap.Dense != nil {
		rows, cols = snap.Dense.Rows, snap.Dense.Cols
	} else {
		kind = MatrixKindContact
		rows, cols = snap.Contact.Rows, snap.Contact.Cols
	}

	headerBytes, err := c.Marshal(snapshotHeader{
		Radius:      snap.Radius,
		Rows:        rows,
		Cols:        cols,
		CreatedUnix: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode snapshot header: %w", err)
	}

	fh := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		MatrixKind:  kind,
		Compression: uint8(opts.Compression),
		HeaderLen:   uint32(len(headerBytes)),
	}
	copy(fh.CodecName[:], c.Name())

	payload, err := encodePayload(snap)
	if err != nil {
		return err
	}
	block, err := compressBlock(payload, opts.Compression)
	if err != nil {
		return fmt.Errorf("compress snapshot payload: %w", err)
	}

	cw := NewChecksumWriter(w)
	if err := binary.Write(cw, binary.LittleEndian, &fh); err != nil {
		return err
	}
	if _, err := cw.Write(headerBytes); err != nil {
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(block))); err != nil {
		return err
	}
	if _, err := cw.Write(block); err != nil {
		return err
	}

	// Trailer goes to the raw writer; the checksum covers everything above.
	return binary.Write(w, binary.LittleEndian, cw.Sum())
}

// Load reads and verifies a snapshot written by Save.
func Load(r io.Reader) (*Snapshot, error) {
	cr := NewChecksumReader(r)

	var fh FileHeader
	if err := binary.Read(cr, binary.LittleEndian, &fh); err != nil {
		return nil, err
	}
	if fh.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, fh.Magic)
	}
	if fh.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, fh.Version)
	}
	if fh.MatrixKind != MatrixKindDistance && fh.MatrixKind != MatrixKindContact {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMatrixKind, fh.MatrixKind)
	}

	codecName := string(bytes.TrimRight(fh.CodecName[:], "\x00"))
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	headerBytes := make([]byte, fh.HeaderLen)
	if _, err := io.ReadFull(cr, headerBytes); err != nil {
		return nil, err
	}
	var hdr snapshotHeader
	if err := c.Unmarshal(headerBytes, &hdr); err != nil {
		return nil, fmt.Errorf("decode snapshot header: %w", err)
	}

	var blockLen uint32
	if err := binary.Read(cr, binary.LittleEndian, &blockLen); err != nil {
		return nil, err
	}
	block := make([]byte, blockLen)
	if _, err := io.ReadFull(cr, block); err != nil {
		return nil, err
	}

	var expected uint32
	if err := binary.Read(r, binary.LittleEndian, &expected); err != nil {
		return nil, err
	}
	if err := cr.Verify(expected); err != nil {
		return nil, err
	}

	payload, err := decompressBlock(block, CompressionType(fh.Compression))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot payload: %w", err)
	}

	snap := &Snapshot{Radius: hdr.Radius}
	switch fh.MatrixKind {
	case MatrixKindDistance:
		data, err := bytesToFloat32(payload)
		if err != nil {
			return nil, err
		}
		if len(data) != hdr.Rows*hdr.Cols {
			return nil, errors.New("distance payload does not match header dimensions")
		}
		snap.Dense = &matrix.Dense{Rows: hdr.Rows, Cols: hdr.Cols, Data: data}
	case MatrixKindContact:
		contact, err := decodeContact(payload, hdr.Rows, hdr.Cols)
		if err != nil {
			return nil, err
		}
		snap.Contact = contact
	}
	return snap, nil
}

// encodePayload serializes the matrix into the pre-compression payload.
//
// Dense matrices are raw float32 cells. Contact matrices are a sequence of
// rows, each a uint32 byte length (0 for empty) plus the portable roaring
// serialization.
func encodePayload(snap *Snapshot) ([]byte, error) {
	if snap.Dense != nil {
		raw, err := float32Bytes(snap.Dense.Data)
		if err != nil {
			return nil, err
		}
		// Copy: the compressor may outlive the caller's matrix.
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}

	var buf bytes.Buffer
	for i := 0; i < snap.Contact.Rows; i++ {
		bm := snap.Contact.RowBitmap(i)
		if bm == nil || bm.IsEmpty() {
			if err := binary.Write(&buf, binary.LittleEndian, uint32(0)); err != nil {
				return nil, err
			}
			continue
		}
		rowBytes, err := bm.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialize contact row %d: %w", i, err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint32(len(rowBytes))); err != nil {
			return nil, err
		}
		buf.Write(rowBytes)
	}
	return buf.Bytes(), nil
}

func decodeContact(payload []byte, rows, cols int) (*matrix.Contact, error) {
	contact := matrix.NewContact(rows, cols)
	r := bytes.NewReader(payload)

	for i := 0; i < rows; i++ {
		var rowLen uint32
		if err := binary.Read(r, binary.LittleEndian, &rowLen); err != nil {
			return nil, fmt.Errorf("contact row %d length: %w", i, err)
		}
		if rowLen == 0 {
			continue
		}
		rowBytes := make([]byte, rowLen)
		if _, err := io.ReadFull(r, rowBytes); err != nil {
			return nil, fmt.Errorf("contact row %d: %w", i, err)
		}
		bm := roaring.New()
		if _, err := bm.FromBuffer(rowBytes); err != nil {
			return nil, fmt.Errorf("deserialize contact row %d: %w", i, err)
		}
		contact.SetRowBitmap(i, bm)
	}
	return contact, nil
}

// SaveToStore streams a snapshot into a blob store.
func SaveToStore(ctx context.Context, store blobstore.BlobStore, name string, snap *Snapshot, opts SaveOptions) error {
	wb, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := Save(wb, snap, opts); err != nil {
		_ = wb.Close()
		return err
	}
	return wb.Close()
}

// LoadFromStore reads a snapshot from a blob store.
func LoadFromStore(ctx context.Context, store blobstore.BlobStore, name string) (*Snapshot, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data))
}
