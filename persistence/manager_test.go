package persistence

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contactgo/blobstore"
	"github.com/hupe1980/contactgo/codec"
	"github.com/hupe1980/contactgo/matrix"
)

func denseFixture(rows, cols int, seed int64) *matrix.Dense {
	rng := rand.New(rand.NewSource(seed))
	d := matrix.NewDense(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if rng.Float32() < 0.1 {
				continue // leave some cells missing
			}
			d.Set(i, j, rng.Float32()*20)
		}
	}
	return d
}

func contactFixture(rows, cols int, seed int64) *matrix.Contact {
	rng := rand.New(rand.NewSource(seed))
	c := matrix.NewContact(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if rng.Float32() < 0.05 {
				c.Set(i, j)
			}
		}
	}
	return c
}

func TestSaveLoad_DenseRoundTrip(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		snap := &Snapshot{Radius: -1, Dense: denseFixture(40, 30, 42)}

		var buf bytes.Buffer
		require.NoError(t, Save(&buf, snap, SaveOptions{Compression: ct}))

		got, err := Load(&buf)
		require.NoError(t, err)

		assert.Equal(t, -1.0, got.Radius)
		assert.Nil(t, got.Contact)
		assert.True(t, snap.Dense.Equal(got.Dense), "compression %d", ct)
	}
}

func TestSaveLoad_ContactRoundTrip(t *testing.T) {
	snap := &Snapshot{Radius: 6, Contact: contactFixture(50, 50, 7)}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, snap, SaveOptions{Compression: CompressionZSTD}))

	got, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, 6.0, got.Radius)
	assert.Nil(t, got.Dense)
	assert.True(t, snap.Contact.Equal(got.Contact))
}

func TestSaveLoad_CodecRecordedInFile(t *testing.T) {
	snap := &Snapshot{Radius: 4.5, Contact: contactFixture(10, 10, 1)}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, snap, SaveOptions{Codec: codec.JSON{}}))

	// Load never needs to be told the codec.
	got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Radius)
}

func TestSave_RejectsAmbiguousSnapshot(t *testing.T) {
	var buf bytes.Buffer

	err := Save(&buf, &Snapshot{Radius: 6}, SaveOptions{})
	assert.Error(t, err)

	err = Save(&buf, &Snapshot{
		Radius:  6,
		Dense:   matrix.NewDense(1, 1),
		Contact: matrix.NewContact(1, 1),
	}, SaveOptions{})
	assert.Error(t, err)
}

func TestLoad_InvalidMagic(t *testing.T) {
	_, err := Load(bytes.NewReader(make([]byte, 64)))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	snap := &Snapshot{Radius: 6, Contact: contactFixture(20, 20, 3)}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, snap, SaveOptions{}))

	// Corrupt one payload byte (past the fixed header, before the trailer).
	data := buf.Bytes()
	data[len(data)-10] ^= 0xFF

	_, err := Load(bytes.NewReader(data))

	var mismatch *ChecksumMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestLoad_Truncated(t *testing.T) {
	snap := &Snapshot{Radius: 6, Dense: denseFixture(5, 5, 9)}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, snap, SaveOptions{}))

	_, err := Load(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSaveToFile_LoadFromFile(t *testing.T) {
	snap := &Snapshot{Radius: 8, Dense: denseFixture(12, 9, 11)}
	path := filepath.Join(t.TempDir(), "snap.cmap")

	require.NoError(t, SaveToFile(path, func(w io.Writer) error {
		return Save(w, snap, SaveOptions{Compression: CompressionLZ4})
	}))

	var got *Snapshot
	require.NoError(t, LoadFromFile(path, func(r io.Reader) error {
		var err error
		got, err = Load(r)
		return err
	}))

	assert.Equal(t, 8.0, got.Radius)
	assert.True(t, snap.Dense.Equal(got.Dense))
}

func TestSaveToStore_LoadFromStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	snap := &Snapshot{Radius: 6, Contact: contactFixture(15, 15, 5)}
	require.NoError(t, SaveToStore(ctx, store, "maps/a.cmap", snap, SaveOptions{}))

	got, err := LoadFromStore(ctx, store, "maps/a.cmap")
	require.NoError(t, err)
	assert.True(t, snap.Contact.Equal(got.Contact))

	_, err = LoadFromStore(ctx, store, "maps/missing.cmap")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestCompressBlock_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("contact map payload "), 100)

	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		block, err := compressBlock(data, ct)
		require.NoError(t, err)

		out, err := decompressBlock(block, ct)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	}
}

func TestCompressBlock_IncompressibleFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 1024)
	_, _ = rng.Read(data)

	block, err := compressBlock(data, CompressionLZ4)
	require.NoError(t, err)

	// Stored uncompressed: compressed size field is zero.
	assert.Equal(t, uint32(0), uint32(block[4])|uint32(block[5])<<8|uint32(block[6])<<16|uint32(block[7])<<24)

	out, err := decompressBlock(block, CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}
