package contactgo

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/contactgo/blobstore"
	"github.com/hupe1980/contactgo/codec"
	"github.com/hupe1980/contactgo/distance"
	"github.com/hupe1980/contactgo/matrix"
	"github.com/hupe1980/contactgo/model"
	"github.com/hupe1980/contactgo/persistence"
	"github.com/hupe1980/contactgo/resource"
	"github.com/hupe1980/contactgo/tensor"
)

// RawRadius is the sentinel threshold that keeps the raw distance matrix
// instead of reducing it to a boolean contact matrix.
const RawRadius = float64(-1)

// ContactMap computes residue-residue contacts between a pair of molecular
// structures.
//
// A contact map is configured with exactly two structures and a distance
// threshold, then calculated. Calculation is explicit: changing the inputs
// never recomputes anything until Calculate is called again. All methods are
// safe for concurrent use.
type ContactMap struct {
	mu sync.Mutex

	structures [2]*model.Molecule
	radius     float64
	radiusSet  bool

	// Result state of the last successful Calculate (or Load). dense is nil
	// for contact-only snapshots, contact is nil for raw-mode results.
	calculated bool
	dense      *matrix.Dense
	contact    *matrix.Contact

	bondsOnce *sync.Once
	bonds     []*model.Bond
	bondsErr  error

	codec            codec.Codec
	compression      persistence.CompressionType
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	tileRows         int
	parallelism      int
}

// New creates an unconfigured contact map. Structures and a radius must be
// set before Calculate. Most callers should prefer the builder entry points
// (FromMolecules, FromReaders, FromStrings, FromSources).
func New(optFns ...Option) *ContactMap {
	o := applyOptions(optFns)

	return &ContactMap{
		bondsOnce:        &sync.Once{},
		codec:            o.codec,
		compression:      o.compression,
		metricsCollector: o.metricsCollector,
		logger:           o.logger,
		controller:       o.controller,
		tileRows:         o.tileRows,
		parallelism:      o.parallelism,
	}
}

// SetStructures sets the molecule pair. Any previously calculated result and
// any materialized bonds are discarded.
func (cm *ContactMap) SetStructures(a, b *model.Molecule) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.structures = [2]*model.Molecule{a, b}
	cm.resetLocked()
}

// Structures returns the configured molecule pair. Either element may be nil
// if SetStructures has not been called.
func (cm *ContactMap) Structures() (a, b *model.Molecule) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	return cm.structures[0], cm.structures[1]
}

// SetRadius parses and sets the distance threshold from its textual form.
//
// Accepted values are non-negative numbers ("6", "6.0", "0.5") and -1, which
// selects the raw distance mode. Anything else, including other negative
// numbers and the empty string, returns ErrRadiusNotNumber and leaves the
// configured radius unchanged.
func (cm *ContactMap) SetRadius(s string) error {
	radius, err := ParseRadius(s)
	if err != nil {
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.radius = radius
	cm.radiusSet = true
	cm.resetLocked()

	return nil
}

// Radius returns the configured distance threshold and whether one is set.
func (cm *ContactMap) Radius() (float64, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	return cm.radius, cm.radiusSet
}

// ParseRadius validates a textual distance threshold.
//
// Valid thresholds are non-negative finite numbers, plus -1 as the raw-mode
// sentinel. Other negative values are rejected: no distance is ever below
// them, so they can only be typos.
func ParseRadius(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrRadiusNotNumber
	}

	radius, err := strconv.ParseFloat(s, 64)
	if err != nil || radius != radius {
		return 0, ErrRadiusNotNumber
	}
	if radius < 0 && radius != RawRadius {
		return 0, ErrRadiusNotNumber
	}

	return radius, nil
}

// Calculate computes the contact map from the configured structures and
// radius.
//
// Both structures are converted into coordinate tensors, reduced to a
// residue-by-residue minimum atom-atom distance matrix and, unless the radius
// is -1, thresholded into a boolean contact matrix. Residue slots with no
// atoms produce missing cells, never contacts.
//
// On failure the previously calculated result (if any) is left intact.
// Calling Calculate again with unchanged inputs recomputes and yields an
// equal result.
func (cm *ContactMap) Calculate(ctx context.Context) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	start := time.Now()
	dense, contact, err := cm.calculateLocked(ctx)

	cells := 0
	if dense != nil {
		cells = dense.Rows * dense.Cols
	}
	cm.metricsCollector.RecordCalculate(cells, time.Since(start), err)
	cm.logger.LogCalculate(ctx, rowsOf(dense), colsOf(dense), cm.radius, err)

	if err != nil {
		return err
	}

	cm.calculated = true
	cm.dense = dense
	cm.contact = contact
	cm.bondsOnce = &sync.Once{}
	cm.bonds = nil
	cm.bondsErr = nil

	return nil
}

func (cm *ContactMap) calculateLocked(ctx context.Context) (*matrix.Dense, *matrix.Contact, error) {
	a, b := cm.structures[0], cm.structures[1]
	if a == nil || b == nil {
		return nil, nil, ErrNoStructures
	}
	if !cm.radiusSet {
		return nil, nil, ErrNoRadius
	}

	ta := tensor.Build(a)
	tb := tensor.Build(b)

	resultBytes := int64(ta.ResidueSlots) * int64(tb.ResidueSlots) * 4
	if err := cm.controller.AcquireMemory(ctx, resultBytes); err != nil {
		return nil, nil, err
	}
	defer cm.controller.ReleaseMemory(resultBytes)

	dense, err := distance.MinDistances(ctx, ta, tb, distance.FieldOptions{
		TileRows:    cm.tileRows,
		Parallelism: cm.parallelism,
		Controller:  cm.controller,
	})
	if err != nil {
		return nil, nil, err
	}

	if cm.radius == RawRadius {
		return dense, nil, nil
	}

	return dense, matrix.Threshold(dense, float32(cm.radius)), nil
}

// Distances returns the minimum atom-atom distance matrix of the last
// successful Calculate. Returns ErrNotCalculated before the first one, and
// after a Load of a contact-only snapshot (distances are not persisted for
// thresholded maps).
//
// The matrix is shared; callers must not mutate it.
func (cm *ContactMap) Distances() (*matrix.Dense, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.dense == nil {
		return nil, ErrNotCalculated
	}
	return cm.dense, nil
}

// ContactMatrix returns the boolean contact matrix of the last successful
// Calculate. Returns ErrNotCalculated before the first one and ErrRawContacts
// if the map was calculated in raw mode.
//
// The matrix is shared; callers must not mutate it.
func (cm *ContactMap) ContactMatrix() (*matrix.Contact, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.calculated {
		return nil, ErrNotCalculated
	}
	if cm.contact == nil {
		return nil, ErrRawContacts
	}
	return cm.contact, nil
}

// Save writes the calculated result to a snapshot file. For thresholded maps
// the contact matrix is persisted; raw-mode maps persist the distance matrix.
func (cm *ContactMap) Save(ctx context.Context, filename string) error {
	start := time.Now()
	err := cm.save(ctx, filename)
	cm.metricsCollector.RecordSnapshot(time.Since(start), err)
	cm.logger.LogSnapshot(ctx, filename, err)

	return err
}

func (cm *ContactMap) save(ctx context.Context, filename string) error {
	snap, opts, err := cm.snapshot()
	if err != nil {
		return err
	}

	return persistence.SaveToFile(filename, func(w io.Writer) error {
		return persistence.Save(resource.NewRateLimitedWriter(ctx, w, cm.controller), snap, opts)
	})
}

// SaveToStore writes the calculated result into a blob store under name.
func (cm *ContactMap) SaveToStore(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()

	snap, opts, err := cm.snapshot()
	if err == nil {
		err = persistence.SaveToStore(ctx, store, name, snap, opts)
	}

	cm.metricsCollector.RecordSnapshot(time.Since(start), err)
	cm.logger.LogSnapshot(ctx, name, err)

	return err
}

func (cm *ContactMap) snapshot() (*persistence.Snapshot, persistence.SaveOptions, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.calculated {
		return nil, persistence.SaveOptions{}, ErrNotCalculated
	}

	snap := &persistence.Snapshot{Radius: cm.radius}
	if cm.contact != nil {
		snap.Contact = cm.contact
	} else {
		snap.Dense = cm.dense
	}

	return snap, persistence.SaveOptions{
		Codec:       cm.codec,
		Compression: cm.compression,
	}, nil
}

// Load restores a previously saved result from a snapshot file.
//
// The radius is restored from the snapshot. Structures are not part of a
// snapshot and are cleared, so bond materialization requires setting them
// again (which in turn discards the loaded result).
func (cm *ContactMap) Load(ctx context.Context, filename string) error {
	start := time.Now()

	var snap *persistence.Snapshot
	err := persistence.LoadFromFile(filename, func(r io.Reader) error {
		var err error
		snap, err = persistence.Load(resource.NewRateLimitedReader(ctx, r, cm.controller))
		return err
	})

	cm.metricsCollector.RecordLoad(time.Since(start), err)
	cm.logger.LogLoad(ctx, filename, err)

	if err != nil {
		return err
	}
	cm.install(snap)
	return nil
}

// LoadFromStore restores a previously saved result from a blob store.
func (cm *ContactMap) LoadFromStore(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()
	snap, err := persistence.LoadFromStore(ctx, store, name)
	cm.metricsCollector.RecordLoad(time.Since(start), err)
	cm.logger.LogLoad(ctx, name, err)

	if err != nil {
		return err
	}
	cm.install(snap)
	return nil
}

func (cm *ContactMap) install(snap *persistence.Snapshot) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.structures = [2]*model.Molecule{}
	cm.radius = snap.Radius
	cm.radiusSet = true
	cm.calculated = true
	cm.dense = snap.Dense
	cm.contact = snap.Contact
	cm.bondsOnce = &sync.Once{}
	cm.bonds = nil
	cm.bondsErr = nil
}

// resetLocked discards derived state after an input change.
func (cm *ContactMap) resetLocked() {
	cm.calculated = false
	cm.dense = nil
	cm.contact = nil
	cm.bondsOnce = &sync.Once{}
	cm.bonds = nil
	cm.bondsErr = nil
}

func rowsOf(d *matrix.Dense) int {
	if d == nil {
		return 0
	}
	return d.Rows
}

func colsOf(d *matrix.Dense) int {
	if d == nil {
		return 0
	}
	return d.Cols
}
