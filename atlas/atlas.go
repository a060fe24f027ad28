// Package atlas packs small textures onto a single fixed-grid sprite
// image with a coordinate manifest, so the browsing application renders
// icons by identifier lookup instead of opening thousands of files.
//
// The layout is deterministic: tiles fill a fixed-column grid in input
// order, every source is forced to the tile size with nearest-neighbor
// resampling, and composition is flushed in bounded batches so the
// compositing backend's per-operation ceiling is never hit.
package atlas

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Defaults match the reference layout: 16px tiles on a 64-column grid,
// flushed well below the backend's hard batch limit.
const (
	DefaultTileSize   = 16
	DefaultColumns    = 64
	DefaultBatchLimit = 2000
)

// ErrEmpty is returned when no source in the working set could be placed.
var ErrEmpty = errors.New("atlas: no tiles placed")

// Icon pairs an identifier with its source texture file.
type Icon struct {
	ID   string
	Path string
}

// Placement is a tile's pixel offset on the atlas.
type Placement struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manifest is the coordinate index persisted next to the atlas image.
// Only successfully placed identifiers appear in Icons.
type Manifest struct {
	Tile   int                  `json:"tile"`
	Cols   int                  `json:"cols"`
	Rows   int                  `json:"rows"`
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
	Icons  map[string]Placement `json:"icons"`
}

// Packer lays out a working set of icons on the grid.
type Packer struct {
	tile       int
	cols       int
	batchLimit int
	workers    int
	skipped    int
	logger     *slog.Logger
}

// Option configures a Packer.
type Option func(*Packer)

// WithTileSize overrides the tile edge length in pixels.
func WithTileSize(px int) Option {
	return func(p *Packer) {
		p.tile = px
	}
}

// WithColumns overrides the grid column count.
func WithColumns(n int) Option {
	return func(p *Packer) {
		p.cols = n
	}
}

// WithBatchLimit overrides the per-flush composition ceiling.
func WithBatchLimit(n int) Option {
	return func(p *Packer) {
		p.batchLimit = n
	}
}

// WithWorkers sets the resample parallelism. Values < 1 use GOMAXPROCS.
// Parallel resampling never changes the output: results are kept in input
// order before any composition happens.
func WithWorkers(n int) Option {
	return func(p *Packer) {
		p.workers = n
	}
}

// WithLogger sets the logger used for per-tile diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Packer) {
		p.logger = logger
	}
}

// NewPacker creates a Packer with the reference defaults.
func NewPacker(opts ...Option) *Packer {
	p := &Packer{
		tile:       DefaultTileSize,
		cols:       DefaultColumns,
		batchLimit: DefaultBatchLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Packer) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.logger
}

// Skipped returns the number of sources dropped during the last Pack
// because they failed to load or resample.
func (p *Packer) Skipped() int { return p.skipped }

// Pack resamples every source to the tile size and composes the atlas.
//
// A source that fails to load contributes no tile and no manifest entry,
// and does not leave a gap: positions are assigned from the
// successfully-placed count, so slots compact around failures. Tile i
// occupies grid cell (i mod cols, i div cols).
func (p *Packer) Pack(icons []Icon) (*image.NRGBA, *Manifest, error) {
	tiles := p.resampleAll(icons)

	ids := make([]string, 0, len(icons))
	placed := make([]*image.NRGBA, 0, len(icons))
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		ids = append(ids, icons[i].ID)
		placed = append(placed, tile)
	}
	p.skipped = len(icons) - len(placed)
	if len(placed) == 0 {
		return nil, nil, ErrEmpty
	}

	rows := (len(placed) + p.cols - 1) / p.cols
	m := &Manifest{
		Tile:   p.tile,
		Cols:   p.cols,
		Rows:   rows,
		Width:  p.cols * p.tile,
		Height: rows * p.tile,
		Icons:  make(map[string]Placement, len(placed)),
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))

	type pending struct {
		img  *image.NRGBA
		x, y int
	}
	batch := make([]pending, 0, min(len(placed), p.batchLimit))
	flush := func() {
		if len(batch) == 0 {
			return
		}
		for _, t := range batch {
			draw.Draw(canvas, image.Rect(t.x, t.y, t.x+p.tile, t.y+p.tile), t.img, image.Point{}, draw.Over)
		}
		// Re-materialize the canvas as the base for subsequent batches.
		next := image.NewNRGBA(canvas.Bounds())
		draw.Draw(next, next.Bounds(), canvas, image.Point{}, draw.Src)
		canvas = next
		batch = batch[:0]
	}

	for i, tile := range placed {
		x := (i % p.cols) * p.tile
		y := (i / p.cols) * p.tile
		m.Icons[ids[i]] = Placement{X: x, Y: y}
		batch = append(batch, pending{img: tile, x: x, y: y})
		if len(batch) >= p.batchLimit {
			flush()
		}
	}
	flush()

	return canvas, m, nil
}

// resampleAll decodes and resamples sources in parallel, keeping results
// in input order. Failed sources yield a nil slot.
func (p *Packer) resampleAll(icons []Icon) []*image.NRGBA {
	workers := p.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	tiles := make([]*image.NRGBA, len(icons))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range icons {
		i := i
		g.Go(func() error {
			tile, err := p.resample(icons[i].Path)
			if err != nil {
				p.log().Warn("skipping tile", "id", icons[i].ID, "path", icons[i].Path, "err", err)
				return nil
			}
			tiles[i] = tile
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are absorbed per-tile
	return tiles
}

// resample decodes a PNG and forces it to tile size with a
// nearest-neighbor kernel, regardless of source dimensions, normalizing
// to a 4-channel buffer. Oversized sources (animation strips,
// high-resolution packs) squash down; exact-size sources copy through.
func (p *Packer) resample(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, p.tile, p.tile))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// WriteImage encodes the atlas losslessly to path.
func WriteImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write persists the coordinate manifest as deterministic JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
