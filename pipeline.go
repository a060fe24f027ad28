package texatlas

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/packsmith/texatlas/catalog"
	"github.com/packsmith/texatlas/jar"
	"github.com/packsmith/texatlas/manifest"
	"github.com/packsmith/texatlas/resolve"
)

// Pipeline runs the full extraction sequence: scan the mod directory,
// build the texture catalogs, resolve model and geometry indirections,
// harvest advancement icons, and persist the merged manifest.
type Pipeline struct {
	modsDir string
	outDir  string
	baseJar string
	loose   []string
	logger  *slog.Logger
}

// Result summarizes one pipeline run.
type Result struct {
	// Archives is the number of archives read successfully.
	Archives int

	// Items and Blocks count the distinct keys of each catalog store.
	Items  int
	Blocks int

	// Skipped counts archive entries dropped for extraction errors.
	Skipped int

	// Malformed counts model and geometry documents dropped during
	// resolution.
	Malformed int

	// Advancements counts harvested advancement icon mappings.
	Advancements int

	// Manifest is the merged identifier → texture-path mapping, already
	// written to manifest.json under the output directory.
	Manifest manifest.Manifest
}

// New creates a Pipeline reading mod archives from modsDir and writing
// textures and manifests under outDir.
func New(modsDir, outDir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		modsDir: modsDir,
		outDir:  outDir,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.logger
}

// Run executes the pipeline. A missing mod directory is an error; a
// missing or unreadable base jar is skipped silently, since extraction
// from mods alone still yields a usable manifest.
func (p *Pipeline) Run() (*Result, error) {
	jars, err := p.modJars()
	if err != nil {
		return nil, err
	}

	var catOpts []catalog.Option
	var resOpts []resolve.Option
	if p.logger != nil {
		catOpts = append(catOpts, catalog.WithLogger(p.logger))
		resOpts = append(resOpts, resolve.WithLogger(p.logger))
	}
	builder := catalog.NewBuilder(p.outDir, catOpts...)
	resolver := resolve.NewResolver(p.outDir, builder.Items(), builder.Blocks(), resOpts...)
	icons := manifest.AdvancementIcons{}
	result := &Result{}

	for _, path := range jars {
		a, err := jar.Open(path)
		if err != nil {
			p.log().Warn("skipping unreadable archive", "path", path, "error", err)
			continue
		}
		if err := p.consume(builder, resolver, icons, a); err != nil {
			return nil, fmt.Errorf("texatlas: process %s: %w", path, err)
		}
		result.Archives++
	}

	for _, root := range p.loose {
		if err := builder.AddLooseTree(root); err != nil {
			return nil, fmt.Errorf("texatlas: loose tree %s: %w", root, err)
		}
	}

	if p.baseJar != "" {
		if a, err := jar.Open(p.baseJar); err != nil {
			p.log().Debug("base jar unavailable", "path", p.baseJar, "error", err)
		} else {
			if err := p.consume(builder, resolver, icons, a); err != nil {
				return nil, fmt.Errorf("texatlas: process %s: %w", p.baseJar, err)
			}
			result.Archives++
		}
	}

	resolver.Apply()

	m := manifest.Merge(builder.Blocks(), builder.Items())
	if err := m.Write(filepath.Join(p.outDir, "manifest.json")); err != nil {
		return nil, fmt.Errorf("texatlas: write manifest: %w", err)
	}
	if err := icons.Write(filepath.Join(p.outDir, "advancements.json")); err != nil {
		return nil, fmt.Errorf("texatlas: write advancements: %w", err)
	}

	result.Items = builder.Items().Len()
	result.Blocks = builder.Blocks().Len()
	result.Skipped = builder.Skipped()
	result.Malformed = resolver.Malformed()
	result.Advancements = len(icons)
	result.Manifest = m

	p.log().Info("pipeline complete",
		"archives", result.Archives,
		"items", result.Items,
		"blocks", result.Blocks,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (p *Pipeline) consume(builder *catalog.Builder, resolver *resolve.Resolver, icons manifest.AdvancementIcons, a *jar.Archive) error {
	if err := builder.AddArchive(a); err != nil {
		return err
	}
	resolver.ScanArchive(a)
	icons.Harvest(a)
	return nil
}

// modJars lists the archive paths under the mod directory in sorted
// filename order, which doubles as extraction priority.
func (p *Pipeline) modJars() ([]string, error) {
	entries, err := os.ReadDir(p.modsDir)
	if err != nil {
		return nil, fmt.Errorf("texatlas: mods directory: %w", err)
	}
	var jars []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".jar") {
			continue
		}
		jars = append(jars, filepath.Join(p.modsDir, e.Name()))
	}
	sort.Strings(jars)
	return jars, nil
}
