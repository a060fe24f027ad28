package quest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is the complete quests document.
type File struct {
	Chapters []*Chapter `json:"chapters"`
	Meta     Meta       `json:"meta"`
}

// Meta carries aggregate counts for the front end.
type Meta struct {
	TotalChapters int `json:"total_chapters"`
	TotalQuests   int `json:"total_quests"`
}

// Builder parses an FTB-Quests configuration tree.
type Builder struct {
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for per-chapter progress.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a quest Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.logger
}

// Build parses every chapter under rootDir (the quests configuration
// directory, containing chapters/ and lang/en_us/) and merges language
// data. A missing chapters directory is a hard error; missing language
// files degrade to filename- and task-derived titles.
func (b *Builder) Build(rootDir string) (*File, error) {
	chaptersDir := filepath.Join(rootDir, "chapters")
	langDir := filepath.Join(rootDir, "lang", "en_us")
	langChaptersDir := filepath.Join(langDir, "chapters")

	names, err := chapterFiles(chaptersDir)
	if err != nil {
		return nil, err
	}

	chTitles := chapterTitles(langDir)
	grTitles := groupTitles(langDir)

	f := &File{Chapters: []*Chapter{}}
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(chaptersDir, name))
		if err != nil {
			return nil, fmt.Errorf("quest: read chapter %s: %w", name, err)
		}
		stem := strings.TrimSuffix(name, ".snbt")
		ch := parseChapter(string(content), stem)

		ch.Title = chTitles[ch.ID]
		if ch.Title == "" {
			ch.Title = strings.ReplaceAll(stem, "_", " ")
		}
		ch.TitlePlain = stripColorCodes(ch.Title)
		ch.GroupTitle = grTitles[ch.Group]

		lang := map[string]*langEntry{}
		if content, err := os.ReadFile(filepath.Join(langChaptersDir, name)); err == nil {
			lang = parseLangChapter(string(content))
		}
		for _, q := range ch.Quests {
			mergeLang(q, lang[q.ID])
		}

		b.log().Info("parsed chapter", "title", ch.TitlePlain, "quests", len(ch.Quests))
		f.Chapters = append(f.Chapters, ch)
		f.Meta.TotalQuests += len(ch.Quests)
	}

	sort.SliceStable(f.Chapters, func(i, j int) bool {
		a, c := f.Chapters[i], f.Chapters[j]
		if a.Order != c.Order {
			return a.Order < c.Order
		}
		return a.TitlePlain < c.TitlePlain
	})
	f.Meta.TotalChapters = len(f.Chapters)
	return f, nil
}

func chapterFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("quest: chapters directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".snbt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// mergeLang fills a quest's display text from its language entry, falling
// back to titles derived from the first task.
func mergeLang(q *Quest, lang *langEntry) {
	if lang != nil && lang.Title != "" {
		q.Title = lang.Title
		q.TitlePlain = stripColorCodes(lang.Title)
	} else {
		q.Title = fallbackTitle(q)
		q.TitlePlain = q.Title
	}
	if lang != nil {
		q.Subtitle = lang.Subtitle
		q.Desc = lang.Desc
	}
}

func fallbackTitle(q *Quest) string {
	if len(q.Tasks) > 0 {
		if item := q.Tasks[0].Item; item != "" {
			return titleCase(leafName(item))
		}
		if entity := q.Tasks[0].Entity; entity != "" {
			return "Kill " + titleCase(leafName(entity))
		}
	}
	id := q.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Quest " + id
}

func leafName(id string) string {
	if i := strings.LastIndex(id, ":"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// WorkingSet returns the unique icon-bearing identifiers of the quests
// document in first-appearance order: chapter icons, then per quest its
// icon, task items, filter items, and kill-target entities. This is the
// atlas packer's input list, so the order must be stable across runs.
func (f *File) WorkingSet() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, ch := range f.Chapters {
		add(ch.Icon)
		for _, q := range ch.Quests {
			add(q.Icon)
			for _, t := range q.Tasks {
				add(t.Item)
				for _, fi := range t.FilterItems {
					add(fi)
				}
				add(t.Entity)
			}
		}
	}
	return out
}

// Write persists the document as compact JSON.
func (f *File) Write(path string) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a document previously produced by Write.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("quest: decode %s: %w", path, err)
	}
	return &f, nil
}
