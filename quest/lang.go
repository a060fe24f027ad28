package quest

import (
	"os"
	"path/filepath"
	"regexp"
)

// langEntry is the translated text for one quest.
type langEntry struct {
	Title    string
	Subtitle string
	Desc     []string
}

var (
	langQuestTitle    = regexp.MustCompile(`quest\.([0-9A-Fa-f]+)\.title\s*:\s*"((?:[^"\\]|\\.)*)"`)
	langQuestSubtitle = regexp.MustCompile(`quest\.([0-9A-Fa-f]+)\.quest_subtitle\s*:\s*"((?:[^"\\]|\\.)*)"`)
	langQuestDesc     = regexp.MustCompile(`quest\.([0-9A-Fa-f]+)\.quest_desc\s*:\s*\[`)
	langChapterTitle  = regexp.MustCompile(`chapter\.([0-9A-Fa-f]+)\.title\s*:\s*"((?:[^"\\]|\\.)*)"`)
	langGroupTitle    = regexp.MustCompile(`chapter_group\.([0-9A-Fa-f]+)\.title\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// parseLangChapter reads the per-quest translations of one chapter lang
// file.
func parseLangChapter(text string) map[string]*langEntry {
	text = normalizeEOL(text)
	data := make(map[string]*langEntry)
	entry := func(id string) *langEntry {
		if e, ok := data[id]; ok {
			return e
		}
		e := &langEntry{}
		data[id] = e
		return e
	}

	for _, m := range langQuestTitle.FindAllStringSubmatch(text, -1) {
		entry(m[1]).Title = unescape(m[2])
	}
	for _, m := range langQuestSubtitle.FindAllStringSubmatch(text, -1) {
		entry(m[1]).Subtitle = unescape(m[2])
	}
	for _, m := range langQuestDesc.FindAllStringSubmatchIndex(text, -1) {
		id := text[m[2]:m[3]]
		body := balancedFrom(text, m[1]-1, '[', ']')
		entry(id).Desc = listStrings(body)
	}
	return data
}

// titlesFromFile reads hex-id→title pairs matched by re from a lang file.
// A missing file yields an empty map; chapters then fall back to their
// filename-derived titles.
func titlesFromFile(path string, re *regexp.Regexp) map[string]string {
	titles := make(map[string]string)
	content, err := os.ReadFile(path)
	if err != nil {
		return titles
	}
	text := normalizeEOL(string(content))
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		titles[m[1]] = unescape(m[2])
	}
	return titles
}

func chapterTitles(langDir string) map[string]string {
	return titlesFromFile(filepath.Join(langDir, "chapter.snbt"), langChapterTitle)
}

func groupTitles(langDir string) map[string]string {
	return titlesFromFile(filepath.Join(langDir, "chapter_group.snbt"), langGroupTitle)
}
