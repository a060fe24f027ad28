package quest

import (
	"regexp"
	"strings"
)

// Task is one quest objective. Reward-style tasks (xp, loot, random,
// choice) are dropped at parse time; the browsing application only renders
// obtainable objectives.
type Task struct {
	Type        string   `json:"type"`
	Item        string   `json:"item,omitempty"`
	Count       int      `json:"count,omitempty"`
	FilterItems []string `json:"filter_items,omitempty"`
	Entity      string   `json:"entity,omitempty"`
	Advancement string   `json:"advancement,omitempty"`
	Biome       string   `json:"biome,omitempty"`
	Dimension   string   `json:"dimension,omitempty"`
	Structure   string   `json:"structure,omitempty"`
}

// Quest is one node on a chapter's quest map.
type Quest struct {
	ID         string   `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Shape      string   `json:"shape"`
	Size       float64  `json:"size"`
	Deps       []string `json:"deps,omitempty"`
	Invisible  bool     `json:"invisible,omitempty"`
	Icon       string   `json:"icon,omitempty"`
	Tasks      []Task   `json:"tasks,omitempty"`
	Title      string   `json:"title"`
	TitlePlain string   `json:"title_plain"`
	Subtitle   string   `json:"subtitle,omitempty"`
	Desc       []string `json:"desc,omitempty"`
}

// Image is a decorative image placed on a chapter map. Large decorative
// images bypass the atlas and are copied as standalone files.
type Image struct {
	Image    string  `json:"image"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Rotation float64 `json:"rotation"`
}

// Chapter is one parsed chapter file plus its language data.
type Chapter struct {
	ID         string   `json:"id"`
	Filename   string   `json:"filename"`
	Group      string   `json:"group"`
	Order      int      `json:"order"`
	Icon       string   `json:"icon"`
	Images     []Image  `json:"images"`
	Quests     []*Quest `json:"quests"`
	Title      string   `json:"title"`
	TitlePlain string   `json:"title_plain"`
	GroupTitle string   `json:"group_title"`
}

const (
	defaultOrder = 999
	defaultShape = "rsquare"
)

var (
	hexID          = regexp.MustCompile(`(?m)^\t?id\s*:\s*"([0-9A-Fa-f]+)"`)
	hexGroup       = regexp.MustCompile(`(?m)^\t?group\s*:\s*"([0-9A-Fa-f]+)"`)
	orderIndex     = regexp.MustCompile(`(?m)^\t?order_index\s*:\s*(\d+)`)
	chapterIconRe  = regexp.MustCompile(`(?m)^\t?icon\s*:\s*"([^"]+)"`)
	chapterImages  = regexp.MustCompile(`(?m)^\timages\s*:\s*\[`)
	questsList     = regexp.MustCompile(`\bquests\s*:\s*\[`)
	questID        = regexp.MustCompile(`(?m)^\s*id\s*:\s*"([0-9A-Fa-f]+)"`)
	questIconStr   = regexp.MustCompile(`(?m)^\s*icon\s*:\s*"([^"]+)"`)
	questIconBlock = regexp.MustCompile(`(?ms)^\s*icon\s*:\s*\{[^}]*\bid\s*:\s*"([^"]+)"`)
	hexString      = regexp.MustCompile(`"([0-9A-Fa-f]+)"`)
	invisibleTrue  = regexp.MustCompile(`\binvisible\s*:\s*true\b`)
	smartFilter    = regexp.MustCompile(`"ftbfiltersystem:filter"\s*:\s*"([^"]+)"`)
	filterItem     = regexp.MustCompile(`\bitem\(([^)]+)\)`)
)

// droppedTaskTypes are reward-ish task kinds excluded from output.
var droppedTaskTypes = map[string]bool{
	"xp": true, "xp_levels": true, "random": true, "loot": true, "choice": true,
}

// parseChapter parses one chapter file's text. filename is the file's stem
// and doubles as the title fallback key.
func parseChapter(text, filename string) *Chapter {
	text = normalizeEOL(text)

	ch := &Chapter{
		Filename: filename,
		Order:    defaultOrder,
		Images:   []Image{},
		Quests:   []*Quest{},
	}
	if m := hexID.FindStringSubmatch(text); m != nil {
		ch.ID = m[1]
	}
	if m := hexGroup.FindStringSubmatch(text); m != nil {
		ch.Group = m[1]
	}
	if m := orderIndex.FindStringSubmatch(text); m != nil {
		ch.Order = atoiOr(m[1], defaultOrder)
	}
	if m := chapterIconRe.FindStringSubmatch(text); m != nil {
		ch.Icon = m[1]
	}

	shape := defaultShape
	if s, ok := stringField(text, "default_quest_shape"); ok && s != "" {
		shape = s
	}

	ch.Images = parseChapterImages(text)

	if loc := questsList.FindStringIndex(text); loc != nil {
		body := balancedFrom(text, loc[1]-1, '[', ']')
		for _, qb := range topBlocks(body) {
			if q := parseQuestBlock(qb, shape); q != nil {
				ch.Quests = append(ch.Quests, q)
			}
		}
	}
	return ch
}

// parseChapterImages reads the chapter-level decorative images list.
func parseChapterImages(text string) []Image {
	images := []Image{}
	loc := chapterImages.FindStringIndex(text)
	if loc == nil {
		return images
	}
	body := balancedFrom(text, loc[1]-1, '[', ']')
	for _, b := range topBlocks(body) {
		ref, ok := stringField(b, "image")
		x, xok := numField(b, "x")
		y, yok := numField(b, "y")
		if !ok || !xok || !yok {
			continue
		}
		img := Image{Image: ref, X: x, Y: y, W: 1, H: 1}
		if w, ok := numField(b, "width"); ok && w != 0 {
			img.W = w
		}
		if h, ok := numField(b, "height"); ok && h != 0 {
			img.H = h
		}
		if r, ok := numField(b, "rotation"); ok {
			img.Rotation = r
		}
		images = append(images, img)
	}
	return images
}

// parseQuestBlock parses one quest block; nil when the block carries no id.
func parseQuestBlock(block, shape string) *Quest {
	m := questID.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	q := &Quest{ID: m[1], Shape: shape, Size: 1}

	if x, ok := numField(block, "x"); ok {
		q.X = x
	}
	if y, ok := numField(block, "y"); ok {
		q.Y = y
	}
	if s, ok := stringField(block, "shape"); ok && s != "" {
		q.Shape = s
	}
	if s, ok := numField(block, "size"); ok && s != 0 {
		q.Size = s
	}
	if deps := inlineList(block, "dependencies"); deps != "" {
		for _, dm := range hexString.FindAllStringSubmatch(deps, -1) {
			q.Deps = append(q.Deps, dm[1])
		}
	}
	q.Invisible = invisibleTrue.MatchString(block)

	if im := questIconStr.FindStringSubmatch(block); im != nil {
		q.Icon = im[1]
	} else if im := questIconBlock.FindStringSubmatch(block); im != nil {
		q.Icon = im[1]
	}

	for _, tb := range listBlocks(block, "tasks") {
		task := parseTask(tb)
		if droppedTaskTypes[task.Type] {
			continue
		}
		q.Tasks = append(q.Tasks, task)
	}
	return q
}

// parseTask parses one task block. The item field is either a plain string
// or a nested block with id/count and, for smart filters, an embedded
// filter expression listing the accepted items.
func parseTask(block string) Task {
	taskType := "item"
	if t, ok := stringField(block, "type"); ok && t != "" {
		taskType = t
	}
	task := Task{Type: taskType}

	switch taskType {
	case "item":
		if itemBlock, ok := nestedBlock(block, "item"); ok {
			id, _ := stringField(itemBlock, "id")
			task.Item = id
			if count, ok := numField(itemBlock, "count"); ok && count > 1 {
				task.Count = int(count)
			}
			if id == "ftbfiltersystem:smart_filter" {
				if fm := smartFilter.FindStringSubmatch(itemBlock); fm != nil {
					task.FilterItems = uniqueFilterItems(fm[1])
				}
			}
		} else if item, ok := stringField(block, "item"); ok {
			task.Item = item
		}
	case "kill":
		if entity, ok := stringField(block, "entity"); ok {
			task.Entity = entity
		}
		if value, ok := numField(block, "value"); ok && value > 1 {
			task.Count = int(value)
		}
	case "advancement":
		task.Advancement, _ = stringField(block, "advancement")
	case "biome":
		task.Biome, _ = stringField(block, "biome")
	case "dimension":
		task.Dimension, _ = stringField(block, "dimension")
	case "structure":
		task.Structure, _ = stringField(block, "structure")
	}
	return task
}

// uniqueFilterItems extracts item(...) ids from a filter expression,
// deduplicated in first-appearance order.
func uniqueFilterItems(expr string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range filterItem.FindAllStringSubmatch(expr, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	return out
}

func atoiOr(s string, fallback int) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// stripColorCodes removes &x formatting codes from a title. The code
// character may be any rune; a trailing lone '&' is kept.
func stripColorCodes(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		if runes[i] == '&' && i+1 < len(runes) {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// titleCase converts an identifier leaf ("gem_ore") to a display title
// ("Gem Ore").
func titleCase(leaf string) string {
	words := strings.Split(strings.ReplaceAll(leaf, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
