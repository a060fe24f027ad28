package manifest

import (
	"encoding/json"
	"regexp"

	"github.com/packsmith/texatlas/internal/ident"
	"github.com/packsmith/texatlas/jar"
)

var advancementPattern = regexp.MustCompile(`^(?:[^/]+/)?data/([^/]+)/advancements/(.+)\.json$`)

// AdvancementIcons harvests the advancement-id → icon-bearing-identifier
// mapping from advancement definition documents. It shares the archive
// reader with the texture pipeline but is otherwise independent: quest
// data references advancements by id, and the browsing application renders
// them using the icon item's texture.
type AdvancementIcons map[string]string

// Harvest scans one archive's advancement documents into the mapping.
// First document per advancement wins; malformed documents and documents
// without an icon id are skipped.
func (ai AdvancementIcons) Harvest(a *jar.Archive) {
	for _, e := range a.Entries() {
		m := advancementPattern.FindStringSubmatch(e.Path)
		if m == nil {
			continue
		}
		key := ident.Key(m[1], m[2])
		if _, ok := ai[key]; ok {
			continue
		}
		content, err := a.Extract(e)
		if err != nil {
			continue
		}
		icon, ok := advancementIconID(content)
		if !ok {
			continue
		}
		ai[key] = icon
	}
}

// Write persists the mapping with the same deterministic encoding as the
// canonical manifest.
func (ai AdvancementIcons) Write(path string) error {
	return Manifest(ai).Write(path)
}

// advancementIconID digs the icon identifier out of the nested display
// block. Both the modern {"id": ...} and the older {"item": ...} spellings
// occur in the wild.
func advancementIconID(content []byte) (string, bool) {
	var doc struct {
		Display struct {
			Icon struct {
				ID   string `json:"id"`
				Item string `json:"item"`
			} `json:"icon"`
		} `json:"display"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return "", false
	}
	if doc.Display.Icon.ID != "" {
		return doc.Display.Icon.ID, true
	}
	if doc.Display.Icon.Item != "" {
		return doc.Display.Icon.Item, true
	}
	return "", false
}
