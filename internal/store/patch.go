package store

import (
	"encoding/json"
	"strings"

	"hideseek_webapp/internal/domain"
)

// applyPatch applies the patch to the JSON object form of a game and returns
// the re-decoded result with the version bumped. Working on the object form
// keeps nested-path updates from clobbering sibling fields.
func applyPatch(g *domain.Game, p Patch) (*domain.Game, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	for path, val := range p.Set {
		setPath(doc, strings.Split(path, "."), val)
	}
	for _, path := range p.Delete {
		deletePath(doc, strings.Split(path, "."))
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var next domain.Game
	if err := json.Unmarshal(out, &next); err != nil {
		return nil, err
	}
	next.Version = g.Version + 1
	return &next, nil
}

func setPath(doc map[string]any, path []string, val any) {
	for i := 0; i < len(path)-1; i++ {
		child, ok := doc[path[i]].(map[string]any)
		if !ok {
			child = make(map[string]any)
			doc[path[i]] = child
		}
		doc = child
	}
	// normalize through JSON so structs and maps land the same way
	b, err := json.Marshal(val)
	if err != nil {
		return
	}
	var norm any
	_ = json.Unmarshal(b, &norm)
	doc[path[len(path)-1]] = norm
}

func deletePath(doc map[string]any, path []string) {
	for i := 0; i < len(path)-1; i++ {
		child, ok := doc[path[i]].(map[string]any)
		if !ok {
			return
		}
		doc = child
	}
	delete(doc, path[len(path)-1])
}
