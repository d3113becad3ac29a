package filesystem

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

const (
	// Slab sizes used by fzf itself for its matcher.
	slab16Size = 100 * 1024
	slab32Size = 2048

	DefaultSearchLimit = 50
)

var algoInitOnce sync.Once

// SearchResult is one fuzzy match.
type SearchResult struct {
	Node  *FileNode `json:"node"`
	Score int       `json:"score"`
} // @name SearchResult

// Search fuzzy-matches query against the names of every node under root
// (root itself excluded) and returns the best matches first. A limit of zero
// or less uses DefaultSearchLimit.
func (fs *Filesystem) Search(query, root string, limit int) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	root = lib.Normalize(root)
	algoInitOnce.Do(func() { algo.Init("default") })

	pattern := []rune(strings.ToLower(query))
	slab := util.MakeSlab(slab16Size, slab32Size)

	fs.mu.RLock()
	var results []SearchResult
	for p, node := range fs.nodes {
		if p == root || !lib.IsWithin(p, root) {
			continue
		}
		chars := util.ToChars([]byte(node.Name))
		res, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
		if res.Start < 0 || res.Score <= 0 {
			continue
		}
		results = append(results, SearchResult{Node: node.clone(), Score: res.Score})
	}
	fs.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Node.Path < results[j].Node.Path
	})
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []SearchResult{}
	}
	return results
}
