package index

import (
	"time"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bastiangx/wordgrid/pkg/grid"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// SuffixTrie keeps every suffix of every line as a trie key.
// The item stored under a suffix is the bitmap of lines it starts in.
type SuffixTrie struct {
	grid *grid.Grid
	trie *patricia.Trie

	suffixCount int
	buildTime   time.Duration
}

// BuildTrie inserts each line suffix, starting at every symbol boundary.
func BuildTrie(g *grid.Grid) *SuffixTrie {
	start := time.Now()
	st := &SuffixTrie{
		grid: g,
		trie: patricia.NewTrie(),
	}

	for id, line := range g.Lines {
		for i := range line {
			key := patricia.Prefix(line[i:])
			if item := st.trie.Get(key); item != nil {
				item.(*roaring.Bitmap).Add(uint32(id))
				continue
			}
			st.trie.Insert(key, roaring.BitmapOf(uint32(id)))
			st.suffixCount++
		}
	}
	st.buildTime = time.Since(start)

	log.Debug("built suffix trie",
		"lines", g.LineCount(),
		"suffixes", st.suffixCount,
		"took", st.buildTime)
	return st
}

// Grid returns the grid the trie was built from.
func (st *SuffixTrie) Grid() *grid.Grid {
	return st.grid
}

func (st *SuffixTrie) fits(word string) bool {
	n := utf8.RuneCountInString(word)
	return n > 0 && n <= st.grid.MaxLineLen()
}

// Probe reports whether word is a prefix of some stored suffix.
func (st *SuffixTrie) Probe(word string) bool {
	if !st.fits(word) {
		return false
	}
	return st.trie.MatchSubtree(patricia.Prefix(word))
}

// Count unions the line sets of every suffix starting with word.
func (st *SuffixTrie) Count(word string) int {
	if !st.fits(word) {
		return 0
	}

	lines := roaring.New()
	err := st.trie.VisitSubtree(patricia.Prefix(word), func(_ patricia.Prefix, item patricia.Item) error {
		lines.Or(item.(*roaring.Bitmap))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting suffix trie for %q: %v", word, err)
		return 0
	}
	return int(lines.GetCardinality())
}

// Stats reports the size of the trie.
func (st *SuffixTrie) Stats() map[string]int {
	return map[string]int{
		"trieLines":    st.grid.LineCount(),
		"trieSuffixes": st.suffixCount,
		"trieBuildUs":  int(st.buildTime.Microseconds()),
	}
}
