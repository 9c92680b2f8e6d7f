package curriculum

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/cfcoach/internal/domain/model"
	"github.com/okian/cfcoach/internal/domain/types"
)

const resourceType = "resource"

// StaticDirectory is an immutable topic → resources table with a default
// list for unknown topics.
type StaticDirectory struct {
	topics   map[string][]types.ResourceRef
	defaults []types.ResourceRef
}

// NewStaticDirectory copies topics and defaults into a directory.
func NewStaticDirectory(topics map[string][]types.ResourceRef, defaults []types.ResourceRef) *StaticDirectory {
	d := &StaticDirectory{topics: make(map[string][]types.ResourceRef, len(topics))}
	for topic, refs := range topics {
		d.topics[model.NormalizeTopic(topic)] = normalizeRefs(refs)
	}
	d.defaults = normalizeRefs(defaults)
	return d
}

// Lookup returns a fresh copy of the topic's resources, or the defaults.
func (d *StaticDirectory) Lookup(_ context.Context, topic string) ([]types.ResourceRef, error) {
	refs, ok := d.topics[model.NormalizeTopic(topic)]
	if !ok {
		refs = d.defaults
	}
	out := make([]types.ResourceRef, len(refs))
	copy(out, refs)
	return out, nil
}

// Defaults returns a copy of the fallback list.
func (d *StaticDirectory) Defaults() []types.ResourceRef {
	out := make([]types.ResourceRef, len(d.defaults))
	copy(out, d.defaults)
	return out
}

// Topics returns the number of topics with dedicated resources.
func (d *StaticDirectory) Topics() int { return len(d.topics) }

func normalizeRefs(refs []types.ResourceRef) []types.ResourceRef {
	out := make([]types.ResourceRef, 0, len(refs))
	for _, r := range refs {
		if r.Name == "" || r.URL == "" {
			continue
		}
		r.Type = resourceType
		out = append(out, r)
	}
	return out
}

// directoryFile is the on-disk YAML layout.
type directoryFile struct {
	Default []types.ResourceRef            `yaml:"default"`
	Topics  map[string][]types.ResourceRef `yaml:"topics"`
}

// LoadDirectory reads a YAML resource file and layers it over base: listed
// topics replace base entries, and a non-empty default list replaces the
// base defaults.
func LoadDirectory(path string, base *StaticDirectory) (*StaticDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrLoadResources, path, err)
	}
	var f directoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrLoadResources, path, err)
	}

	topics := make(map[string][]types.ResourceRef)
	defaults := []types.ResourceRef(nil)
	if base != nil {
		for k, v := range base.topics {
			topics[k] = v
		}
		defaults = base.defaults
	}
	for k, v := range f.Topics {
		topics[k] = v
	}
	if len(f.Default) > 0 {
		defaults = f.Default
	}
	return NewStaticDirectory(topics, defaults), nil
}

func res(name, url string) types.ResourceRef {
	return types.ResourceRef{Type: resourceType, Name: name, URL: url}
}

// DefaultDirectory returns the built-in resource table.
func DefaultDirectory() *StaticDirectory {
	return NewStaticDirectory(map[string][]types.ResourceRef{
		"implementation": {
			res("USACO Guide - Bronze", "https://usaco.guide/bronze/simulation"),
			res("CSES Problem Set", "https://cses.fi/problemset/list/"),
			res("USACO Training Gateway", "https://train.usaco.org/"),
		},
		"math": {
			res("USACO Guide - Math Fundamentals", "https://usaco.guide/bronze/math-cp"),
			res("Project Euler", "https://projecteuler.net/archives"),
			res("IMO Training Materials", "https://www.imo-official.org/problems.aspx"),
		},
		"dp": {
			res("USACO Guide - Gold DP", "https://usaco.guide/gold/dp-paths"),
			res("AtCoder Educational DP", "https://atcoder.jp/contests/dp"),
			res("Errichto DP Guide", "https://github.com/Errichto/youtube/wiki/DP-tutorial"),
		},
		"graphs": {
			res("USACO Guide - Silver Graphs", "https://usaco.guide/silver/graphs"),
			res("CP Algorithms - Graphs", "https://cp-algorithms.com/graph/breadth-first-search.html"),
			res("Competitive Programming Handbook", "https://cses.fi/book/book.pdf#page=119"),
		},
		"data structures": {
			res("USACO Guide - Data Structures", "https://usaco.guide/silver/binary-search"),
			res("Competitive Programming Handbook", "https://cses.fi/book/book.pdf#page=87"),
			res("Algorithms for Competitive Programming", "https://cp-algorithms.com/data_structures/segment_tree.html"),
		},
		"strings": {
			res("USACO Guide - String Processing", "https://usaco.guide/gold/string-fundamentals"),
			res("CP Algorithms - Strings", "https://cp-algorithms.com/string/string-hashing.html"),
			res("HackerRank String Problems", "https://www.hackerrank.com/domains/algorithms?filters%5Bsubdomains%5D%5B%5D=strings"),
		},
		"greedy": {
			res("USACO Guide - Greedy Algorithms", "https://usaco.guide/silver/greedy"),
			res("Competitive Programming Handbook", "https://cses.fi/book/book.pdf#page=63"),
			res("Codeforces EDU - Greedy", "https://codeforces.com/edu/course/2/lesson/2"),
		},
	}, []types.ResourceRef{
		res("USACO Training Gateway", "https://train.usaco.org/"),
		res("Competitive Programming Handbook", "https://cses.fi/book/book.pdf"),
		res("CP Algorithms", "https://cp-algorithms.com/"),
		res("CSES Problem Set", "https://cses.fi/problemset/"),
		res("Codeforces EDU", "https://codeforces.com/edu/courses"),
	})
}
