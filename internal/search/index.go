package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Document 可检索文档，Fields 中每个字段独立参与匹配
type Document struct {
	ID     string
	Fields []string
}

// Result 检索结果
type Result struct {
	ID    string
	Score int
}

// Searcher 检索接口
type Searcher interface {
	Search(query string) []Result
}

// Index 在固定语料上做模糊检索
// 查询字符需按顺序出现在某个字段中（忽略大小写），
// 文档取各字段最高分，按分数降序，同分保持语料顺序。
type Index struct {
	docs     []Document
	fields   fieldSource
	minScore int
}

// Option 索引选项
type Option func(*Index)

// WithMinScore 丢弃低于该分数的匹配，0 表示不过滤
func WithMinScore(score int) Option {
	return func(idx *Index) {
		idx.minScore = score
	}
}

type fieldEntry struct {
	doc  int
	text string
}

type fieldSource []fieldEntry

func (s fieldSource) String(i int) string { return s[i].text }

func (s fieldSource) Len() int { return len(s) }

// NewIndex 构建索引
func NewIndex(docs []Document, opts ...Option) *Index {
	idx := &Index{docs: append([]Document(nil), docs...)}
	for _, opt := range opts {
		opt(idx)
	}
	for i, doc := range idx.docs {
		for _, field := range doc.Fields {
			text := strings.ToLower(strings.TrimSpace(field))
			if text == "" {
				continue
			}
			idx.fields = append(idx.fields, fieldEntry{doc: i, text: text})
		}
	}
	return idx
}

// Len 文档数量
func (idx *Index) Len() int {
	return len(idx.docs)
}

// Search 检索，空查询按语料顺序返回全部文档
func (idx *Index) Search(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		all := make([]Result, 0, len(idx.docs))
		for _, doc := range idx.docs {
			all = append(all, Result{ID: doc.ID})
		}
		return all
	}

	best := make(map[int]int)
	for _, match := range fuzzy.FindFrom(query, idx.fields) {
		if idx.minScore != 0 && match.Score < idx.minScore {
			continue
		}
		doc := idx.fields[match.Index].doc
		if score, seen := best[doc]; !seen || match.Score > score {
			best[doc] = match.Score
		}
	}

	order := make([]int, 0, len(best))
	for doc := range best {
		order = append(order, doc)
	}
	sort.Ints(order)
	sort.SliceStable(order, func(i, j int) bool {
		return best[order[i]] > best[order[j]]
	})

	results := make([]Result, 0, len(order))
	for _, doc := range order {
		results = append(results, Result{ID: idx.docs[doc].ID, Score: best[doc]})
	}
	return results
}
