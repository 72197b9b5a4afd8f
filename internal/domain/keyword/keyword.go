// Package keyword maintains the watch list that decides which scraped
// bulletins count as navigation warnings. Matching is a case-insensitive
// substring test so bilingual keywords hit both "LIVE FIRING" and
// "live firing", and CJK keywords match verbatim.
package keyword

import (
	"sort"
	"strings"
	"sync"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

// defaultKeywords is the bilingual seed list used when no configured list is
// supplied. Simplified-Chinese terms cover mainland MSA bulletins and the
// English terms cover NAVTEX-style phrasing.
var defaultKeywords = []string{
	"军事训练", "MILITARY EXERCISES", "军事演习", "失控", "NOT UNDER COMMAND",
	"ROCKET FIRING", "火箭发射", "NOT UNDER CONTROL", "导弹发射", "MISSILE FIRING",
	"危险操作", "DANGEROUS OPERATIONS", "爆炸物处理", "EXPLOSIVE ORDNANCE", "扫雷作业", "MINE CLEARANCE OPERATIONS",
	"水下作业", "UNDERWATER OPERATIONS", "潜水作业", "DIVING OPERATIONS", "海上演习", "NAVAL EXERCISES",
	"射击演习", "FIRING EXERCISES", "实弹射击", "LIVE FIRING", "军事活动", "MILITARY ACTIVITY",
	"军事行动", "MILITARY OPERATIONS", "封锁区", "RESTRICTED AREA", "禁航区", "NO NAVIGATION AREA",
	"危险区域", "DANGER AREA", "军事封锁", "MILITARY BLOCKADE", "军事禁区", "MILITARY ZONE",
}

// DefaultKeywords returns a copy of the seed watch list.
func DefaultKeywords() []string {
	out := make([]string, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}

// Matcher holds the active watch list. Safe for concurrent use.
type Matcher struct {
	mu       sync.RWMutex
	keywords []string
}

// NewMatcher builds a Matcher from the given keywords, or from the default
// list when keywords is empty. Blank entries are dropped.
func NewMatcher(keywords []string) *Matcher {
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	m := &Matcher{}
	m.Import(keywords)
	return m
}

// Match returns the keywords whose text appears in title, preserving watch
// list order. An empty result means the bulletin is not a warning of
// interest.
func (m *Matcher) Match(title string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	folded := strings.ToLower(title)
	var matched []string
	for _, kw := range m.keywords {
		if strings.Contains(folded, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Matches reports whether the title hits any keyword.
func (m *Matcher) Matches(title string) bool {
	return len(m.Match(title)) > 0
}

// Add registers a keyword. Duplicate check is case-insensitive.
func (m *Matcher) Add(kw string) error {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return errors.New(errors.CodeInvalidParam, "keyword cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(kw) >= 0 {
		return errors.New(errors.CodeKeywordExists, "keyword already exists: "+kw)
	}
	m.keywords = append(m.keywords, kw)
	return nil
}

// Remove drops a keyword from the list.
func (m *Matcher) Remove(kw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(kw)
	if i < 0 {
		return errors.New(errors.CodeKeywordNotFound, "keyword not found: "+kw)
	}
	m.keywords = append(m.keywords[:i], m.keywords[i+1:]...)
	return nil
}

// Update replaces an existing keyword in place, keeping its position.
func (m *Matcher) Update(old, replacement string) error {
	replacement = strings.TrimSpace(replacement)
	if replacement == "" {
		return errors.New(errors.CodeInvalidParam, "keyword cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(old)
	if i < 0 {
		return errors.New(errors.CodeKeywordNotFound, "keyword not found: "+old)
	}
	if j := m.indexOf(replacement); j >= 0 && j != i {
		return errors.New(errors.CodeKeywordExists, "keyword already exists: "+replacement)
	}
	m.keywords[i] = replacement
	return nil
}

// Import merges keywords into the list, skipping blanks and duplicates, and
// returns how many were added.
func (m *Matcher) Import(keywords []string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || m.indexOf(kw) >= 0 {
			continue
		}
		m.keywords = append(m.keywords, kw)
		added++
	}
	return added
}

// Export returns a copy of the current list in watch order.
func (m *Matcher) Export() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// Len returns the number of keywords on the list.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keywords)
}

// Reset restores the default watch list.
func (m *Matcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = append(m.keywords[:0:0], defaultKeywords...)
}

// Sorted returns the keywords in lexical order, for stable display.
func (m *Matcher) Sorted() []string {
	out := m.Export()
	sort.Strings(out)
	return out
}

// indexOf finds kw case-insensitively. Caller holds the lock.
func (m *Matcher) indexOf(kw string) int {
	folded := strings.ToLower(strings.TrimSpace(kw))
	for i, existing := range m.keywords {
		if strings.ToLower(existing) == folded {
			return i
		}
	}
	return -1
}
