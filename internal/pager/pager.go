// Package pager renders long listings as button-driven pages. Pages are
// pulled from a lazy source at most once each and cached, so a source may be
// expensive or effectively infinite; already-visited pages never touch the
// source again.
package pager

import (
	"sync"
	"time"
)

// DefaultPageSize is the number of rows per page.
const DefaultPageSize = 7

// DefaultTimeout is how long a listing stays interactive without input.
const DefaultTimeout = 30 * time.Second

// Pair is one rendered row: an embed field heading and body.
type Pair struct {
	Name  string
	Value string
}

// Source produces rows on demand. It returns false when exhausted.
type Source func() (Pair, bool)

// FromSlice adapts a fixed row list into a Source.
func FromSlice(rows []Pair) Source {
	i := 0
	return func() (Pair, bool) {
		if i >= len(rows) {
			return Pair{}, false
		}
		row := rows[i]
		i++
		return row, true
	}
}

// Pager owns the page state of one listing message.
type Pager struct {
	mu       sync.Mutex
	source   Source
	pageSize int
	cache    [][]Pair
	current  int
	lastPage int
}

// New builds a pager over a source with a known total row count. The count
// only sizes the page window; rows are still fetched lazily.
func New(source Source, length, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	lastPage := (length-1)/pageSize + 1
	if lastPage < 1 {
		lastPage = 1
	}
	return &Pager{
		source:   source,
		pageSize: pageSize,
		lastPage: lastPage,
	}
}

// Turn moves by increment pages (0 renders the current page) and returns the
// rows of the resulting page. The page index clamps to [0, lastPage-1].
// Pages between the cache frontier and the target are materialized in order;
// cached pages are served without consulting the source.
func (p *Pager) Turn(increment int) []Pair {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += increment
	if p.current < 0 {
		p.current = 0
	}
	if p.current > p.lastPage-1 {
		p.current = p.lastPage - 1
	}

	for len(p.cache) <= p.current {
		page := make([]Pair, 0, p.pageSize)
		for len(page) < p.pageSize {
			row, ok := p.source()
			if !ok {
				break
			}
			page = append(page, row)
		}
		p.cache = append(p.cache, page)
	}
	return p.cache[p.current]
}

// Page returns the 1-based current page number for footers.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current + 1
}

// LastPage returns the total page count.
func (p *Pager) LastPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPage
}

// Registry binds pagers to listing messages and expires them after an idle
// timeout. Each lookup refreshes the timer, so interaction keeps a listing
// alive; an expired listing simply stops answering its buttons.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
}

type entry struct {
	pager *Pager
	timer *time.Timer
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTimeout
	}
	return &Registry{
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// Bind attaches a pager to a message and starts its expiry clock.
func (r *Registry) Bind(messageID string, p *Pager) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.entries[messageID]; ok {
		old.timer.Stop()
	}
	e := &entry{pager: p}
	e.timer = time.AfterFunc(r.ttl, func() { r.Unbind(messageID) })
	r.entries[messageID] = e
}

// Get returns the pager bound to a message, refreshing its expiry. A false
// return means the listing expired or never existed.
func (r *Registry) Get(messageID string) (*Pager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[messageID]
	if !ok {
		return nil, false
	}
	e.timer.Reset(r.ttl)
	return e.pager, true
}

// Unbind drops a message binding.
func (r *Registry) Unbind(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[messageID]; ok {
		e.timer.Stop()
		delete(r.entries, messageID)
	}
}
