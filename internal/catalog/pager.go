// Package catalog owns the paginated view of previously created sessions.
package catalog

import (
	"strings"

	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/session"
	"github.com/alkime/sessions/pkg/collections"
	"github.com/alkime/sessions/pkg/uictl"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// EmptyMessage is shown when a fetch succeeds with no sessions at all.
const EmptyMessage = "No sessions yet."

// Request is one tagged catalog fetch. Only the most recently issued request
// may be received.
type Request struct {
	Seq      uint64
	Page     int
	PageSize int
}

// Pager tracks the displayed catalog page and the fetch in flight. Displayed
// fields change only when a response for the pending request arrives.
type Pager struct {
	page     int
	pageSize int
	total    int
	items    []session.Session
	loading  bool
	message  string
	filter   string

	seq     uint64
	pending Request
}

var _ uictl.Stepper[int] = (*Pager)(nil)

// New returns a pager on page 1 with the given page size.
func New(pageSize int) *Pager {
	return &Pager{
		page:     1,
		pageSize: clampPageSize(pageSize),
		items:    []session.Session{},
	}
}

func clampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}

	return min(n, MaxPageSize)
}

// Enter refetches the current page, as when the catalog view is (re)opened.
func (p *Pager) Enter() Request {
	return p.request(p.page, p.pageSize)
}

// GoTo requests a specific page.
func (p *Pager) GoTo(page int) Request {
	return p.request(page, p.pageSize)
}

// Next requests the following page. It reports false when navigation is
// disabled.
func (p *Pager) Next() (Request, bool) {
	if !p.CanNext() {
		return Request{}, false
	}

	return p.request(p.page+1, p.pageSize), true
}

// Prev requests the preceding page. It reports false when navigation is
// disabled.
func (p *Pager) Prev() (Request, bool) {
	if !p.CanPrev() {
		return Request{}, false
	}

	return p.request(p.page-1, p.pageSize), true
}

// SetPageSize requests page 1 at a new size.
func (p *Pager) SetPageSize(size int) Request {
	return p.request(1, clampPageSize(size))
}

func (p *Pager) request(page, pageSize int) Request {
	p.seq++
	p.pending = Request{Seq: p.seq, Page: max(page, 1), PageSize: pageSize}
	p.loading = true

	return p.pending
}

// Receive applies a fetch result. Results for anything but the pending
// request are dropped and Receive reports false. On failure the displayed
// items are kept.
func (p *Pager) Receive(req Request, page session.CatalogPage, err error) bool {
	if !p.loading || req != p.pending {
		return false
	}

	p.loading = false

	if err != nil {
		p.message = gateway.Message(err)
		return true
	}

	p.page = max(page.Page, 1)
	p.pageSize = clampPageSize(page.PageSize)
	p.total = max(page.Total, 0)
	p.items = page.Items
	if p.items == nil {
		p.items = []session.Session{}
	}

	p.message = ""
	if p.total == 0 {
		p.message = EmptyMessage
	}

	return true
}

func (p *Pager) Page() int {
	return p.page
}

func (p *Pager) PageSize() int {
	return p.pageSize
}

func (p *Pager) Total() int {
	return p.total
}

func (p *Pager) Items() []session.Session {
	return p.items
}

func (p *Pager) Loading() bool {
	return p.loading
}

func (p *Pager) Message() string {
	return p.message
}

func (p *Pager) Pending() (Request, bool) {
	return p.pending, p.loading
}

func (p *Pager) PageCount() int {
	return session.PageCount(p.total, p.pageSize)
}

func (p *Pager) Read() int {
	return p.page
}

func (p *Pager) Cap() (num, maxPage int) {
	return p.page, p.PageCount()
}

func (p *Pager) CanPrev() bool {
	return !p.loading && p.page > 1
}

func (p *Pager) CanNext() bool {
	return !p.loading && p.page < p.PageCount()
}

func (p *Pager) SetFilter(query string) {
	p.filter = strings.TrimSpace(query)
}

func (p *Pager) Filter() string {
	return p.filter
}

// Visible returns the displayed items matching the filter by title or status.
func (p *Pager) Visible() []session.Session {
	if p.filter == "" {
		return p.items
	}

	query := strings.ToLower(p.filter)

	return collections.Filter(p.items, func(s session.Session) bool {
		return strings.Contains(strings.ToLower(s.Title), query) ||
			strings.Contains(strings.ToLower(s.Status), query)
	})
}
