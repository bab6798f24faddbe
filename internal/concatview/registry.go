package concatview

import (
	"errors"
	"sync"

	"github.com/dshills/notebookconcat/internal/concat"
	"github.com/dshills/notebookconcat/internal/event"
	"github.com/dshills/notebookconcat/internal/lsp"
	"github.com/dshills/notebookconcat/internal/notebook"
)

// Registry errors.
var (
	// ErrAlreadyOpen indicates the notebook already has a view.
	ErrAlreadyOpen = errors.New("notebook view already open")

	// ErrNotOpen indicates the notebook has no view.
	ErrNotOpen = errors.New("notebook view not open")
)

// Registry owns the adapters of a set of open notebooks. A view is disposed
// when it is closed through the registry or when its notebook closes.
type Registry struct {
	mu     sync.RWMutex
	access NotebookAccess
	opts   []Option
	views  map[lsp.DocumentURI]*Adapter
	subs   map[lsp.DocumentURI]*event.Subscription
}

// NewRegistry creates a registry whose adapters are built with access and opts.
func NewRegistry(access NotebookAccess, opts ...Option) *Registry {
	return &Registry{
		access: access,
		opts:   opts,
		views:  make(map[lsp.DocumentURI]*Adapter),
		subs:   make(map[lsp.DocumentURI]*event.Subscription),
	}
}

// Open creates the view of nb.
func (r *Registry) Open(nb *notebook.Notebook, sel concat.Selector) (*Adapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uri := nb.URI()
	if _, exists := r.views[uri]; exists {
		return nil, ErrAlreadyOpen
	}

	a := New(nb, r.access, sel, r.opts...)
	r.views[uri] = a
	r.subs[uri] = nb.OnDidChange(func(c notebook.Change) {
		if c.Kind == notebook.ChangeClosed {
			_ = r.Close(uri)
		}
	})
	return a, nil
}

// Close disposes the view of the notebook identified by uri.
func (r *Registry) Close(uri lsp.DocumentURI) error {
	r.mu.Lock()
	a, exists := r.views[uri]
	sub := r.subs[uri]
	delete(r.views, uri)
	delete(r.subs, uri)
	r.mu.Unlock()

	if !exists {
		return ErrNotOpen
	}
	sub.Unsubscribe()
	a.Dispose()
	return nil
}

// CloseAll disposes every view.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views, subs := r.views, r.subs
	r.views = make(map[lsp.DocumentURI]*Adapter)
	r.subs = make(map[lsp.DocumentURI]*event.Subscription)
	r.mu.Unlock()

	for uri, a := range views {
		subs[uri].Unsubscribe()
		a.Dispose()
	}
}

// Get returns the view of the notebook identified by uri.
func (r *Registry) Get(uri lsp.DocumentURI) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.views[uri]
	return a, ok
}

// Len returns the number of open views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// ViewOf returns the view containing the cell identified by uri.
func (r *Registry) ViewOf(uri lsp.DocumentURI) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.views {
		if a.IsCellOfDocument(uri) {
			return a, true
		}
	}
	return nil, false
}

// ConcatDocument returns the view owning doc, or doc itself when no open
// view contains it.
func (r *Registry) ConcatDocument(doc notebook.TextDocument) notebook.TextDocument {
	if a, ok := r.ViewOf(doc.URI()); ok {
		return a.GetConcatDocument(doc)
	}
	return doc
}
