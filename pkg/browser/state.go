package browser

import "slices"

// Mode is the browser's view.
type Mode int

const (
	TreeView Mode = iota
	FileView
)

func (m Mode) String() string {
	if m == FileView {
		return "file"
	}
	return "tree"
}

// State is the complete navigation state of one browser.
//
// The zero State is a closed browser. States are values: [Transition]
// never modifies the slices of the State it is given.
type State struct {
	RepositoryID string
	PathStack    []string // directories entered from the root; empty at the root
	Mode         Mode
	Listing      []Node // sorted listing of the current directory
	File         Node   // file shown in FileView
	Content      string // raw text of File
	ListingErr   error  // inline error for the listing pane
	Alert        error  // last failed file open

	open      bool
	previewed bool
	pending   Effect
	nextID    uint64
}

// IsOpen reports whether a repository is open.
func (s State) IsOpen() bool { return s.open }

// Busy reports whether a fetch is in flight.
func (s State) Busy() bool { return s.pending != nil }

// Pending returns the fetch in flight, or nil.
func (s State) Pending() Effect { return s.pending }

// CurrentPath returns the directory being shown ("" for the root).
func (s State) CurrentPath() string {
	if len(s.PathStack) == 0 {
		return ""
	}
	return s.PathStack[len(s.PathStack)-1]
}

// CanGoBack reports whether Back does anything: always in FileView, and in
// TreeView when below the root.
func CanGoBack(s State) bool {
	return s.open && (s.Mode == FileView || len(s.PathStack) > 0)
}

func (s State) clone() State {
	s.PathStack = slices.Clone(s.PathStack)
	return s
}

// Event is an input to [Transition].
type Event interface{ event() }

// Open starts browsing a repository at its root.
type Open struct{ RepositoryID string }

// Descend enters a directory of the current listing.
type Descend struct{ Node Node }

// OpenFile shows a file of the current listing.
type OpenFile struct{ Node Node }

// Back leaves FileView, or moves to the parent directory in TreeView.
type Back struct{}

// BreadcrumbJump moves to an ancestor directory ("" for the root).
type BreadcrumbJump struct{ Path string }

// Close discards all state.
type Close struct{}

// ListingLoaded completes a [FetchListing].
type ListingLoaded struct {
	ID    uint64
	Nodes []Node
}

// ListingFailed completes a [FetchListing] that failed.
type ListingFailed struct {
	ID  uint64
	Err error
}

// ContentLoaded completes a [FetchContent].
type ContentLoaded struct {
	ID      uint64
	Content string
}

// ContentFailed completes a [FetchContent] that failed.
type ContentFailed struct {
	ID  uint64
	Err error
}

func (Open) event()           {}
func (Descend) event()        {}
func (OpenFile) event()       {}
func (Back) event()           {}
func (BreadcrumbJump) event() {}
func (Close) event()          {}
func (ListingLoaded) event()  {}
func (ListingFailed) event()  {}
func (ContentLoaded) event()  {}
func (ContentFailed) event()  {}

// Effect is the fetch a caller must perform after a transition.
type Effect interface{ effect() }

// None means nothing needs to be fetched.
type None struct{}

// FetchListing asks for the listing of Path. On success the path stack
// becomes Stack.
type FetchListing struct {
	ID           uint64
	RepositoryID string
	Path         string
	Stack        []string
}

// FetchContent asks for the raw text of Node. Auto marks the README
// preview, whose failure is silent.
type FetchContent struct {
	ID           uint64
	RepositoryID string
	Node         Node
	Auto         bool
}

func (None) effect()         {}
func (FetchListing) effect() {}
func (FetchContent) effect() {}
