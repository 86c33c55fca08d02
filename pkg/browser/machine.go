package browser

import (
	"slices"
	"strings"
)

// Transition applies ev to s and returns the new state and the fetch the
// caller must perform next. It performs no I/O.
func Transition(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Open:
		next := State{RepositoryID: ev.RepositoryID, Mode: TreeView, open: true, nextID: s.nextID}
		return next.fetchListing("", nil)
	case Close:
		return State{nextID: s.nextID}, None{}
	}

	if !s.open {
		return s, None{}
	}

	switch ev := ev.(type) {
	case Descend, OpenFile, Back, BreadcrumbJump:
		if s.pending != nil {
			return s, None{}
		}
		return s.navigate(ev)
	case ListingLoaded:
		return s.listingLoaded(ev)
	case ListingFailed:
		return s.listingFailed(ev)
	case ContentLoaded:
		return s.contentLoaded(ev)
	case ContentFailed:
		return s.contentFailed(ev)
	}
	return s, None{}
}

func (s State) navigate(ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Descend:
		if s.Mode != TreeView || !ev.Node.IsDir() {
			return s, None{}
		}
		stack := append(slices.Clone(s.PathStack), ev.Node.Path)
		return s.fetchListing(ev.Node.Path, stack)

	case OpenFile:
		if s.Mode != TreeView || ev.Node.IsDir() {
			return s, None{}
		}
		return s.fetchContent(ev.Node, false)

	case Back:
		if s.Mode == FileView {
			next := s.clone()
			next.Mode = TreeView
			next.File = Node{}
			next.Content = ""
			return next, None{}
		}
		if len(s.PathStack) == 0 {
			return s, None{}
		}
		stack := slices.Clone(s.PathStack[:len(s.PathStack)-1])
		return s.fetchListing(top(stack), stack)

	case BreadcrumbJump:
		if s.Mode != TreeView {
			return s, None{}
		}
		path := strings.Trim(ev.Path, "/")
		if path == s.CurrentPath() && s.ListingErr == nil {
			return s, None{}
		}
		return s.fetchListing(path, stackFor(s.PathStack, path))
	}
	return s, None{}
}

func (s State) listingLoaded(ev ListingLoaded) (State, Effect) {
	pending, ok := s.pending.(FetchListing)
	if !ok || pending.ID != ev.ID {
		return s, None{}
	}

	next := s.clone()
	next.pending = nil
	next.PathStack = slices.Clone(pending.Stack)
	next.Listing = SortListing(ev.Nodes)
	next.ListingErr = nil
	next.Mode = TreeView

	if len(next.PathStack) == 0 && !next.previewed {
		next.previewed = true
		if readme, ok := findReadme(next.Listing); ok {
			return next.fetchContent(readme, true)
		}
	}
	return next, None{}
}

func (s State) listingFailed(ev ListingFailed) (State, Effect) {
	pending, ok := s.pending.(FetchListing)
	if !ok || pending.ID != ev.ID {
		return s, None{}
	}
	next := s.clone()
	next.pending = nil
	next.ListingErr = ev.Err
	return next, None{}
}

func (s State) contentLoaded(ev ContentLoaded) (State, Effect) {
	pending, ok := s.pending.(FetchContent)
	if !ok || pending.ID != ev.ID {
		return s, None{}
	}
	next := s.clone()
	next.pending = nil
	next.Mode = FileView
	next.File = pending.Node
	next.Content = ev.Content
	next.Alert = nil
	return next, None{}
}

func (s State) contentFailed(ev ContentFailed) (State, Effect) {
	pending, ok := s.pending.(FetchContent)
	if !ok || pending.ID != ev.ID {
		return s, None{}
	}
	next := s.clone()
	next.pending = nil
	if !pending.Auto {
		next.Alert = ev.Err
	}
	return next, None{}
}

func (s State) fetchListing(path string, stack []string) (State, Effect) {
	next := s.clone()
	next.nextID++
	eff := FetchListing{ID: next.nextID, RepositoryID: s.RepositoryID, Path: path, Stack: stack}
	next.pending = eff
	return next, eff
}

func (s State) fetchContent(node Node, auto bool) (State, Effect) {
	next := s.clone()
	next.nextID++
	if !auto {
		next.Alert = nil
	}
	eff := FetchContent{ID: next.nextID, RepositoryID: s.RepositoryID, Node: node, Auto: auto}
	next.pending = eff
	return next, eff
}

// stackFor returns the path stack for jumping to path: the current stack
// truncated at path, or the path's own prefixes when it is not on the stack.
func stackFor(stack []string, path string) []string {
	if path == "" {
		return nil
	}
	if i := slices.Index(stack, path); i >= 0 {
		return slices.Clone(stack[:i+1])
	}
	var out []string
	segments := strings.Split(path, "/")
	for i := range segments {
		out = append(out, strings.Join(segments[:i+1], "/"))
	}
	return out
}

func top(stack []string) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1]
}
