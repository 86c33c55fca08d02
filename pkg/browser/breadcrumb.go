package browser

import "strings"

// RootLabel is the label of the root breadcrumb.
const RootLabel = "root"

// Crumb is one breadcrumb segment.
type Crumb struct {
	Label   string
	Path    string // target for BreadcrumbJump; "" is the root
	Current bool   // the directory being shown; not navigable
}

// Breadcrumbs derives the breadcrumb trail from the top of the path stack.
// The root crumb is always first. Only the last crumb is marked current.
func Breadcrumbs(s State) []Crumb {
	crumbs := []Crumb{{Label: RootLabel, Path: ""}}

	current := s.CurrentPath()
	if current != "" {
		segments := strings.Split(current, "/")
		for i, seg := range segments {
			crumbs = append(crumbs, Crumb{
				Label: seg,
				Path:  strings.Join(segments[:i+1], "/"),
			})
		}
	}
	crumbs[len(crumbs)-1].Current = true
	return crumbs
}
