package components

import "github.com/Digital-Shane/treeview"

// Role is what a node in a result tree stands for.
type Role int

const (
	RoleNone     Role = iota
	RoleMovie         // analysed movie title
	RoleShow          // analysed show title
	RoleSeason        // resolved season
	RoleEpisode       // file mapped to an episode number
	RoleMedia         // movie media file
	RoleSubtitle      // plain subtitle file
	RoleArchive       // archived subtitle
	RoleDiverted      // media file left out of the episode map
	RoleGroup         // grouping node such as "Subtitles"
	RoleError         // failed analysis
)

const annotationKey = "lens"

// Annotation is attached to result tree nodes through FileInfo.Extra.
type Annotation struct {
	Role    Role
	Index   int    // season or episode number
	Label   string // display label; the node name when empty
	Detail  string // extra text shown after the label
	Failure string
}

// GetAnnotation returns the annotation of n, or nil.
func GetAnnotation(n *treeview.Node[treeview.FileInfo]) *Annotation {
	if n == nil || n.Data().Extra == nil {
		return nil
	}
	if a, ok := n.Data().Extra[annotationKey].(*Annotation); ok {
		return a
	}
	return nil
}

// Annotate attaches a to n, replacing any previous annotation.
func Annotate(n *treeview.Node[treeview.FileInfo], a *Annotation) {
	if n.Data().Extra == nil {
		n.Data().Extra = map[string]any{}
	}
	n.Data().Extra[annotationKey] = a
}
