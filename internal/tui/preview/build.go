// Package preview renders analysis results as an interactive tree.
package preview

import (
	"fmt"

	"github.com/Digital-Shane/title-lens/internal/library"
	"github.com/Digital-Shane/title-lens/internal/media"
	"github.com/Digital-Shane/title-lens/internal/metadata"
	"github.com/Digital-Shane/title-lens/internal/tree"
	"github.com/Digital-Shane/title-lens/internal/tui/components"
	"github.com/Digital-Shane/title-lens/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
)

type node = treeview.Node[treeview.FileInfo]

// Build turns scan results into a tree with one top level node per result.
// Failed results become a single error node.
func Build(th theme.Theme, results ...library.Result) *treeview.Tree[treeview.FileInfo] {
	roots := make([]*node, 0, len(results))
	for i, r := range results {
		id := fmt.Sprintf("%d:%s", i, r.Path)
		if r.Err != nil || r.Metadata == nil {
			n := tree.NewNamedNode(id, r.Name, r.Path, true)
			components.Annotate(n, &components.Annotation{Role: components.RoleError, Failure: errText(r.Err)})
			roots = append(roots, n)
			continue
		}
		roots = append(roots, resultNode(id, r.Metadata))
	}
	return treeview.NewTree(roots,
		treeview.WithExpandAll[treeview.FileInfo](),
		treeview.WithProvider(components.CreatePreviewProvider(th)),
	)
}

// BuildMetadata is Build for a single analysis.
func BuildMetadata(th theme.Theme, md *metadata.Metadata) *treeview.Tree[treeview.FileInfo] {
	r := library.Result{Metadata: md}
	if md.Root != nil {
		r.Name = md.Root.Title()
		r.Path = md.Root.Path()
	}
	return Build(th, r)
}

func errText(err error) string {
	if err == nil {
		return "no result"
	}
	return err.Error()
}

func resultNode(id string, md *metadata.Metadata) *node {
	path := ""
	if md.Root != nil {
		path = md.Root.Path()
	}
	a := &components.Annotation{Role: components.RoleMovie, Label: md.Title}
	if md.Type == metadata.TV {
		a.Role = components.RoleShow
	}
	if md.OriginalTitle != md.Title {
		a.Detail = md.OriginalTitle
	}
	root := tree.NewNamedNode(id, md.Title, path, true)
	components.Annotate(root, a)

	if md.Type == metadata.Movie {
		addGroup(root, id+"/media", "Media", md.MediaFiles, components.RoleMedia)
		addGroup(root, id+"/subtitles", "Subtitles", md.Subtitles, 0)
		return root
	}

	for _, idx := range md.SeasonIndices() {
		root.AddChild(seasonNode(fmt.Sprintf("%s/s%d", id, idx), md.Seasons[idx]))
	}
	return root
}

func seasonNode(id string, s *metadata.SeasonMetadata) *node {
	path := ""
	if s.Root != nil {
		path = s.Root.Path()
	}
	n := tree.NewNamedNode(id, s.OriginalTitle, path, true)
	a := &components.Annotation{
		Role:   components.RoleSeason,
		Index:  s.Index,
		Label:  fmt.Sprintf("Season %02d", s.Index),
		Detail: s.OriginalTitle,
	}
	components.Annotate(n, a)

	for _, ep := range s.EpisodeIndices() {
		f := s.Episodes[ep]
		child := tree.NewNamedNode(fmt.Sprintf("%s/e%d", id, ep), f.Title(), f.Path(), false)
		components.Annotate(child, &components.Annotation{Role: components.RoleEpisode, Index: ep})
		n.AddChild(child)
	}
	addGroup(n, id+"/diverted", "Unindexed", s.Diverted, components.RoleDiverted)
	addGroup(n, id+"/subtitles", "Subtitles", s.Subtitles, 0)
	return n
}

// addGroup adds a group node holding files below parent. A zero role picks the
// subtitle or archive role from each file type. Empty groups are skipped.
func addGroup(parent *node, id, label string, files []*tree.File, role components.Role) {
	if len(files) == 0 {
		return
	}
	g := tree.NewNamedNode(id, label, "", true)
	components.Annotate(g, &components.Annotation{
		Role:   components.RoleGroup,
		Detail: fmt.Sprintf("%d", len(files)),
	})
	for i, f := range files {
		r := role
		if r == 0 {
			r = components.RoleSubtitle
			if f.Type() == media.FileArchivedSubtitle {
				r = components.RoleArchive
			}
		}
		child := tree.NewNamedNode(fmt.Sprintf("%s/%d", id, i), f.Title(), f.Path(), false)
		components.Annotate(child, &components.Annotation{Role: r})
		g.AddChild(child)
	}
	parent.AddChild(g)
}
