package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Digital-Shane/title-lens/internal/tree"
)

// MediaType tags the kind of title an analysis produced.
type MediaType string

const (
	Movie MediaType = "movie"
	TV    MediaType = "tv"
)

// ParseMediaType maps user input such as "movie", "Movies" or "show" onto a
// MediaType.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film":
		return Movie, nil
	case "tv", "show", "shows", "series":
		return TV, nil
	}
	return "", fmt.Errorf("unknown media type %q (want movie or tv)", s)
}

// SeasonMetadata describes one season of a show.
//
// Every key of Episodes is unique and maps to exactly one file. Files whose
// episode number could not be read, or whose number was already taken, are
// listed in Diverted and never appear in Episodes.
type SeasonMetadata struct {
	Index         int                `json:"index"`
	Title         string             `json:"title"`
	OriginalTitle string             `json:"original_title"`
	Root          *tree.Folder       `json:"root"`
	MediaRoot     *tree.Folder       `json:"media_root"`
	MediaFiles    []*tree.File       `json:"media_files"`
	Subtitles     []*tree.File       `json:"subtitles"`
	Episodes      map[int]*tree.File `json:"episodes"`
	Diverted      []*tree.File       `json:"diverted,omitempty"`
}

// EpisodeIndices returns the episode numbers in ascending order.
func (s *SeasonMetadata) EpisodeIndices() []int {
	out := make([]int, 0, len(s.Episodes))
	for idx := range s.Episodes {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Metadata is the result of analysing one library entry. Movie results carry
// MediaFiles and Subtitles; TV results carry Seasons.
type Metadata struct {
	Type          MediaType               `json:"type"`
	Title         string                  `json:"title"`
	OriginalTitle string                  `json:"original_title"`
	Root          *tree.Folder            `json:"root"`
	MediaRoot     *tree.Folder            `json:"media_root"`
	MediaFiles    []*tree.File            `json:"media_files,omitempty"`
	Subtitles     []*tree.File            `json:"subtitles,omitempty"`
	Seasons       map[int]*SeasonMetadata `json:"seasons,omitempty"`
}

// SeasonIndices returns the season numbers in ascending order.
func (m *Metadata) SeasonIndices() []int {
	out := make([]int, 0, len(m.Seasons))
	for idx := range m.Seasons {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// EpisodeCount sums the indexed episodes of every season.
func (m *Metadata) EpisodeCount() int {
	total := 0
	for _, s := range m.Seasons {
		total += len(s.Episodes)
	}
	return total
}

// DivertedCount sums the diverted files of every season.
func (m *Metadata) DivertedCount() int {
	total := 0
	for _, s := range m.Seasons {
		total += len(s.Diverted)
	}
	return total
}

// MediaFileCount counts media files for movies and shows alike.
func (m *Metadata) MediaFileCount() int {
	if m.Type == Movie {
		return len(m.MediaFiles)
	}
	total := 0
	for _, s := range m.Seasons {
		total += len(s.MediaFiles)
	}
	return total
}

// SubtitleCount counts subtitle files for movies and shows alike. A subtitle
// list shared by several seasons is counted once per season.
func (m *Metadata) SubtitleCount() int {
	if m.Type == Movie {
		return len(m.Subtitles)
	}
	total := 0
	for _, s := range m.Seasons {
		total += len(s.Subtitles)
	}
	return total
}
