package media

import (
	"regexp"
	"strings"
)

// File classification patterns.
//
// Classification is by extension only. Any archive inside a download tree is
// classified as an archived subtitle.
const (
	videoExts    = `mp4|mkv|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx`
	subtitleExts = `srt|sub|idx|ass|ssa|smi|vtt|sbv|sami|usf|stl|dks|pjs|jss|psb|rt|scc|cap|sup|dfxp|ttml`
	archiveExts  = `zip|rar|7z|tar|gz|tgz`
)

var (
	// videoRe matches video file extensions used to include media files.
	videoRe = regexp.MustCompile(`(?i)\.(` + videoExts + `)$`)

	// subtitleRe matches subtitle file extensions (case‑insensitive).
	subtitleRe = regexp.MustCompile(`(?i)\.(` + subtitleExts + `)$`)

	// archiveRe matches archive extensions that may carry subtitles.
	archiveRe = regexp.MustCompile(`(?i)\.(` + archiveExts + `)$`)

	// nfoRe matches NFO info file extensions.
	nfoRe = regexp.MustCompile(`(?i)\.nfo$`)

	// imageRe matches common image file extensions.
	imageRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|webp|tiff?|ico|svg)$`)

	// langPattern matches trailing language codes before subtitle extension: .en, .eng, .en-US.
	langPattern = regexp.MustCompile(`(\.[a-zA-Z]{2,3}(?:[-_][a-zA-Z]{2,4})?)$`)
)

// FileType is the classification of a file inside a download tree.
type FileType int

const (
	FileOther            FileType = iota // Anything not used by the analysis
	FileMedia                            // Video file
	FileSubtitle                         // Plain subtitle file
	FileArchivedSubtitle                 // Archive expected to carry subtitles
)

func (t FileType) String() string {
	switch t {
	case FileMedia:
		return "MEDIA"
	case FileSubtitle:
		return "SUBTITLE"
	case FileArchivedSubtitle:
		return "ARCHIVED_SUBTITLE"
	default:
		return "OTHER"
	}
}

// MarshalText renders the type with its upper case name.
func (t FileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsSubtitleKind reports whether t is a plain or archived subtitle.
func (t FileType) IsSubtitleKind() bool {
	return t == FileSubtitle || t == FileArchivedSubtitle
}

// Classify returns the FileType for filename based on its extension.
func Classify(filename string) FileType {
	switch {
	case IsVideo(filename):
		return FileMedia
	case IsSubtitle(filename):
		return FileSubtitle
	case IsArchivedSubtitle(filename):
		return FileArchivedSubtitle
	default:
		return FileOther
	}
}

// IsVideo reports whether filename has a recognized video extension.
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// IsSubtitle reports whether filename has a recognized subtitle extension.
func IsSubtitle(filename string) bool {
	return subtitleRe.MatchString(filename)
}

// IsArchivedSubtitle reports whether filename has an archive extension.
func IsArchivedSubtitle(filename string) bool {
	return archiveRe.MatchString(filename)
}

// IsNFO reports whether filename has an NFO extension.
func IsNFO(filename string) bool {
	return nfoRe.MatchString(filename)
}

// IsImage reports whether filename has a recognized image extension.
func IsImage(filename string) bool {
	return imageRe.MatchString(filename)
}

// IsSample reports whether filename or folder name contains "sample".
func IsSample(name string) bool {
	return strings.Contains(strings.ToLower(name), "sample")
}

// ExtractExtension extracts the file extension including the dot. Subtitle
// files keep their language code, so "movie.en.srt" yields ".en.srt".
func ExtractExtension(filename string) string {
	if IsSubtitle(filename) {
		return extractSubtitleSuffix(filename)
	}
	if dotIndex := strings.LastIndex(filename, "."); dotIndex != -1 {
		return filename[dotIndex:]
	}
	return ""
}

// extractSubtitleSuffix extracts the language code and extension from subtitle files.
// For example: "movie.en.srt" returns ".en.srt", "movie.srt" returns ".srt"
func extractSubtitleSuffix(filename string) string {
	subtitleMatch := subtitleRe.FindStringIndex(filename)
	if len(subtitleMatch) == 0 {
		return ""
	}

	beforeExt := filename[:subtitleMatch[0]]
	langMatch := langPattern.FindString(beforeExt)

	return langMatch + filename[subtitleMatch[0]:]
}
