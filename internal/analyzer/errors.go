package analyzer

import "fmt"

// Code identifies an analysis failure kind.
type Code string

const (
	CodeMediaRootNotFound      Code = "media_root_not_found"
	CodeSeasonIndexNotFound    Code = "season_index_not_found"
	CodeSeasonIndexDuplicated  Code = "season_index_duplicated"
	CodeEpisodeIndexNotFound   Code = "episode_index_not_found"
	CodeEpisodeIndexDuplicated Code = "episode_index_duplicated"
)

// Error is an analysis failure tied to a path. Errors compare equal under
// errors.Is when their codes match, so callers test against the sentinels
// below regardless of path or message.
type Error struct {
	Code    Code
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	// ErrMediaRootNotFound means no folder in scope holds a media file.
	ErrMediaRootNotFound = &Error{Code: CodeMediaRootNotFound, Message: "media root not found"}
	// ErrSeasonIndexNotFound means an unnumbered season folder has siblings.
	ErrSeasonIndexNotFound = &Error{Code: CodeSeasonIndexNotFound, Message: "season index not found"}
	// ErrSeasonIndexDuplicated means two season folders share an index.
	ErrSeasonIndexDuplicated = &Error{Code: CodeSeasonIndexDuplicated, Message: "season index duplicated"}
	// ErrEpisodeIndexNotFound means no episode number could be read from a
	// file name. It never aborts an analysis.
	ErrEpisodeIndexNotFound = &Error{Code: CodeEpisodeIndexNotFound, Message: "episode index not found"}
	// ErrEpisodeIndexDuplicated means two files claim the same episode.
	ErrEpisodeIndexDuplicated = &Error{Code: CodeEpisodeIndexDuplicated, Message: "episode index duplicated"}
)

func newError(code Code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}
