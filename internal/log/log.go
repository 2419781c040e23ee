// Package log keeps a history of analysis sessions as JSON files under
// ~/.title-lens/logs.
package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Digital-Shane/title-lens/internal/analyzer"
	"github.com/Digital-Shane/title-lens/internal/logger"
	"github.com/Digital-Shane/title-lens/internal/metadata"
)

// AnalysisLog records the outcome of analysing one root folder.
type AnalysisLog struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	MediaType     metadata.MediaType `json:"media_type"`
	Path          string             `json:"path"`
	Title         string             `json:"title,omitempty"`
	OriginalTitle string             `json:"original_title,omitempty"`
	Seasons       []int              `json:"seasons,omitempty"`
	Episodes      int                `json:"episodes"`
	MediaFiles    int                `json:"media_files"`
	Subtitles     int                `json:"subtitles"`
	Diverted      []string           `json:"diverted,omitempty"`
	Success       bool               `json:"success"`
	ErrorCode     string             `json:"error_code,omitempty"`
	Error         string             `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs []string  `json:"command_args"`
	WorkingDir  string    `json:"working_dir"`
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	Total       int       `json:"total_analyses"`
	Succeeded   int       `json:"successful_analyses"`
	Failed      int       `json:"failed_analyses"`
}

type LogSession struct {
	Metadata SessionMetadata `json:"metadata"`
	Analyses []AnalysisLog   `json:"analyses"`
}

// Global singleton session manager
var (
	currentSession *LogSession
	sessionMutex   sync.Mutex
	loggingEnabled = true
)

// StartSession initializes a new logging session
func StartSession(command string, args []string) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	now := time.Now()
	sessionID := fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000)

	currentSession = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Timestamp:   now,
			SessionID:   sessionID,
		},
		Analyses: []AnalysisLog{},
	}

	return nil
}

// EndSession saves the current session to disk. Sessions without analyses
// are dropped.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return nil
	}

	session := currentSession
	currentSession = nil
	if len(session.Analyses) == 0 {
		return nil
	}

	updateStats(session)
	return WriteSession(session)
}

// LogAnalysis records the result of analysing path in the current session.
// Exactly one of md and err is expected to be set.
func LogAnalysis(mediaType metadata.MediaType, path string, md *metadata.Metadata, err error) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return
	}

	entry := AnalysisLog{
		ID:        fmt.Sprintf("%s_%d", currentSession.Metadata.SessionID, len(currentSession.Analyses)),
		Timestamp: time.Now(),
		MediaType: mediaType,
		Path:      path,
		Success:   err == nil && md != nil,
	}

	if md != nil {
		entry.Title = md.Title
		entry.OriginalTitle = md.OriginalTitle
		entry.MediaFiles = md.MediaFileCount()
		entry.Subtitles = md.SubtitleCount()
		if md.Type == metadata.TV {
			entry.Seasons = md.SeasonIndices()
			entry.Episodes = md.EpisodeCount()
			for _, idx := range entry.Seasons {
				for _, f := range md.Seasons[idx].Diverted {
					entry.Diverted = append(entry.Diverted, f.Path())
				}
			}
		}
	}

	if err != nil {
		entry.Error = err.Error()
		var aerr *analyzer.Error
		if errors.As(err, &aerr) {
			entry.ErrorCode = string(aerr.Code)
		}
	}

	currentSession.Analyses = append(currentSession.Analyses, entry)
}

// updateStats updates the session statistics
func updateStats(session *LogSession) {
	succeeded := 0
	for _, a := range session.Analyses {
		if a.Success {
			succeeded++
		}
	}

	session.Metadata.Total = len(session.Analyses)
	session.Metadata.Succeeded = succeeded
	session.Metadata.Failed = len(session.Analyses) - succeeded
}

// Initialize sets up the logging system with the given configuration
func Initialize(enabled bool, retentionDays int) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	loggingEnabled = enabled

	if enabled {
		// Clean up old logs on initialization
		if err := cleanupOldLogsUnsafe(retentionDays); err != nil {
			logger.Get().Warnw("failed to clean up old history logs", "error", err)
		}
	}
}

// LogDir returns the history directory.
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".title-lens", "logs"), nil
}

func GetLogPath() (string, error) {
	logDir, err := LogDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s.%06d.json",
		now.Format("2006-01-02_150405"),
		now.Nanosecond()/1000)

	return filepath.Join(logDir, filename), nil
}

func WriteSession(session *LogSession) error {
	if session == nil {
		return nil
	}

	logPath, err := GetLogPath()
	if err != nil {
		return fmt.Errorf("failed to get log path: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(logPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}

	return nil
}

func ReadSession(logPath string) (*LogSession, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// ReadSessions returns up to limit sessions, newest first. A limit of zero
// or less returns every session.
func ReadSessions(limit int) ([]*LogSession, error) {
	logDir, err := LogDir()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return []*LogSession{}, nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// File names start with the timestamp
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*LogSession, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			logger.Get().Debugw("skipping unreadable history file", "file", file, "error", err)
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// cleanupOldLogsUnsafe performs cleanup without acquiring mutex (assumes caller holds it)
func cleanupOldLogsUnsafe(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	logDir, err := LogDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list log files: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				logger.Get().Warnw("failed to remove old history file", "file", file, "error", err)
			}
		}
	}

	return nil
}
