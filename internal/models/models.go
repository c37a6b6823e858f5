package models

import "strings"

// NoWorkLogMessage is reported when no directory produced a commit
const NoWorkLogMessage = "No work log in the given time span"

// WorkLogEntry holds the commit details found in one directory
type WorkLogEntry struct {
	Dir     string   `json:"dir" yaml:"dir"`
	Commits []string `json:"commits" yaml:"commits"`
}

// WorkLog is the ordered set of per-directory entries for one request
type WorkLog struct {
	Entries []WorkLogEntry `json:"entries" yaml:"entries"`
}

// Add appends an entry; directories without commits are ignored
func (w *WorkLog) Add(dir string, commits []string) {
	if len(commits) == 0 {
		return
	}
	w.Entries = append(w.Entries, WorkLogEntry{Dir: dir, Commits: commits})
}

// IsEmpty reports whether no commit was collected
func (w WorkLog) IsEmpty() bool {
	return len(w.Entries) == 0
}

// String renders the log as plain text: every commit detail is followed by
// a newline and every directory block by one more.
func (w WorkLog) String() string {
	if w.IsEmpty() {
		return NoWorkLogMessage
	}

	var sb strings.Builder
	for _, entry := range w.Entries {
		for _, commit := range entry.Commits {
			sb.WriteString(commit)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
