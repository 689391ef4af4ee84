package dataprocessing

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"genosum/internal/errors"
	"genosum/pkg/contracts/domain"
)

// Failure reasons written to the failed-files log.
const (
	ReasonMissingSegmentMean = "Missing Segment Mean column"
	ReasonNonNumericSegment  = "Non-numeric Segment Mean value"
	reasonReadFailurePrefix  = "read failure: "
)

// FailureRecorder receives files that were skipped during a stage walk.
type FailureRecorder interface {
	Record(entry domain.FailedFile) error
}

// FailureLog is an append-only tab-separated log of skipped files. The file
// is opened and closed on every write.
type FailureLog struct {
	path string
}

// NewFailureLog returns a log writing to path.
func NewFailureLog(path string) *FailureLog {
	return &FailureLog{path: path}
}

// Path returns the log location.
func (l *FailureLog) Path() string {
	return l.path
}

// Reset truncates the log, creating it if needed.
func (l *FailureLog) Reset() error {
	f, err := os.Create(l.path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to reset failure log %s", l.path), err)
	}
	return f.Close()
}

// Record appends one "<path>\t<reason>" line.
func (l *FailureLog) Record(entry domain.FailedFile) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to open failure log %s", l.path), err)
	}

	_, werr := fmt.Fprintf(f, "%s\t%s\n", sanitizeField(entry.Path), sanitizeField(entry.Reason))
	cerr := f.Close()
	if werr != nil {
		return errors.NewStorageError("failed to write failure log entry", werr)
	}
	if cerr != nil {
		return errors.NewStorageError("failed to close failure log", cerr)
	}
	return nil
}

// ReadFailureLog parses a log written by FailureLog. A missing file yields no
// entries.
func ReadFailureLog(path string) ([]domain.FailedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open failure log %s", path), err)
	}
	defer f.Close()

	var entries []domain.FailedFile
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		filePath, reason, _ := strings.Cut(line, "\t")
		entries = append(entries, domain.FailedFile{Path: filePath, Reason: reason})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read failure log", err)
	}
	return entries, nil
}

// sanitizeField keeps an entry on one line with exactly one tab separator.
func sanitizeField(s string) string {
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}
