package validation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"genosum/internal/errors"
)

// FileValidator checks run inputs and outputs before any work starts.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateBaseFolder checks that dir exists and is a directory. A folder with
// no stage subdirectories is valid but logged.
func (v *FileValidator) ValidateBaseFolder(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.ErrorContext(ctx, "Base folder does not exist",
			slog.String("directory", dir))
		return errors.NewNotFoundError(fmt.Sprintf("base folder %s", dir), err)
	}
	if err != nil {
		v.logger.ErrorContext(ctx, "Failed to stat base folder",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.ErrorContext(ctx, "Base folder is not a directory",
			slog.String("path", dir))
		return errors.NewValidationError(fmt.Sprintf("%s is not a directory", dir))
	}

	stages, err := v.countSubdirectories(dir)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to read directory %s", dir), err)
	}
	if stages == 0 {
		v.logger.WarnContext(ctx, "Base folder has no stage directories",
			slog.String("directory", dir))
		return nil
	}

	v.logger.InfoContext(ctx, "Base folder validated",
		slog.String("directory", dir),
		slog.Int("stages_found", stages))
	return nil
}

// ValidateOutputDirectory ensures dir exists or can be created and is
// writable.
func (v *FileValidator) ValidateOutputDirectory(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.ErrorContext(ctx, "Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	file, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.ErrorContext(ctx, "Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(file.Name())

	v.logger.DebugContext(ctx, "Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that path can be written as a file: its parent
// directory must be writable and path itself must not be a directory.
func (v *FileValidator) ValidateOutputFile(ctx context.Context, path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.ErrorContext(ctx, "Output path is a directory",
			slog.String("path", path))
		return errors.NewValidationError(fmt.Sprintf("output path %s is a directory", path))
	}
	return v.ValidateOutputDirectory(ctx, filepath.Dir(path))
}

func (v *FileValidator) countSubdirectories(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err == nil && info.IsDir() {
			count++
		}
	}
	return count, nil
}
