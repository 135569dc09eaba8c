package place

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/coverletter/internal/model"
)

// artifactExts are the compiler leftovers removed after every placement attempt.
var artifactExts = []string{"aux", "log"}

// Ensure FilePlacer implements model.Placer.
var _ model.Placer = (*FilePlacer)(nil)

// FilePlacer copies compiled letters into a downloads directory.
type FilePlacer struct {
	downloadsDir string
	logger       *slog.Logger
}

// NewFilePlacer creates a placer that copies letters into downloadsDir.
func NewFilePlacer(downloadsDir string, logger *slog.Logger) *FilePlacer {
	return &FilePlacer{
		downloadsDir: downloadsDir,
		logger:       logger,
	}
}

// CompanySlug replaces the first space of name with an underscore. Later
// spaces are kept.
func CompanySlug(name string) string {
	return strings.Replace(name, " ", "_", 1)
}

// DestinationPath returns {downloadsDir}/{base}_{company}{ext} for pdfPath.
func DestinationPath(pdfPath, companyName, downloadsDir string) string {
	ext := filepath.Ext(pdfPath)
	base := strings.TrimSuffix(filepath.Base(pdfPath), ext)
	return filepath.Join(downloadsDir, fmt.Sprintf("%s_%s%s", base, CompanySlug(companyName), ext))
}

// Place copies pdfPath into the downloads directory. The source is left in
// place. An existing destination is overwritten and reported via Replaced.
func (p *FilePlacer) Place(pdfPath, companyName string) (model.PlacedFile, error) {
	dst := DestinationPath(pdfPath, companyName, p.downloadsDir)

	replaced := false
	if _, err := os.Stat(dst); err == nil {
		replaced = true
		p.logger.Warn("overwriting existing letter", "path", dst)
	}

	if err := copyFile(pdfPath, dst); err != nil {
		return model.PlacedFile{}, &model.PlacementError{Src: pdfPath, Dst: dst, Err: err}
	}

	p.logger.Info("letter placed", "path", dst, "file", filepath.Base(dst))
	return model.PlacedFile{Path: dst, Replaced: replaced}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Cleanup removes {dir}/{baseName}.aux and .log concurrently. Both removals
// are always attempted; each failure is logged and the first is returned as
// a *model.CleanupWarning. Callers treat the result as non-fatal.
func (p *FilePlacer) Cleanup(dir, baseName string) error {
	var g errgroup.Group
	for _, ext := range artifactExts {
		path := filepath.Join(dir, baseName+"."+ext)
		g.Go(func() error {
			if err := os.Remove(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					p.logger.Debug("artifact already gone", "path", path)
				} else {
					p.logger.Warn("failed to remove build artifact", "path", path, "error", err)
				}
				return &model.CleanupWarning{Path: path, Err: err}
			}
			p.logger.Debug("removed build artifact", "path", path)
			return nil
		})
	}
	return g.Wait()
}
