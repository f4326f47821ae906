package boundary

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ResolvePath determines which file to load a boundary shapefile from.
// The uncompressed .shp is preferred; otherwise the .zip archive is
// extracted under tempDir/label and the inner .shp located. When neither
// exists the error names both attempted paths.
func ResolvePath(shpPath, zipPath, label, tempDir string) (string, error) {
	if shpPath != "" {
		if _, err := os.Stat(shpPath); err == nil {
			return shpPath, nil
		}
	}

	if zipPath != "" {
		if _, err := os.Stat(zipPath); err == nil {
			extractDir := filepath.Join(tempDir, strings.ToLower(label))
			if err := os.MkdirAll(extractDir, 0o755); err != nil {
				return "", eris.Wrapf(err, "boundary: create extract dir for %s", label)
			}
			if err := extractZIP(zipPath, extractDir); err != nil {
				return "", eris.Wrapf(err, "boundary: extract %s archive", label)
			}
			return findFileByExt(extractDir, ".shp")
		}
	}

	return "", eris.Errorf(
		"%s: local shapefile not found; expected at either %q or %q",
		label, shpPath, zipPath,
	)
}

// extractZIP extracts a ZIP archive's files flat into the destination
// directory, ignoring directory entries and archive-internal paths.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		out, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = out.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
