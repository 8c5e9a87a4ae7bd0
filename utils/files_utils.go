package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// LooksLikeDicomName is a conservative filter to skip obviously-non-DICOM
// files. Many PACS exports omit extensions, so extensionless names stay
// in as candidates.
func LooksLikeDicomName(name string) bool {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, ".dcm") || strings.HasSuffix(name, ".dicom") {
		return true
	}
	if !strings.Contains(name, ".") {
		return true
	}
	return false
}

// ListInputFiles expands the given arguments into candidate DICOM files.
// Files are taken as-is; directories are listed one level deep only,
// filtered through LooksLikeDicomName. Recursive discovery is the
// caller's responsibility.
func ListInputFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !LooksLikeDicomName(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(p, e.Name()))
		}
	}
	return files, nil
}
