package duckdb

import (
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Input is a run input file tagged with its role ("reference", "calls", "mask").
type Input struct {
	Role string
	FileFingerprint
}

// StatInputs fingerprints the given role -> path pairs, skipping empty
// paths and stdin ("-").
func StatInputs(paths map[string]string) ([]Input, error) {
	var inputs []Input
	for _, role := range []string{"reference", "calls", "mask"} {
		path := paths[role]
		if path == "" || path == "-" {
			continue
		}
		fp, err := StatFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{Role: role, FileFingerprint: fp})
	}
	return inputs, nil
}
