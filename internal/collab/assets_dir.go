package collab

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirAssets implements Assets by reading loose files from configured
// directories. Decoding CG/archive container formats is out of scope
// (spec's non-goals exclude file-format decoders); LoadCG and LoadData
// hand back the raw bytes for a caller-supplied decoder to interpret,
// which is enough to exercise every collaborator boundary this runtime
// dispatches through without adopting a specific title's container
// format.
type DirAssets struct {
	MESDir  string
	CGDir   string
	DataDir string

	curMES string
	curCG  string
}

func (a *DirAssets) LoadMES(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(a.MESDir, name))
	if err != nil {
		return nil, fmt.Errorf("collab: load mes %s: %w", name, err)
	}
	a.curMES = name
	return data, nil
}

func (a *DirAssets) LoadCG(name string) (*CG, error) {
	data, err := os.ReadFile(filepath.Join(a.CGDir, name))
	if err != nil {
		return nil, fmt.Errorf("collab: load cg %s: %w", name, err)
	}
	a.curCG = name
	return &CG{Pixels: data}, nil
}

func (a *DirAssets) LoadData(name string) (*ArchiveFile, error) {
	data, err := os.ReadFile(filepath.Join(a.DataDir, name))
	if err != nil {
		return nil, fmt.Errorf("collab: load data %s: %w", name, err)
	}
	return &ArchiveFile{Data: data}, nil
}

func (a *DirAssets) CurrentMESName() string { return a.curMES }
func (a *DirAssets) CurrentCGName() string  { return a.curCG }
