package models

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSaveDir = ".saves"
	profileFile    = "profile.yaml"
)

// FileStore keeps a profile as YAML under Dir/Name.
type FileStore struct {
	Dir  string
	Name string
}

// NewFileStore returns a store for the named profile.
func NewFileStore(dir, name string) *FileStore {
	if dir == "" {
		dir = DefaultSaveDir
	}
	return &FileStore{Dir: dir, Name: name}
}

func (s *FileStore) path() string {
	return filepath.Join(s.Dir, s.Name, profileFile)
}

// Load reads the profile. A missing file is an empty profile.
func (s *FileStore) Load(ctx context.Context) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return &Profile{}, nil
	}
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

// Save writes the profile, creating the directory as needed.
func (s *FileStore) Save(ctx context.Context, p *Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Join(s.Dir, s.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	p.Normalize()
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0644)
}

// ListProfiles returns the names of the profiles saved under dir.
func ListProfiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), profileFile)); err == nil {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
