package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage archives the source documents of stored conversions.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) MapDir(id string) string {
	return filepath.Join(s.root, id)
}

func (s *FileStorage) SVGPath(id string) string {
	return filepath.Join(s.MapDir(id), "source.svg")
}

func (s *FileStorage) IDMapPath(id string) string {
	return filepath.Join(s.MapDir(id), "idmap.json")
}

func (s *FileStorage) EnsureDir(id string) error {
	if err := os.MkdirAll(s.MapDir(id), 0o755); err != nil {
		return fmt.Errorf("mkdir map dir: %w", err)
	}
	return nil
}

// SaveSources writes the SVG and, when present, the raw id map of a conversion.
func (s *FileStorage) SaveSources(id string, svg, idMap []byte) error {
	if err := s.EnsureDir(id); err != nil {
		return err
	}
	if err := os.WriteFile(s.SVGPath(id), svg, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	if len(idMap) == 0 {
		return nil
	}
	if err := os.WriteFile(s.IDMapPath(id), idMap, 0o644); err != nil {
		return fmt.Errorf("write id map: %w", err)
	}
	return nil
}

func (s *FileStorage) ReadSVG(id string) ([]byte, error) {
	data, err := os.ReadFile(s.SVGPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Remove deletes everything archived for id.
func (s *FileStorage) Remove(id string) error {
	return os.RemoveAll(s.MapDir(id))
}
