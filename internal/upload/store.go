// Package upload persists article images into the content directory.
package upload

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

// Store writes images below Dir and hands out references below URLPrefix.
type Store struct {
	Dir       string
	URLPrefix string
	MaxSize   int64

	now func() time.Time
}

func NewStore(dir, urlPrefix string, maxSize int64) *Store {
	return &Store{
		Dir:       dir,
		URLPrefix: strings.TrimSuffix(urlPrefix, "/"),
		MaxSize:   maxSize,
		now:       time.Now,
	}
}

// CleanFilename strips directories and surrounding space from a client
// supplied name.
func CleanFilename(filename string) (string, error) {
	filename = strings.ReplaceAll(filename, `\`, "/")
	filename = path.Base(filename)
	filename = strings.TrimSpace(filename)
	if filename == "" || filename == "." || filename == "/" || filename == ".." {
		return "", model.NewError(model.ErrValidation, "Image filename is empty")
	}

	return filename, nil
}

// Save stores src under a timestamp-prefixed name and returns its
// reference, e.g. "/uploads/1718000000000-cover.png".
func (s *Store) Save(filename string, src io.Reader) (string, error) {
	filename, err := CleanFilename(filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrapf(model.ErrStorage, "create upload dir: %v", err)
	}

	stamp := s.now().UnixMilli()
	name := fmt.Sprintf("%d-%s", stamp, filename)

	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if os.IsExist(err) {
		name = fmt.Sprintf("%d-%s-%s", stamp, uuid.NewString()[:8], filename)
		dst, err = os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", errors.Wrapf(model.ErrStorage, "create %s: %v", name, err)
	}

	if err := s.copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrapf(model.ErrStorage, "close %s: %v", name, err)
	}

	return s.URLPrefix + "/" + name, nil
}

// Remove deletes the file behind a reference handed out by Save. A
// reference outside URLPrefix is not ours and is left alone.
func (s *Store) Remove(ref string) error {
	name, ok := strings.CutPrefix(ref, s.URLPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}

	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(model.ErrStorage, "remove %s: %v", name, err)
	}

	return nil
}

func (s *Store) copy(dst io.Writer, src io.Reader) error {
	if s.MaxSize <= 0 {
		if _, err := io.Copy(dst, src); err != nil {
			return errors.Wrapf(model.ErrStorage, "write image: %v", err)
		}
		return nil
	}

	n, err := io.Copy(dst, io.LimitReader(src, s.MaxSize+1))
	if err != nil {
		return errors.Wrapf(model.ErrStorage, "write image: %v", err)
	}
	if n > s.MaxSize {
		return model.NewError(model.ErrValidation, "Image exceeds %d bytes", s.MaxSize)
	}

	return nil
}
