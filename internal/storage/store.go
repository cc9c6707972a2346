package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/logger"
)

// ErrOutsideUploads 删除目标不在任何上传类别目录下
var ErrOutsideUploads = stderrors.New("path is outside the upload directories")

// Mirror 本地文件写入或删除后的镜像钩子，如同步到对象存储
type Mirror interface {
	Push(ctx context.Context, url, localPath, contentType string) error
	Remove(ctx context.Context, url string) error
}

// DeleteResult 删除结果，Removed表示确实删除了文件
// 文件本不存在时 Removed=false 且 Err=nil
type DeleteResult struct {
	Removed bool
	Err     error
}

// FileStore 将上传文件保存在 {root}/{类别目录} 下，并以 "/{类别目录}/{文件名}" 作为URL
type FileStore struct {
	root      string
	validator *Validator
	mirror    Mirror
}

// NewFileStore 创建文件存储，root为空时使用进程工作目录
func NewFileStore(root string, validator *Validator) *FileStore {
	return &FileStore{root: root, validator: validator}
}

// SetMirror 设置镜像钩子，nil表示不镜像
func (s *FileStore) SetMirror(m Mirror) {
	s.mirror = m
}

// Root 存储根目录
func (s *FileStore) Root() string {
	return s.root
}

// Save 保存文件并返回相对URL，目录不存在时递归创建，同名文件被覆盖
// contentType 仅用于镜像
func (s *FileStore) Save(ctx context.Context, category Category, r io.Reader, fileName, contentType string) (string, error) {
	policy, err := s.validator.Policy(category)
	if err != nil {
		return "", err
	}
	if fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return "", errors.InvalidArgument("invalid_params").WithDetails(fmt.Sprintf("invalid file name %q", fileName))
	}

	dir := filepath.Join(s.root, filepath.FromSlash(policy.Dir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrFileWriteFailed, err)
	}

	localPath := filepath.Join(dir, fileName)
	if err := writeFile(localPath, r); err != nil {
		return "", errors.Wrap(errors.ErrFileWriteFailed, err)
	}

	url := "/" + policy.Dir + "/" + fileName
	logger.Component("storage").WithField("url", url).Debug("file saved")

	if s.mirror != nil {
		if err := s.mirror.Push(ctx, url, localPath, contentType); err != nil {
			logger.Component("storage").WithField("url", url).Warnf("mirror push failed: %v", err)
		}
	}
	return url, nil
}

func writeFile(localPath string, r io.Reader) error {
	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Delete 按相对URL删除文件，不会panic也不直接返回error
// 是否记录 Err 由调用方决定
func (s *FileStore) Delete(ctx context.Context, url string) DeleteResult {
	localPath, err := s.resolve(url)
	if err != nil {
		return DeleteResult{Err: err}
	}

	if err := os.Remove(localPath); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return DeleteResult{}
		}
		return DeleteResult{Err: err}
	}

	if s.mirror != nil {
		if err := s.mirror.Remove(ctx, url); err != nil {
			logger.Component("storage").WithField("url", url).Warnf("mirror remove failed: %v", err)
		}
	}
	return DeleteResult{Removed: true}
}

// Exists 判断URL对应的本地文件是否存在
func (s *FileStore) Exists(url string) bool {
	localPath, err := s.resolve(url)
	if err != nil {
		return false
	}
	info, err := os.Stat(localPath)
	return err == nil && !info.IsDir()
}

// resolve 去掉开头的一个 "/" 并映射到本地路径，只接受位于某个类别目录下的文件
func (s *FileStore) resolve(url string) (string, error) {
	rel := path.Clean(strings.TrimPrefix(url, "/"))
	if rel == "." || strings.HasPrefix(rel, "..") || strings.HasPrefix(rel, "/") {
		return "", ErrOutsideUploads
	}
	for _, p := range s.validator.policies {
		if strings.HasPrefix(rel, p.Dir+"/") {
			return filepath.Join(s.root, filepath.FromSlash(rel)), nil
		}
	}
	return "", ErrOutsideUploads
}
