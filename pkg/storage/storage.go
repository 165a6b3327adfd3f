package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store 管理上传文件的落盘：uploadDir/videos 和 uploadDir/thumbnails 两个子目录。
// 文件名统一加uuid前缀，避免同名覆盖。
type Store struct {
	uploadDir string
}

func NewStore(uploadDir string) *Store {
	return &Store{uploadDir: uploadDir}
}

// SaveVideo 保存视频文件，返回对外的相对路径 /uploads/videos/{name}
func (s *Store) SaveVideo(file *multipart.FileHeader) (string, error) {
	return s.save(file, "videos")
}

// SaveThumbnail 保存封面文件，返回 /uploads/thumbnails/{name}
func (s *Store) SaveThumbnail(file *multipart.FileHeader) (string, error) {
	return s.save(file, "thumbnails")
}

func (s *Store) save(file *multipart.FileHeader, sub string) (string, error) {
	name := uuid.NewString() + "_" + filepath.Base(file.Filename)
	dir := filepath.Join(s.uploadDir, sub)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return fmt.Sprintf("/uploads/%s/%s", sub, name), nil
}

// Resolve 把对外路径 /uploads/... 换算回磁盘路径，非法路径返回空串
func (s *Store) Resolve(publicPath string) string {
	rel := filepath.Clean("/" + publicPath)
	const prefix = "/uploads/"
	if len(rel) <= len(prefix) || rel[:len(prefix)] != prefix {
		return ""
	}
	return filepath.Join(s.uploadDir, rel[len(prefix):])
}

// Remove 删除文件，文件本来就不存在时视为成功
func (s *Store) Remove(publicPath string) error {
	if publicPath == "" {
		return nil
	}
	disk := s.Resolve(publicPath)
	if disk == "" {
		return nil
	}
	if err := os.Remove(disk); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
