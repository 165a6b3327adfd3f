package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"clipnest/internal/apperr"
	"clipnest/internal/data"
	"clipnest/internal/model"
	"clipnest/internal/repository"
	"clipnest/pkg/logger"
	"clipnest/pkg/storage"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type UploadVideoInput struct {
	Title       string
	Description string
	Tags        []string
	Privacy     string
	CategoryID  *uint64
	Duration    uint
}

// UpdateVideoInput 可选字段更新，nil表示不动
type UpdateVideoInput struct {
	Title       *string
	Description *string
	Tags        []string
	Privacy     *string
	CategoryID  *uint64
}

type VideoService interface {
	Upload(uploaderID uint64, in UploadVideoInput, videoFile, thumbnailFile *multipart.FileHeader) (*model.Video, error)
	// Get 返回视频并把播放数原子加一；私有视频只有所有者和管理员可见
	Get(videoID, viewerID uint64, isAdmin bool) (*model.Video, error)
	Update(videoID, userID uint64, isAdmin bool, in UpdateVideoInput) (*model.Video, error)
	Delete(videoID, userID uint64, isAdmin bool) error

	ListPublic() ([]model.Video, error)
	ListLatest(limit int) ([]model.Video, error)
	ListTopRated(limit int) ([]model.Video, error)
	ListByCategory(categoryID uint64) ([]model.Video, error)
	// 所有者和管理员看到全部，其他人只看到公开已发布的
	ListByUploader(uploaderID, viewerID uint64, isAdmin bool) ([]model.Video, error)
	Search(keyword string, categoryID uint64) ([]model.Video, error)
	Related(videoID uint64, limit int) ([]model.Video, error)

	SetStatus(videoID uint64, status string) (*model.Video, error)
	CountByStatus(status string) (int64, error)
}

type videoService struct {
	sf singleflight.Group

	videoRepo    repository.VideoRepository
	categoryRepo repository.CategoryRepository
	uow          data.UnitOfWork
	store        *storage.Store
}

func NewVideoService(videoRepo repository.VideoRepository, categoryRepo repository.CategoryRepository, uow data.UnitOfWork, store *storage.Store) VideoService {
	return &videoService{
		videoRepo:    videoRepo,
		categoryRepo: categoryRepo,
		uow:          uow,
		store:        store,
	}
}

// 上传：1、校验标题/文件/分类 2、文件落盘 3、建行（PROCESSING）并立即转PUBLISHED
// 没有真实的转码流水线，状态流转只是占位。文件写入和建行不在一个事务里，
// 中间崩溃可能留下孤儿文件，这是接受的代价
func (s *videoService) Upload(uploaderID uint64, in UploadVideoInput, videoFile, thumbnailFile *multipart.FileHeader) (*model.Video, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("标题不能为空")
	}
	if videoFile == nil {
		return nil, apperr.Validation("缺少视频文件")
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*in.CategoryID); err != nil {
			return nil, apperr.Wrap(err, "分类不存在", "")
		}
	}

	filePath, err := s.store.SaveVideo(videoFile)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	var thumbnailPath string
	if thumbnailFile != nil {
		thumbnailPath, err = s.store.SaveThumbnail(thumbnailFile)
		if err != nil {
			_ = s.store.Remove(filePath)
			return nil, apperr.Internal(err)
		}
	}

	video := &model.Video{
		UploaderID:    uploaderID,
		Title:         in.Title,
		Description:   in.Description,
		FilePath:      filePath,
		ThumbnailPath: thumbnailPath,
		Duration:      in.Duration,
		FileSize:      uint64(videoFile.Size),
		CategoryID:    in.CategoryID,
		Privacy:       model.ParsePrivacy(in.Privacy),
		Status:        model.StatusProcessing,
	}
	video.SetTags(in.Tags)

	if err := s.videoRepo.Create(video); err != nil {
		// 建行失败时清掉刚写的文件
		_ = s.store.Remove(filePath)
		_ = s.store.Remove(thumbnailPath)
		return nil, apperr.Internal(err)
	}

	// 立即发布
	video.Status = model.StatusPublished
	if err := s.videoRepo.Save(video); err != nil {
		return nil, apperr.Internal(err)
	}
	return video, nil
}

// 查视频：1、读缓存 2、未命中走SingleFlight查库并回填缓存 3、可见性检查 4、播放数原子加一
func (s *videoService) Get(videoID, viewerID uint64, isAdmin bool) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(videoID)
	if err != nil {
		// Redis本身出错只记日志，降级走数据库
		logger.Log.WithError(err).Warn("视频缓存读取失败")
	}
	if video == nil {
		key := fmt.Sprintf("get_video_%d", videoID)
		result, err, _ := s.sf.Do(key, func() (interface{}, error) {
			dbVideo, dbErr := s.videoRepo.FindByID(videoID)
			if dbErr != nil {
				return nil, dbErr
			}
			_ = s.videoRepo.SetVideoCache(dbVideo)
			return dbVideo, nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("视频不存在")
			}
			return nil, apperr.Internal(err)
		}
		video = result.(*model.Video)
	}

	if video.Privacy == model.PrivacyPrivate && video.UploaderID != viewerID && !isAdmin {
		// 私有视频对外表现为不存在
		return nil, apperr.NotFound("视频不存在")
	}

	if err := s.videoRepo.IncrementViewCount(videoID); err != nil {
		return nil, apperr.Internal(err)
	}
	video.ViewCount++
	return video, nil
}

func (s *videoService) Update(videoID, userID uint64, isAdmin bool, in UpdateVideoInput) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		return nil, apperr.Wrap(err, "视频不存在", "")
	}
	if video.UploaderID != userID && !isAdmin {
		return nil, apperr.Forbidden("无权修改该视频")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("标题不能为空")
		}
		video.Title = *in.Title
	}
	if in.Description != nil {
		video.Description = *in.Description
	}
	if in.Tags != nil {
		video.SetTags(in.Tags)
	}
	if in.Privacy != nil {
		video.Privacy = model.ParsePrivacy(*in.Privacy)
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*in.CategoryID); err != nil {
			return nil, apperr.Wrap(err, "分类不存在", "")
		}
		video.CategoryID = in.CategoryID
	}

	if err := s.videoRepo.Save(video); err != nil {
		return nil, apperr.Internal(err)
	}
	_ = s.videoRepo.InvalidateVideoCache(videoID)
	return video, nil
}

// 删除：1、属主/管理员检查 2、一个事务里清依赖行和视频行 3、提交后尽力删文件
// 文件删除失败只记日志，不影响删除结果
func (s *videoService) Delete(videoID, userID uint64, isAdmin bool) error {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		return apperr.Wrap(err, "视频不存在", "")
	}
	if video.UploaderID != userID && !isAdmin {
		return apperr.Forbidden("无权删除该视频")
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		return deleteVideoCascade(repos, videoID)
	})
	if err != nil {
		return apperr.Internal(err)
	}
	_ = s.videoRepo.InvalidateVideoCache(videoID)

	removeFiles(s.store, video.FilePath, video.ThumbnailPath)
	return nil
}

// deleteVideoCascade 在事务内清掉一个视频的全部依赖行：
// 评论及其点赞、二值评分、星级评分、播放列表条目（并重排受影响的列表）、稍后再看，最后是视频行
func deleteVideoCascade(repos *data.TransactionalRepositories, videoID uint64) error {
	commentIDs, err := repos.CommentRepo.FindIDsByVideo(videoID)
	if err != nil {
		return err
	}
	if err := repos.CommentRepo.DeleteLikesByCommentIDs(commentIDs); err != nil {
		return err
	}
	if err := repos.CommentRepo.DeleteByVideoID(videoID); err != nil {
		return err
	}
	if err := repos.RatingRepo.DeleteByVideoID(videoID); err != nil {
		return err
	}
	if err := repos.RatingRepo.DeleteStarsByVideoID(videoID); err != nil {
		return err
	}

	playlistIDs, err := repos.PlaylistRepo.FindPlaylistIDsByVideo(videoID)
	if err != nil {
		return err
	}
	if err := repos.PlaylistRepo.DeleteEntriesByVideo(videoID); err != nil {
		return err
	}
	// 删掉条目后，受影响的列表重新编号到1..N
	for _, playlistID := range playlistIDs {
		if err := renumberPlaylist(repos.PlaylistRepo, playlistID); err != nil {
			return err
		}
	}

	if err := repos.WatchLaterRepo.DeleteByVideoID(videoID); err != nil {
		return err
	}
	return repos.VideoRepo.Delete(videoID)
}

// renumberPlaylist 把一个列表的position压回连续的1..N
func renumberPlaylist(repo repository.PlaylistRepository, playlistID uint64) error {
	entries, err := repo.FindEntries(playlistID)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		if entry.Position != i+1 {
			if err := repo.UpdatePosition(entry.ID, i+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// removeFiles 提交后的文件清理，失败只记日志
func removeFiles(store *storage.Store, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := store.Remove(p); err != nil {
			logger.Log.WithError(err).WithField("path", p).Warn("删除上传文件失败")
		}
	}
}

func (s *videoService) ListPublic() ([]model.Video, error) {
	videos, err := s.videoRepo.FindPublic()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *videoService) ListLatest(limit int) ([]model.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	videos, err := s.videoRepo.FindLatest(limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *videoService) ListTopRated(limit int) ([]model.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	videos, err := s.videoRepo.FindTopRated(limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *videoService) ListByCategory(categoryID uint64) ([]model.Video, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		return nil, apperr.Wrap(err, "分类不存在", "")
	}
	videos, err := s.videoRepo.FindByCategory(categoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *videoService) ListByUploader(uploaderID, viewerID uint64, isAdmin bool) ([]model.Video, error) {
	publicOnly := uploaderID != viewerID && !isAdmin
	videos, err := s.videoRepo.FindByUploader(uploaderID, publicOnly)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *videoService) Search(keyword string, categoryID uint64) ([]model.Video, error) {
	videos, err := s.videoRepo.Search(strings.TrimSpace(keyword), categoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *videoService) Related(videoID uint64, limit int) ([]model.Video, error) {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		return nil, apperr.Wrap(err, "视频不存在", "")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	videos, err := s.videoRepo.FindRelated(video.CategoryID, videoID, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *videoService) SetStatus(videoID uint64, status string) (*model.Video, error) {
	if !model.ValidStatus(status) {
		return nil, apperr.Validation("无效的视频状态")
	}
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		return nil, apperr.Wrap(err, "视频不存在", "")
	}
	video.Status = status
	if err := s.videoRepo.Save(video); err != nil {
		return nil, apperr.Internal(err)
	}
	_ = s.videoRepo.InvalidateVideoCache(videoID)
	return video, nil
}

func (s *videoService) CountByStatus(status string) (int64, error) {
	count, err := s.videoRepo.CountByStatus(status)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}
