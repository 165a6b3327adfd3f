package service

import (
	"errors"
	"strings"

	"clipnest/internal/apperr"
	"clipnest/internal/data"
	"clipnest/internal/model"
	"clipnest/internal/repository"
)

type PlaylistInput struct {
	Name            string
	Description     string
	Privacy         string
	IsCollaborative bool
}

type PlaylistService interface {
	Create(userID uint64, in PlaylistInput) (*model.Playlist, error)
	// Get 私有列表只有所有者和管理员可见
	Get(playlistID, viewerID uint64, isAdmin bool) (*model.Playlist, error)
	ListByUser(userID, viewerID uint64, isAdmin bool) ([]model.Playlist, error)
	SearchPublic(keyword string) ([]model.Playlist, error)
	Update(playlistID, userID uint64, isAdmin bool, in PlaylistInput) (*model.Playlist, error)
	Delete(playlistID, userID uint64, isAdmin bool) error

	// AddVideo 追加到末尾（max(position)+1），重复加入返回Conflict
	AddVideo(playlistID, videoID, userID uint64, isAdmin bool) error
	RemoveVideo(playlistID, videoID, userID uint64, isAdmin bool) error
	Entries(playlistID, viewerID uint64, isAdmin bool) ([]model.PlaylistVideo, error)
	// Reorder 按给出的视频ID顺序重排；未列出的条目保持原相对顺序排在后面
	Reorder(playlistID, userID uint64, isAdmin bool, videoIDs []uint64) error
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	uow          data.UnitOfWork
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork) PlaylistService {
	return &playlistService{playlistRepo: playlistRepo, videoRepo: videoRepo, uow: uow}
}

func (s *playlistService) Create(userID uint64, in PlaylistInput) (*model.Playlist, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("播放列表名称不能为空")
	}
	playlist := &model.Playlist{
		UserID:          userID,
		Name:            in.Name,
		Description:     in.Description,
		Privacy:         model.ParsePrivacy(in.Privacy),
		IsCollaborative: in.IsCollaborative,
	}
	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, apperr.Internal(err)
	}
	return playlist, nil
}

func (s *playlistService) Get(playlistID, viewerID uint64, isAdmin bool) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.FindByID(playlistID)
	if err != nil {
		return nil, apperr.Wrap(err, "播放列表不存在", "")
	}
	if playlist.Privacy == model.PrivacyPrivate && playlist.UserID != viewerID && !isAdmin {
		return nil, apperr.NotFound("播放列表不存在")
	}
	return playlist, nil
}

func (s *playlistService) ListByUser(userID, viewerID uint64, isAdmin bool) ([]model.Playlist, error) {
	playlists, err := s.playlistRepo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if userID == viewerID || isAdmin {
		return playlists, nil
	}
	visible := playlists[:0]
	for _, p := range playlists {
		if p.Privacy == model.PrivacyPublic {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// SearchPublic 关键字为空时退化为公开列表全集
func (s *playlistService) SearchPublic(keyword string) ([]model.Playlist, error) {
	keyword = strings.TrimSpace(keyword)
	var (
		playlists []model.Playlist
		err       error
	)
	if keyword == "" {
		playlists, err = s.playlistRepo.FindPublic()
	} else {
		playlists, err = s.playlistRepo.SearchPublic(keyword)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return playlists, nil
}

func (s *playlistService) Update(playlistID, userID uint64, isAdmin bool, in PlaylistInput) (*model.Playlist, error) {
	playlist, err := s.ownedPlaylist(playlistID, userID, isAdmin, false)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("播放列表名称不能为空")
	}
	playlist.Name = in.Name
	playlist.Description = in.Description
	playlist.Privacy = model.ParsePrivacy(in.Privacy)
	playlist.IsCollaborative = in.IsCollaborative
	if err := s.playlistRepo.Save(playlist); err != nil {
		return nil, apperr.Internal(err)
	}
	return playlist, nil
}

func (s *playlistService) Delete(playlistID, userID uint64, isAdmin bool) error {
	if _, err := s.ownedPlaylist(playlistID, userID, isAdmin, false); err != nil {
		return err
	}
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.PlaylistRepo.DeleteEntriesByPlaylist(playlistID); err != nil {
			return err
		}
		return repos.PlaylistRepo.Delete(playlistID)
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *playlistService) AddVideo(playlistID, videoID, userID uint64, isAdmin bool) error {
	if _, err := s.ownedPlaylist(playlistID, userID, isAdmin, true); err != nil {
		return err
	}
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		return apperr.Wrap(err, "视频不存在", "")
	}
	existing, err := s.playlistRepo.FindEntry(playlistID, videoID)
	if err != nil {
		return apperr.Internal(err)
	}
	if existing != nil {
		return apperr.Conflict("视频已在播放列表中")
	}

	return s.uowErr(s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		max, err := repos.PlaylistRepo.MaxPosition(playlistID)
		if err != nil {
			return err
		}
		entry := &model.PlaylistVideo{
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   max + 1,
		}
		return repos.PlaylistRepo.CreateEntry(entry)
	}))
}

func (s *playlistService) RemoveVideo(playlistID, videoID, userID uint64, isAdmin bool) error {
	if _, err := s.ownedPlaylist(playlistID, userID, isAdmin, true); err != nil {
		return err
	}
	entry, err := s.playlistRepo.FindEntry(playlistID, videoID)
	if err != nil {
		return apperr.Internal(err)
	}
	if entry == nil {
		return apperr.NotFound("视频不在播放列表中")
	}

	return s.uowErr(s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.PlaylistRepo.DeleteEntry(playlistID, videoID); err != nil {
			return err
		}
		return renumberPlaylist(repos.PlaylistRepo, playlistID)
	}))
}

func (s *playlistService) Entries(playlistID, viewerID uint64, isAdmin bool) ([]model.PlaylistVideo, error) {
	if _, err := s.Get(playlistID, viewerID, isAdmin); err != nil {
		return nil, err
	}
	entries, err := s.playlistRepo.FindEntries(playlistID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

func (s *playlistService) Reorder(playlistID, userID uint64, isAdmin bool, videoIDs []uint64) error {
	if _, err := s.ownedPlaylist(playlistID, userID, isAdmin, true); err != nil {
		return err
	}

	return s.uowErr(s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		entries, err := repos.PlaylistRepo.FindEntries(playlistID)
		if err != nil {
			return err
		}
		byVideo := make(map[uint64]*model.PlaylistVideo, len(entries))
		for i := range entries {
			byVideo[entries[i].VideoID] = &entries[i]
		}

		// 列出的条目按给出的顺序排前面；不在列表里的ID和重复的ID直接跳过
		position := 0
		seen := make(map[uint64]bool, len(videoIDs))
		for _, videoID := range videoIDs {
			entry, ok := byVideo[videoID]
			if !ok || seen[videoID] {
				continue
			}
			seen[videoID] = true
			position++
			if entry.Position != position {
				if err := repos.PlaylistRepo.UpdatePosition(entry.ID, position); err != nil {
					return err
				}
			}
		}
		// 未列出的保持原相对顺序排在后面
		for i := range entries {
			if seen[entries[i].VideoID] {
				continue
			}
			position++
			if entries[i].Position != position {
				if err := repos.PlaylistRepo.UpdatePosition(entries[i].ID, position); err != nil {
					return err
				}
			}
		}
		return nil
	}))
}

// 协作列表allowCollaborator为true时放行非所有者
func (s *playlistService) ownedPlaylist(playlistID, userID uint64, isAdmin, allowCollaborator bool) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.FindByID(playlistID)
	if err != nil {
		return nil, apperr.Wrap(err, "播放列表不存在", "")
	}
	if playlist.UserID == userID || isAdmin {
		return playlist, nil
	}
	if allowCollaborator && playlist.IsCollaborative && playlist.Privacy == model.PrivacyPublic {
		return playlist, nil
	}
	return nil, apperr.Forbidden("无权操作该播放列表")
}

// 事务回调里的apperr原样透出，其余包成Internal
func (s *playlistService) uowErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(err)
}
