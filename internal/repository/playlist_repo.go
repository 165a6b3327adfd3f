package repository

import (
	"errors"

	"clipnest/internal/model"

	"gorm.io/gorm"
)

type PlaylistRepository interface {
	Create(playlist *model.Playlist) error
	Save(playlist *model.Playlist) error
	FindByID(playlistID uint64) (*model.Playlist, error)
	FindByUser(userID uint64) ([]model.Playlist, error)
	FindPublic() ([]model.Playlist, error)
	SearchPublic(keyword string) ([]model.Playlist, error)
	Delete(playlistID uint64) error

	// 条目操作。位置编号的不变式由service维护
	FindEntry(playlistID, videoID uint64) (*model.PlaylistVideo, error)
	FindEntries(playlistID uint64) ([]model.PlaylistVideo, error)
	MaxPosition(playlistID uint64) (int, error)
	CreateEntry(entry *model.PlaylistVideo) error
	UpdatePosition(entryID uint64, position int) error
	DeleteEntry(playlistID, videoID uint64) error
	DeleteEntriesByPlaylist(playlistID uint64) error
	FindPlaylistIDsByVideo(videoID uint64) ([]uint64, error)
	DeleteEntriesByVideo(videoID uint64) error

	WithTx(tx *gorm.DB) PlaylistRepository
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) WithTx(tx *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: tx}
}

func (r *playlistRepository) Create(playlist *model.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *playlistRepository) Save(playlist *model.Playlist) error {
	return r.db.Save(playlist).Error
}

func (r *playlistRepository) FindByID(playlistID uint64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.Preload("User").First(&playlist, playlistID).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepository) FindByUser(userID uint64) ([]model.Playlist, error) {
	var playlists []model.Playlist
	err := r.db.Where("user_id = ?", userID).Order("updated_at desc").Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) FindPublic() ([]model.Playlist, error) {
	var playlists []model.Playlist
	err := r.db.Preload("User").
		Where("privacy = ?", model.PrivacyPublic).
		Order("updated_at desc").Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) SearchPublic(keyword string) ([]model.Playlist, error) {
	var playlists []model.Playlist
	like := "%" + keyword + "%"
	err := r.db.Preload("User").
		Where("privacy = ? AND (name LIKE ? OR description LIKE ?)", model.PrivacyPublic, like, like).
		Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) Delete(playlistID uint64) error {
	return r.db.Unscoped().Delete(&model.Playlist{}, playlistID).Error
}

func (r *playlistRepository) FindEntry(playlistID, videoID uint64) (*model.PlaylistVideo, error) {
	var entry model.PlaylistVideo
	err := r.db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *playlistRepository) FindEntries(playlistID uint64) ([]model.PlaylistVideo, error) {
	var entries []model.PlaylistVideo
	err := r.db.Preload("Video").Preload("Video.Uploader").
		Where("playlist_id = ?", playlistID).
		Order("position asc").Find(&entries).Error
	return entries, err
}

func (r *playlistRepository) MaxPosition(playlistID uint64) (int, error) {
	var max int
	err := r.db.Model(&model.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

func (r *playlistRepository) CreateEntry(entry *model.PlaylistVideo) error {
	return r.db.Create(entry).Error
}

func (r *playlistRepository) UpdatePosition(entryID uint64, position int) error {
	return r.db.Model(&model.PlaylistVideo{}).Where("id = ?", entryID).
		UpdateColumn("position", position).Error
}

func (r *playlistRepository) DeleteEntry(playlistID, videoID uint64) error {
	return r.db.Unscoped().
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{}).Error
}

func (r *playlistRepository) DeleteEntriesByPlaylist(playlistID uint64) error {
	return r.db.Unscoped().Where("playlist_id = ?", playlistID).Delete(&model.PlaylistVideo{}).Error
}

func (r *playlistRepository) FindPlaylistIDsByVideo(videoID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.PlaylistVideo{}).
		Where("video_id = ?", videoID).
		Pluck("playlist_id", &ids).Error
	return ids, err
}

func (r *playlistRepository) DeleteEntriesByVideo(videoID uint64) error {
	return r.db.Unscoped().Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{}).Error
}
