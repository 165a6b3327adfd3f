package repository

import (
	"clipnest/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	Save(comment *model.Comment) error
	FindByID(commentID uint64) (*model.Comment, error)
	Delete(commentIDs []uint64) error
	DeleteByVideoID(videoID uint64) error

	// 分页获取视频的一级评论，置顶优先，其余按时间倒序
	FindRootsByVideo(videoID uint64, offset, limit int) ([]model.Comment, error)
	// 根据父评论ID列表批量获取回复，按时间正序；禁用的评论在每一层都被过滤
	FindRepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error)
	// 不过滤禁用状态的版本，级联删除时用来收集整棵子树
	FindReplyIDsByParentIDs(parentIDs []uint64) ([]uint64, error)
	// 视频下全部评论ID（含回复、含禁用），视频级联删除时清点赞表用
	FindIDsByVideo(videoID uint64) ([]uint64, error)
	// 用户发表的全部评论ID（含禁用），用户级联删除时收集子树用
	FindIDsByUser(userID uint64) ([]uint64, error)

	// 整个可见集合的点赞数，一条GROUP BY查询，避免N+1
	CountLikesByCommentIDs(commentIDs []uint64) (map[uint64]int64, error)
	// 当前用户在可见集合里点过赞的评论ID
	FindLikedCommentIDs(userID uint64, commentIDs []uint64) ([]uint64, error)
	CreateLike(like *model.CommentLike) error
	DeleteLike(commentID, userID uint64) error
	LikeExists(commentID, userID uint64) (bool, error)
	DeleteLikesByCommentIDs(commentIDs []uint64) error
	DeleteLikesByUserID(userID uint64) error

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) Save(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) FindByID(commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").First(&comment, commentID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.Unscoped().Where("id IN (?)", commentIDs).Delete(&model.Comment{}).Error
}

func (r *commentRepository) DeleteByVideoID(videoID uint64) error {
	return r.db.Unscoped().Where("video_id = ?", videoID).Delete(&model.Comment{}).Error
}

func (r *commentRepository) FindRootsByVideo(videoID uint64, offset, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Preload("User").
		Where("video_id = ? AND parent_id IS NULL AND disabled = ?", videoID, false).
		Offset(offset).
		Limit(limit).
		Order("pinned desc, created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindRepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []model.Comment
	err := r.db.
		Preload("User").
		Where("parent_id IN (?) AND disabled = ?", parentIDs, false).
		Order("created_at asc").
		Find(&replies).Error
	return replies, err
}

func (r *commentRepository) FindReplyIDsByParentIDs(parentIDs []uint64) ([]uint64, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := r.db.Model(&model.Comment{}).
		Where("parent_id IN (?)", parentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) FindIDsByVideo(videoID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Comment{}).
		Where("video_id = ?", videoID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) FindIDsByUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Comment{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) CountLikesByCommentIDs(commentIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64)
	if len(commentIDs) == 0 {
		return counts, nil
	}
	type row struct {
		CommentID uint64
		Count     int64
	}
	var rows []row
	err := r.db.Model(&model.CommentLike{}).
		Select("comment_id, COUNT(*) as count").
		Where("comment_id IN (?)", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		counts[item.CommentID] = item.Count
	}
	return counts, nil
}

func (r *commentRepository) FindLikedCommentIDs(userID uint64, commentIDs []uint64) ([]uint64, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := r.db.Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN (?)", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	return ids, err
}

func (r *commentRepository) CreateLike(like *model.CommentLike) error {
	return r.db.Create(like).Error
}

func (r *commentRepository) DeleteLike(commentID, userID uint64) error {
	return r.db.Unscoped().
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&model.CommentLike{}).Error
}

func (r *commentRepository) LikeExists(commentID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *commentRepository) DeleteLikesByCommentIDs(commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.Unscoped().Where("comment_id IN (?)", commentIDs).Delete(&model.CommentLike{}).Error
}

func (r *commentRepository) DeleteLikesByUserID(userID uint64) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.CommentLike{}).Error
}
