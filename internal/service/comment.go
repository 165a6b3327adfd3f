package service

import (
	"strings"

	"clipnest/internal/apperr"
	"clipnest/internal/data"
	"clipnest/internal/model"
	"clipnest/internal/repository"
)

// CommentNode 评论及其回复子树，附带点赞信息
type CommentNode struct {
	Comment   model.Comment  `json:"comment"`
	LikeCount int64          `json:"like_count"`
	Liked     bool           `json:"liked"`
	Replies   []*CommentNode `json:"replies"`
}

type CommentService interface {
	Create(videoID, userID uint64, content string, parentID *uint64) (*model.Comment, error)
	// ListByVideo 返回分页的一级评论树（置顶优先），逐层拉取回复并批量补点赞数
	ListByVideo(videoID, viewerID uint64, page, pageSize int) ([]*CommentNode, error)
	Update(commentID, userID uint64, content string) (*model.Comment, error)
	// Delete 删除评论及其整棵回复子树，作者本人或管理员可操作
	Delete(commentID, userID uint64, isAdmin bool) error

	ToggleLike(commentID, userID uint64) (liked bool, likeCount int64, err error)

	Pin(commentID uint64, pinned bool) error
	MarkSpam(commentID uint64, spam bool) error
	Disable(commentID uint64, disabled bool) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	uow         data.UnitOfWork
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork) CommentService {
	return &commentService{commentRepo: commentRepo, videoRepo: videoRepo, uow: uow}
}

func (s *commentService) Create(videoID, userID uint64, content string, parentID *uint64) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("评论内容不能为空")
	}
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		return nil, apperr.Wrap(err, "视频不存在", "")
	}
	if parentID != nil {
		parent, err := s.commentRepo.FindByID(*parentID)
		if err != nil {
			return nil, apperr.Wrap(err, "父评论不存在", "")
		}
		if parent.VideoID != videoID {
			return nil, apperr.Validation("父评论不属于该视频")
		}
	}

	comment := &model.Comment{
		VideoID:  videoID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, apperr.Internal(err)
	}
	created, err := s.commentRepo.FindByID(comment.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return created, nil
}

// 组树：1、分页取一级评论 2、按层批量取回复，避免逐条回表
// 3、对整批评论一次查点赞数、一次查当前用户点过的赞
func (s *commentService) ListByVideo(videoID, viewerID uint64, page, pageSize int) ([]*CommentNode, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	roots, err := s.commentRepo.FindRootsByVideo(videoID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	nodes := make(map[uint64]*CommentNode, len(roots))
	rootNodes := make([]*CommentNode, 0, len(roots))
	allIDs := make([]uint64, 0, len(roots))
	frontier := make([]uint64, 0, len(roots))
	for _, c := range roots {
		node := &CommentNode{Comment: c, Replies: []*CommentNode{}}
		nodes[c.ID] = node
		rootNodes = append(rootNodes, node)
		allIDs = append(allIDs, c.ID)
		frontier = append(frontier, c.ID)
	}

	for len(frontier) > 0 {
		replies, err := s.commentRepo.FindRepliesByParentIDs(frontier)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		frontier = frontier[:0]
		for _, c := range replies {
			node := &CommentNode{Comment: c, Replies: []*CommentNode{}}
			nodes[c.ID] = node
			parent := nodes[*c.ParentID]
			parent.Replies = append(parent.Replies, node)
			allIDs = append(allIDs, c.ID)
			frontier = append(frontier, c.ID)
		}
	}

	likeCounts, err := s.commentRepo.CountLikesByCommentIDs(allIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for id, count := range likeCounts {
		nodes[id].LikeCount = count
	}
	if viewerID != 0 {
		likedIDs, err := s.commentRepo.FindLikedCommentIDs(viewerID, allIDs)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		for _, id := range likedIDs {
			nodes[id].Liked = true
		}
	}
	return rootNodes, nil
}

func (s *commentService) Update(commentID, userID uint64, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("评论内容不能为空")
	}
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, apperr.Wrap(err, "评论不存在", "")
	}
	if comment.UserID != userID {
		return nil, apperr.Forbidden("无权修改该评论")
	}
	comment.Content = content
	if err := s.commentRepo.Save(comment); err != nil {
		return nil, apperr.Internal(err)
	}
	return comment, nil
}

func (s *commentService) Delete(commentID, userID uint64, isAdmin bool) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return apperr.Wrap(err, "评论不存在", "")
	}
	if comment.UserID != userID && !isAdmin {
		return apperr.Forbidden("无权删除该评论")
	}

	// 先逐层收齐子树ID，再在事务里删点赞和评论行
	ids := []uint64{commentID}
	frontier := []uint64{commentID}
	for len(frontier) > 0 {
		childIDs, err := s.commentRepo.FindReplyIDsByParentIDs(frontier)
		if err != nil {
			return apperr.Internal(err)
		}
		ids = append(ids, childIDs...)
		frontier = childIDs
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.CommentRepo.DeleteLikesByCommentIDs(ids); err != nil {
			return err
		}
		return repos.CommentRepo.Delete(ids)
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *commentService) ToggleLike(commentID, userID uint64) (bool, int64, error) {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		return false, 0, apperr.Wrap(err, "评论不存在", "")
	}

	exists, err := s.commentRepo.LikeExists(commentID, userID)
	if err != nil {
		return false, 0, apperr.Internal(err)
	}
	liked := !exists
	if exists {
		if err := s.commentRepo.DeleteLike(commentID, userID); err != nil {
			return false, 0, apperr.Internal(err)
		}
	} else {
		like := &model.CommentLike{CommentID: commentID, UserID: userID}
		if err := s.commentRepo.CreateLike(like); err != nil {
			// 并发下撞唯一索引视为已点过
			if apperr.IsDuplicate(err) {
				liked = true
			} else {
				return false, 0, apperr.Internal(err)
			}
		}
	}

	counts, err := s.commentRepo.CountLikesByCommentIDs([]uint64{commentID})
	if err != nil {
		return false, 0, apperr.Internal(err)
	}
	return liked, counts[commentID], nil
}

func (s *commentService) Pin(commentID uint64, pinned bool) error {
	return s.setFlag(commentID, func(c *model.Comment) { c.Pinned = pinned })
}

func (s *commentService) MarkSpam(commentID uint64, spam bool) error {
	return s.setFlag(commentID, func(c *model.Comment) { c.Spam = spam })
}

func (s *commentService) Disable(commentID uint64, disabled bool) error {
	return s.setFlag(commentID, func(c *model.Comment) { c.Disabled = disabled })
}

func (s *commentService) setFlag(commentID uint64, apply func(*model.Comment)) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return apperr.Wrap(err, "评论不存在", "")
	}
	apply(comment)
	if err := s.commentRepo.Save(comment); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
