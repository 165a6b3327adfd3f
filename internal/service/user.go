package service

import (
	"errors"

	"clipnest/internal/apperr"
	"clipnest/internal/data"
	"clipnest/internal/model"
	"clipnest/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Bio       string
}

// UpdateUserInput 全部是指针，nil表示该字段不动
type UpdateUserInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Bio            *string
	ProfilePicture *string
}

type UserService interface {
	Register(in RegisterInput) (*model.User, error)
	// Login 接受用户名或邮箱，校验通过返回用户
	Login(login, password string) (*model.User, error)
	GetByID(userID uint64) (*model.User, error)
	Update(userID uint64, in UpdateUserInput) (*model.User, error)
	// BecomeCreator 把普通用户升级为创作者
	BecomeCreator(userID uint64) (*model.User, error)

	// 管理端
	ListAll() ([]model.User, error)
	ListActive() ([]model.User, error)
	Search(keyword string) ([]model.User, error)
	CountByRole(role string) (int64, error)
	ChangeRole(userID uint64, role string) (*model.User, error)
	Deactivate(userID uint64) error
	// HardDelete 物理删除用户并级联清理其全部内容，返回待删除的磁盘文件路径
	HardDelete(userID uint64) ([]string, error)
}

type userService struct {
	userRepo  repository.UserRepository
	videoRepo repository.VideoRepository
	uow       data.UnitOfWork
}

func NewUserService(userRepo repository.UserRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork) UserService {
	return &userService{userRepo: userRepo, videoRepo: videoRepo, uow: uow}
}

// 注册：1、用户名和邮箱查重 2、密码加密存储 3、创建用户
func (s *userService) Register(in RegisterInput) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(in.Username); err == nil {
		return nil, apperr.Conflict("用户名已存在")
	}
	if _, err := s.userRepo.FindByEmail(in.Email); err == nil {
		return nil, apperr.Conflict("邮箱已被注册")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	newUser := &model.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashedPassword),
		Role:      model.RoleRegisteredUser,
		IsActive:  true,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Bio:       in.Bio,
	}
	if err := s.userRepo.Create(newUser); err != nil {
		return nil, apperr.Wrap(err, "用户不存在", "用户名或邮箱已存在")
	}
	return newUser, nil
}

// 登录：1、按用户名或邮箱找用户 2、检查停用标记 3、bcrypt比对密码
// 三种失败统一返回模糊提示，不泄露账号是否存在
func (s *userService) Login(login, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsernameOrEmail(login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("用户名或密码错误")
		}
		return nil, apperr.Internal(err)
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("用户名或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("用户名或密码错误")
	}
	return user, nil
}

func (s *userService) GetByID(userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.Wrap(err, "用户不存在", "")
	}
	return user, nil
}

// 可选字段更新：只动非nil的字段
func (s *userService) Update(userID uint64, in UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.Wrap(err, "用户不存在", "")
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, apperr.Wrap(err, "用户不存在", "邮箱已被占用")
	}
	return user, nil
}

func (s *userService) BecomeCreator(userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.Wrap(err, "用户不存在", "")
	}
	if user.Role == model.RoleAdmin || user.Role == model.RoleContentCreator {
		return user, nil
	}
	user.Role = model.RoleContentCreator
	if err := s.userRepo.Save(user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) ListAll() ([]model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *userService) ListActive() ([]model.User, error) {
	users, err := s.userRepo.FindActive()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *userService) Search(keyword string) ([]model.User, error) {
	users, err := s.userRepo.Search(keyword)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *userService) CountByRole(role string) (int64, error) {
	count, err := s.userRepo.CountByRole(role)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

func (s *userService) ChangeRole(userID uint64, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, apperr.Validation("无效的角色")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.Wrap(err, "用户不存在", "")
	}
	user.Role = role
	if err := s.userRepo.Save(user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// 软删除：只翻IsActive开关，内容全部保留
func (s *userService) Deactivate(userID uint64) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperr.Wrap(err, "用户不存在", "")
	}
	user.IsActive = false
	if err := s.userRepo.Save(user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// 硬删除：一个事务里清掉用户本人及其名下的视频（连带评论、评分、列表条目），
// 再清掉用户在别人视频下留下的评论、点赞、评分、播放列表、稍后再看和订阅关系。
// 返回的文件路径由调用方在提交后尽力删除
func (s *userService) HardDelete(userID uint64) ([]string, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, apperr.Wrap(err, "用户不存在", "")
	}

	videos, err := s.videoRepo.FindByUploader(userID, false)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var files []string
	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		for _, video := range videos {
			if err := deleteVideoCascade(repos, video.ID); err != nil {
				return err
			}
			files = append(files, video.FilePath, video.ThumbnailPath)
		}
		if err := deleteUserContent(repos, userID); err != nil {
			return err
		}
		return repos.UserRepo.Delete(userID)
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return files, nil
}

// deleteUserContent 在事务内清掉用户挂在别人内容上的全部依赖行：
// 评论（连同整棵回复子树和点赞）、点过的赞、二值评分、星级评分、
// 播放列表及条目、稍后再看、两个方向的订阅关系
func deleteUserContent(repos *data.TransactionalRepositories, userID uint64) error {
	commentIDs, err := repos.CommentRepo.FindIDsByUser(userID)
	if err != nil {
		return err
	}
	// 回复跟着父评论一起删，和单条评论删除的语义一致
	frontier := commentIDs
	for len(frontier) > 0 {
		childIDs, err := repos.CommentRepo.FindReplyIDsByParentIDs(frontier)
		if err != nil {
			return err
		}
		commentIDs = append(commentIDs, childIDs...)
		frontier = childIDs
	}
	if err := repos.CommentRepo.DeleteLikesByCommentIDs(commentIDs); err != nil {
		return err
	}
	if err := repos.CommentRepo.Delete(commentIDs); err != nil {
		return err
	}
	if err := repos.CommentRepo.DeleteLikesByUserID(userID); err != nil {
		return err
	}

	ratedVideoIDs, err := repos.RatingRepo.FindVideoIDsByUser(userID)
	if err != nil {
		return err
	}
	if err := repos.RatingRepo.DeleteByUserID(userID); err != nil {
		return err
	}
	// 评分删掉后重算受影响视频的冗余计数；本人的视频此时已删，重算落空无妨
	for _, videoID := range ratedVideoIDs {
		likes, err := repos.RatingRepo.CountByType(videoID, model.RatingLike)
		if err != nil {
			return err
		}
		dislikes, err := repos.RatingRepo.CountByType(videoID, model.RatingDislike)
		if err != nil {
			return err
		}
		if err := repos.VideoRepo.UpdateRatingCounts(videoID, uint64(likes), uint64(dislikes)); err != nil {
			return err
		}
	}
	if err := repos.RatingRepo.DeleteStarsByUserID(userID); err != nil {
		return err
	}

	playlists, err := repos.PlaylistRepo.FindByUser(userID)
	if err != nil {
		return err
	}
	for _, playlist := range playlists {
		if err := repos.PlaylistRepo.DeleteEntriesByPlaylist(playlist.ID); err != nil {
			return err
		}
		if err := repos.PlaylistRepo.Delete(playlist.ID); err != nil {
			return err
		}
	}

	if err := repos.WatchLaterRepo.Clear(userID); err != nil {
		return err
	}
	return repos.SubscriptionRepo.DeleteByUser(userID)
}
