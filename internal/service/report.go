package service

import (
	"fmt"
	"strings"
	"time"

	"clipnest/internal/apperr"
	"clipnest/internal/model"
	"clipnest/internal/repository"
	"clipnest/pkg/logger"
)

type CreateReportInput struct {
	VideoID   *uint64
	CommentID *uint64
	// 登录用户举报时填ReportedByID；匿名举报必须给ReporterEmail
	ReportedByID  *uint64
	ReporterEmail string
	ReportType    string
	Description   string
}

type ReportService interface {
	Create(in CreateReportInput) (*model.Report, error)
	Get(reportID uint64) (*model.Report, error)
	List(status, reportType string) ([]model.Report, error)
	ListByReporter(userID uint64) ([]model.Report, error)
	ListByVideo(videoID uint64) ([]model.Report, error)
	CountByStatus(status string) (int64, error)

	// UpdateStatus 管理员流转举报状态；RESOLVED/DISMISSED时记录处理人和时间，
	// DELETED只能经由Delete走
	UpdateStatus(reportID, adminID uint64, status, adminNotes string) (*model.Report, error)
	// Delete 举报内容的软删除：行保留，状态转DELETED并记录原因，
	// 提交后尽力给举报人发邮件通知
	Delete(reportID, adminID uint64, deletionReason string) (*model.Report, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	publisher   NoticePublisher
}

func NewReportService(reportRepo repository.ReportRepository, videoRepo repository.VideoRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository, publisher NoticePublisher) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

func (s *reportService) Create(in CreateReportInput) (*model.Report, error) {
	if !model.ValidReportType(in.ReportType) {
		return nil, apperr.Validation("无效的举报类型")
	}
	if (in.VideoID == nil) == (in.CommentID == nil) {
		return nil, apperr.Validation("必须且只能指定一个举报目标")
	}
	if in.ReportedByID == nil && strings.TrimSpace(in.ReporterEmail) == "" {
		return nil, apperr.Validation("匿名举报必须填写邮箱")
	}

	if in.VideoID != nil {
		if _, err := s.videoRepo.FindByID(*in.VideoID); err != nil {
			return nil, apperr.Wrap(err, "视频不存在", "")
		}
	}
	if in.CommentID != nil {
		if _, err := s.commentRepo.FindByID(*in.CommentID); err != nil {
			return nil, apperr.Wrap(err, "评论不存在", "")
		}
	}

	reporterEmail := strings.TrimSpace(in.ReporterEmail)
	if in.ReportedByID != nil {
		reporter, err := s.userRepo.FindByID(*in.ReportedByID)
		if err != nil {
			return nil, apperr.Wrap(err, "用户不存在", "")
		}
		reporterEmail = reporter.Email
	}

	report := &model.Report{
		VideoID:       in.VideoID,
		CommentID:     in.CommentID,
		ReportedByID:  in.ReportedByID,
		ReporterEmail: reporterEmail,
		ReportType:    in.ReportType,
		Description:   in.Description,
		Status:        model.ReportPending,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, apperr.Internal(err)
	}
	return report, nil
}

func (s *reportService) Get(reportID uint64) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		return nil, apperr.Wrap(err, "举报不存在", "")
	}
	return report, nil
}

func (s *reportService) List(status, reportType string) ([]model.Report, error) {
	var (
		reports []model.Report
		err     error
	)
	switch {
	case status != "":
		if !model.ValidReportStatus(status) {
			return nil, apperr.Validation("无效的举报状态")
		}
		reports, err = s.reportRepo.FindByStatus(status)
	case reportType != "":
		if !model.ValidReportType(reportType) {
			return nil, apperr.Validation("无效的举报类型")
		}
		reports, err = s.reportRepo.FindByType(reportType)
	default:
		reports, err = s.reportRepo.FindAll()
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reports, nil
}

func (s *reportService) ListByReporter(userID uint64) ([]model.Report, error) {
	reports, err := s.reportRepo.FindByReporter(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reports, nil
}

func (s *reportService) ListByVideo(videoID uint64) ([]model.Report, error) {
	reports, err := s.reportRepo.FindByVideo(videoID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reports, nil
}

func (s *reportService) CountByStatus(status string) (int64, error) {
	if status != "" && !model.ValidReportStatus(status) {
		return 0, apperr.Validation("无效的举报状态")
	}
	count, err := s.reportRepo.CountByStatus(status)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

func (s *reportService) UpdateStatus(reportID, adminID uint64, status, adminNotes string) (*model.Report, error) {
	if !model.ValidReportStatus(status) || status == model.ReportDeleted {
		return nil, apperr.Validation("无效的举报状态")
	}
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		return nil, apperr.Wrap(err, "举报不存在", "")
	}
	if report.Status == model.ReportDeleted {
		return nil, apperr.Conflict("举报内容已删除，不能再流转状态")
	}

	report.Status = status
	if adminNotes != "" {
		report.AdminNotes = adminNotes
	}
	if status == model.ReportResolved || status == model.ReportDismissed {
		now := time.Now()
		report.ResolvedByID = &adminID
		report.ResolvedAt = &now
	}
	if err := s.reportRepo.Save(report); err != nil {
		return nil, apperr.Internal(err)
	}
	return report, nil
}

func (s *reportService) Delete(reportID, adminID uint64, deletionReason string) (*model.Report, error) {
	if strings.TrimSpace(deletionReason) == "" {
		return nil, apperr.Validation("删除原因不能为空")
	}
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		return nil, apperr.Wrap(err, "举报不存在", "")
	}
	if report.Status == model.ReportDeleted {
		return nil, apperr.Conflict("举报内容已删除")
	}

	now := time.Now()
	report.Status = model.ReportDeleted
	report.DeletionReason = deletionReason
	report.ResolvedByID = &adminID
	report.ResolvedAt = &now
	if err := s.reportRepo.Save(report); err != nil {
		return nil, apperr.Internal(err)
	}

	// 邮件通知尽力而为，发布失败只记日志
	if s.publisher != nil && report.ReporterEmail != "" {
		notice := MailNotice{
			To:       report.ReporterEmail,
			Subject:  "您举报的内容已被删除",
			Body:     fmt.Sprintf("您举报的内容经审核已被删除。删除原因：%s", deletionReason),
			ReportID: report.ID,
		}
		if err := s.publisher.PublishMailNotice(notice); err != nil {
			logger.Log.WithError(err).WithField("report_id", report.ID).Warn("举报通知消息发布失败")
		}
	}
	return report, nil
}
