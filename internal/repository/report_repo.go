package repository

import (
	"clipnest/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(report *model.Report) error
	Save(report *model.Report) error
	FindByID(reportID uint64) (*model.Report, error)
	FindAll() ([]model.Report, error)
	FindByStatus(status string) ([]model.Report, error)
	FindByType(reportType string) ([]model.Report, error)
	FindByReporter(userID uint64) ([]model.Report, error)
	FindByVideo(videoID uint64) ([]model.Report, error)
	CountByStatus(status string) (int64, error)

	WithTx(tx *gorm.DB) ReportRepository
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) WithTx(tx *gorm.DB) ReportRepository {
	return &reportRepository{db: tx}
}

func (r *reportRepository) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

func (r *reportRepository) Save(report *model.Report) error {
	return r.db.Save(report).Error
}

func (r *reportRepository) FindByID(reportID uint64) (*model.Report, error) {
	var report model.Report
	err := r.db.Preload("ReportedBy").Preload("ResolvedBy").First(&report, reportID).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindAll() ([]model.Report, error) {
	var reports []model.Report
	err := r.db.Preload("ReportedBy").Order("created_at desc").Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindByStatus(status string) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.Preload("ReportedBy").
		Where("status = ?", status).
		Order("created_at desc").Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindByType(reportType string) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.Preload("ReportedBy").
		Where("report_type = ?", reportType).
		Order("created_at desc").Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindByReporter(userID uint64) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.Where("reported_by_id = ?", userID).
		Order("created_at desc").Find(&reports).Error
	return reports, err
}

func (r *reportRepository) FindByVideo(videoID uint64) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.Preload("ReportedBy").
		Where("video_id = ?", videoID).
		Order("created_at desc").Find(&reports).Error
	return reports, err
}

// 空status统计全部
func (r *reportRepository) CountByStatus(status string) (int64, error) {
	var count int64
	query := r.db.Model(&model.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}
