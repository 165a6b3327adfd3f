package model

import "time"

// 举报类型
const (
	ReportSpam          = "SPAM"
	ReportInappropriate = "INAPPROPRIATE_CONTENT"
	ReportCopyright     = "COPYRIGHT"
	ReportPlaybackIssue = "PLAYBACK_ISSUE"
	ReportOther         = "OTHER"
)

// 举报处理状态。DELETED是软删除：行永远保留，只做状态流转
const (
	ReportPending   = "PENDING"
	ReportReviewed  = "REVIEWED"
	ReportResolved  = "RESOLVED"
	ReportDismissed = "DISMISSED"
	ReportDeleted   = "DELETED"
)

func ValidReportType(s string) bool {
	switch s {
	case ReportSpam, ReportInappropriate, ReportCopyright, ReportPlaybackIssue, ReportOther:
		return true
	}
	return false
}

func ValidReportStatus(s string) bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved, ReportDismissed, ReportDeleted:
		return true
	}
	return false
}

type Report struct {
	BaseModel
	// 举报目标二选一
	VideoID   *uint64 `gorm:"index"`
	CommentID *uint64 `gorm:"index"`

	// 匿名举报时ReportedByID为nil，邮箱直接落在ReporterEmail
	ReportedByID  *uint64 `gorm:"index"`
	ReporterEmail string

	ReportType  string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"not null;default:PENDING"`

	AdminNotes     string `gorm:"type:text"`
	DeletionReason string `gorm:"type:text"`
	ResolvedByID   *uint64
	ResolvedAt     *time.Time

	ReportedBy *User `gorm:"foreignKey:ReportedByID"`
	ResolvedBy *User `gorm:"foreignKey:ResolvedByID"`
}

func (Report) TableName() string {
	return "reports"
}
