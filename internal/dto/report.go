package dto

import (
	"time"

	"clipnest/internal/model"
)

type ReportResponse struct {
	ID             uint64     `json:"id"`
	VideoID        *uint64    `json:"video_id,omitempty"`
	CommentID      *uint64    `json:"comment_id,omitempty"`
	ReportType     string     `json:"report_type"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	AdminNotes     string     `json:"admin_notes,omitempty"`
	DeletionReason string     `json:"deletion_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`

	// 匿名举报时ReportedBy为nil，只有ReporterEmail
	ReportedBy    *UserInfo `json:"reported_by,omitempty"`
	ReporterEmail string    `json:"reporter_email,omitempty"`
	ResolvedBy    *UserInfo `json:"resolved_by,omitempty"`
}

func ToReportResponse(report *model.Report) *ReportResponse {
	resp := &ReportResponse{
		ID:             report.ID,
		VideoID:        report.VideoID,
		CommentID:      report.CommentID,
		ReportType:     report.ReportType,
		Description:    report.Description,
		Status:         report.Status,
		AdminNotes:     report.AdminNotes,
		DeletionReason: report.DeletionReason,
		CreatedAt:      report.CreatedAt,
		ResolvedAt:     report.ResolvedAt,
		ReporterEmail:  report.ReporterEmail,
	}
	if report.ReportedBy != nil && report.ReportedBy.ID != 0 {
		info := ToUserInfo(report.ReportedBy)
		resp.ReportedBy = &info
	}
	if report.ResolvedBy != nil && report.ResolvedBy.ID != 0 {
		info := ToUserInfo(report.ResolvedBy)
		resp.ResolvedBy = &info
	}
	return resp
}

func ToReportResponses(reports []model.Report) []ReportResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, *ToReportResponse(&reports[i]))
	}
	return responses
}
