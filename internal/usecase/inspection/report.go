package inspection

import (
	"context"
	"errors"
	"io"
)

// ExportReport renders the stored inspection. Any status can be exported.
func (s *Service) ExportReport(ctx context.Context, inspectionID string, w io.Writer) error {
	if s.renderer == nil {
		return errors.New("report renderer is required")
	}
	insp, err := s.Get(ctx, inspectionID)
	if err != nil {
		return err
	}
	return s.renderer.Render(ctx, w, insp)
}

func (s *Service) ReportContentType() string {
	if s.renderer == nil {
		return ""
	}
	return s.renderer.ContentType()
}
