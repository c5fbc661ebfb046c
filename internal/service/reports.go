package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sales-console/internal/backend"
	"sales-console/internal/domain"
	"sales-console/internal/storage"
)

// ErrMissingDateRange is returned when a pdf download is requested without a
// complete date range. The guard fires before any network call.
var ErrMissingDateRange = errors.New("report date range is required")

// ReportResult is one generated report. Exactly one of Metrics or PDF is set
// depending on the requested format.
type ReportResult struct {
	Metrics  *domain.Metrics
	PDF      []byte
	Filename string
	// ArchiveLocation is the s3:// address of the archived copy, "" when
	// archiving is disabled or failed.
	ArchiveLocation string
}

// ReportsService generates reports through the backend and optionally
// archives pdf output to object storage.
type ReportsService struct {
	client  *backend.Client
	archive storage.Service
	bucket  string
	prefix  string
	logger  *logrus.Logger
}

func NewReportsService(client *backend.Client, archive storage.Service, bucket, prefix string, logger *logrus.Logger) *ReportsService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ReportsService{
		client:  client,
		archive: archive,
		bucket:  bucket,
		prefix:  prefix,
		logger:  logger,
	}
}

// Generate runs one report request. JSON output carries the nested metrics
// for preview; pdf output carries the binary payload plus its download
// filename. Archive failures are logged and do not fail the download.
func (s *ReportsService) Generate(ctx context.Context, req domain.ReportRequest) (*ReportResult, error) {
	if req.Format != domain.ReportFormatPDF {
		metrics, err := s.client.GenerateJSONReport(ctx, req)
		if err != nil {
			return nil, err
		}
		return &ReportResult{Metrics: &metrics}, nil
	}

	if req.StartDate == "" || req.EndDate == "" {
		return nil, ErrMissingDateRange
	}

	pdf, err := s.client.GeneratePDFReport(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		PDF:      pdf,
		Filename: fmt.Sprintf("sales_report_%s.pdf", time.Now().Format("2006-01-02")),
	}

	if s.archive != nil && s.bucket != "" {
		key := path.Join(s.prefix, fmt.Sprintf("%s-%s.pdf", time.Now().Format("2006-01-02"), uuid.NewString()))
		location, err := s.archive.UploadReport(ctx, s.bucket, key, "application/pdf", pdf)
		if err != nil {
			s.logger.Warnf("archive report: %v", err)
		} else {
			result.ArchiveLocation = location
			s.logger.Infof("report archived at %s", location)
		}
	}

	return result, nil
}

// ListArchived lists archived report objects, newest first.
func (s *ReportsService) ListArchived(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.archive == nil || s.bucket == "" {
		return nil, nil
	}
	objects, err := s.archive.ListObjects(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}
	// newest first
	for i, j := 0, len(objects)-1; i < j; i, j = i+1, j-1 {
		objects[i], objects[j] = objects[j], objects[i]
	}
	return objects, nil
}

// ArchivedURL returns a presigned download link for an archived report.
func (s *ReportsService) ArchivedURL(ctx context.Context, key string) (string, error) {
	if s.archive == nil || s.bucket == "" {
		return "", errors.New("report archive is not configured")
	}
	return s.archive.ObjectURL(ctx, s.bucket, key, 15*time.Minute)
}
