package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	certWidth  = 1200
	certHeight = 850
)

type CertificateService struct {
	CertRepo     *repository.CertificateRepository
	ResponseRepo *repository.ResponseRepository
	CourseRepo   *repository.CourseRepository
	UserRepo     *repository.UserRepository
	Storage      *StorageService
	Cfg          *config.CertificateConfig
}

func NewCertificateService(
	certRepo *repository.CertificateRepository,
	responseRepo *repository.ResponseRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	storage *StorageService,
	cfg *config.CertificateConfig,
) *CertificateService {
	return &CertificateService{
		CertRepo:     certRepo,
		ResponseRepo: responseRepo,
		CourseRepo:   courseRepo,
		UserRepo:     userRepo,
		Storage:      storage,
		Cfg:          cfg,
	}
}

// GenerateSerial 证书编号：LMS-日期-8位随机段
func GenerateSerial(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("LMS-%s-%s", t.Format("20060102"), suffix)
}

// IssueOrGet 课程完成后按需签发。已有证书直接返回，
// 课程未完成返回 ErrCourseNotCompleted。
func (s *CertificateService) IssueOrGet(ctx context.Context, userID, courseID string) (*model.Certificate, error) {
	if cert, err := s.CertRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return cert, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	resp, err := s.ResponseRepo.FindCourseResponse(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotCompleted
		}
		return nil, err
	}
	if !resp.IsCompleted {
		return nil, util.ErrCourseNotCompleted
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now()
	serial := GenerateSerial(issuedAt)

	png, err := s.render(user.Name, course.Title, serial, issuedAt)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("certificates/%s.png", serial)
	fileURL, err := s.Storage.Upload(ctx, filename, bytes.NewReader(png), int64(len(png)), util.MimePNG)
	if err != nil {
		return nil, err
	}

	cert := &model.Certificate{
		UserID:   userID,
		CourseID: courseID,
		SerialNo: serial,
		FileURL:  fileURL,
		IssuedAt: issuedAt,
	}
	if err := s.CertRepo.Create(cert); err != nil {
		return nil, err
	}

	// 并发签发时唯一索引兜底，读回真正落库的那张
	return s.CertRepo.FindByUserAndCourse(userID, courseID)
}

func (s *CertificateService) Verify(serialNo string) (*model.Certificate, error) {
	cert, err := s.CertRepo.FindBySerial(serialNo)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

func (s *CertificateService) ListByUser(userID string) ([]model.Certificate, error) {
	return s.CertRepo.ListByUser(userID)
}

// render 绘制证书 PNG
func (s *CertificateService) render(userName, courseTitle, serial string, issuedAt time.Time) ([]byte, error) {
	dc := gg.NewContext(certWidth, certHeight)

	// 底色与边框
	dc.SetRGB(0.98, 0.97, 0.94)
	dc.Clear()
	dc.SetRGB(0.72, 0.6, 0.3)
	dc.SetLineWidth(6)
	dc.DrawRectangle(40, 40, certWidth-80, certHeight-80)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(56, 56, certWidth-112, certHeight-112)
	dc.Stroke()

	dc.SetRGB(0.15, 0.15, 0.2)

	if err := dc.LoadFontFace(s.Cfg.FontPath, 56); err != nil {
		return nil, fmt.Errorf("load certificate font failed: %w", err)
	}
	dc.DrawStringAnchored("Certificate of Completion", certWidth/2, 180, 0.5, 0.5)

	if err := dc.LoadFontFace(s.Cfg.FontPath, 28); err != nil {
		return nil, err
	}
	dc.DrawStringAnchored("This is to certify that", certWidth/2, 300, 0.5, 0.5)

	if err := dc.LoadFontFace(s.Cfg.FontPath, 44); err != nil {
		return nil, err
	}
	dc.DrawStringAnchored(userName, certWidth/2, 380, 0.5, 0.5)

	if err := dc.LoadFontFace(s.Cfg.FontPath, 28); err != nil {
		return nil, err
	}
	dc.DrawStringAnchored("has successfully completed the course", certWidth/2, 460, 0.5, 0.5)

	if err := dc.LoadFontFace(s.Cfg.FontPath, 36); err != nil {
		return nil, err
	}
	dc.DrawStringAnchored(courseTitle, certWidth/2, 530, 0.5, 0.5)

	if err := dc.LoadFontFace(s.Cfg.FontPath, 22); err != nil {
		return nil, err
	}
	dc.DrawStringAnchored(s.Cfg.Issuer, certWidth/2, 650, 0.5, 0.5)
	dc.DrawStringAnchored(issuedAt.Format(util.DateFormat), certWidth/2, 690, 0.5, 0.5)
	dc.DrawStringAnchored("No. "+serial, certWidth/2, 760, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
