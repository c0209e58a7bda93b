package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

// DmcaService records takedown complaints against documents and lets admins
// review them. Approving a complaint only flips its status; actually removing
// the document stays a separate, explicit admin action.
type DmcaService struct {
	DB *gorm.DB
}

// Submit files a complaint against a document. The document must exist.
func (s *DmcaService) Submit(ctx context.Context, documentID uint, name, email, reason string) (*domain.DmcaRequest, error) {
	if _, err := repo.GetDocument(ctx, s.DB, documentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	r := &domain.DmcaRequest{
		DocumentID:     documentID,
		RequesterName:  name,
		RequesterEmail: email,
		Reason:         reason,
		Status:         domain.DmcaStatusPending,
	}
	if err := repo.CreateDmcaRequest(ctx, s.DB, r); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns all complaints, newest first.
func (s *DmcaService) List(ctx context.Context) ([]domain.DmcaRequest, error) {
	return repo.ListDmcaRequests(ctx, s.DB)
}

// Review transitions a pending complaint to approved or rejected. Reviewing a
// complaint that already left pending, or using an unknown status, fails with
// ErrInvalidDmcaStatus.
func (s *DmcaService) Review(ctx context.Context, id uint, status string) (*domain.DmcaRequest, error) {
	if status != domain.DmcaStatusApproved && status != domain.DmcaStatusRejected {
		return nil, ErrInvalidDmcaStatus
	}

	r, err := repo.GetDmcaRequest(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDmcaNotFound
		}
		return nil, err
	}
	if r.Status != domain.DmcaStatusPending {
		return nil, ErrInvalidDmcaStatus
	}

	if err := repo.UpdateDmcaStatus(ctx, s.DB, id, status); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDmcaNotFound
		}
		return nil, err
	}
	r.Status = status
	return r, nil
}
