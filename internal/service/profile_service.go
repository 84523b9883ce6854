package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/internal/repository"
)

type ProfileService interface {
	GetProfileInfo(ctx context.Context, userID int64) (*models.CompanyProfile, error)
	UpdateCompanyName(ctx context.Context, userID int64, companyName string) error
}

type profileService struct {
	cp repository.CompanyProfileRepository
}

func NewProfileService(cp repository.CompanyProfileRepository) ProfileService {
	return &profileService{
		cp: cp,
	}
}

func (s *profileService) GetProfileInfo(ctx context.Context, userID int64) (*models.CompanyProfile, error) {
	profile, err := s.cp.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		err = errors.New("profile for given user doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	return profile, nil
}

func (s *profileService) UpdateCompanyName(ctx context.Context, userID int64, companyName string) error {
	if companyName == "" {
		err := errors.New("company name cannot be empty")
		slog.Info(err.Error())
		return err
	}

	err := s.cp.UpdateCompanyName(ctx, userID, companyName)
	if err != nil {
		return err
	}
	return nil
}
