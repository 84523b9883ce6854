package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/internal/repository"
	"github.com/postgenio/api/internal/service"
)

// Tokens expiring inside this window get refreshed proactively.
const refreshWindow = 10 * 24 * time.Hour

type TokenRefreshJob struct {
	cp repository.CompanyProfileRepository
	ig service.InstagramService
}

func NewTokenRefreshJob(
	cp repository.CompanyProfileRepository,
	ig service.InstagramService) *TokenRefreshJob {
	return &TokenRefreshJob{
		cp: cp,
		ig: ig,
	}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	profiles, err := c.cp.ListExpiringTokens(ctx, time.Now().Add(refreshWindow))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, profile := range profiles {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(profile *models.CompanyProfile) {
			defer wg.Done()
			defer func() { <-semaphore }()

			err := c.ig.RefreshToken(ctx, profile.UserID)
			if err != nil {
				slog.Info("unable to refresh instagram token", "user_id", profile.UserID, "error", err.Error())
			}
		}(profile)
	}

	wg.Wait()
}
