package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Descriptive agent so sites can identify the importer.
const importUserAgent = "Mozilla/5.0 MyHireBot/1.0"

type FetchServiceInterface interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// FetchService retrieves job-posting pages. One attempt, no retries: a
// blocked or unreachable page is reported once and the import fails over to
// manual entry.
type FetchService struct {
	client *resty.Client
}

func NewFetchService() *FetchService {
	return &FetchService{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", importUserAgent),
	}
}

func (s *FetchService) FetchHTML(ctx context.Context, url string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}
