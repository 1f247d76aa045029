package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram caps photos well below this; the limit only guards against a
// misbehaving file endpoint.
const maxPhotoBytes = 20 << 20

// PhotoFetcher downloads photo bytes from the Telegram file API.
type PhotoFetcher struct {
	api        *tgbotapi.BotAPI
	httpClient *http.Client
}

func NewPhotoFetcher(api *tgbotapi.BotAPI) *PhotoFetcher {
	return &PhotoFetcher{
		api:        api,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *PhotoFetcher) FetchPhoto(ctx context.Context, fileRef string) ([]byte, error) {
	url, err := f.api.GetFileDirectURL(fileRef)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download photo: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("read photo body: %w", err)
	}
	return data, nil
}
