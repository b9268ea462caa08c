package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	apperrors "github.com/julianstephens/ordiaa/internal/errors"
	"github.com/julianstephens/ordiaa/internal/utils"
)

func (c *Client) ListLogs(ctx context.Context) ([]DailyLog, error) {
	var out []DailyLog
	req, _ := jsonRequest(http.MethodGet, "/logs/", nil)
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLog fetches the entry for date (YYYY-MM-DD). A missing entry, reported
// either as 404 or as a null body, yields (nil, nil).
func (c *Client) GetLog(ctx context.Context, date string) (*DailyLog, error) {
	var out *DailyLog
	req, _ := jsonRequest(http.MethodGet, "/logs/"+url.PathEscape(date), nil)
	if err := c.do(ctx, req, &out); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// SaveLog creates or overwrites the entry for date (YYYY-MM-DD).
func (c *Client) SaveLog(ctx context.Context, date, content, mood string) (DailyLog, error) {
	iso, err := utils.ISOMidnightUTC(date)
	if err != nil {
		return DailyLog{}, err
	}
	var out DailyLog
	req, err := jsonRequest(http.MethodPost, "/logs/", DailyLogCreate{Date: iso, Content: content, Mood: mood})
	if err != nil {
		return DailyLog{}, err
	}
	if err := c.do(ctx, req, &out); err != nil {
		return DailyLog{}, err
	}
	return out, nil
}
