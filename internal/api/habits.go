package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) ListHabits(ctx context.Context) ([]Habit, error) {
	var out []Habit
	req, _ := jsonRequest(http.MethodGet, "/habits/", nil)
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateHabit(ctx context.Context, name, description string) (Habit, error) {
	var out Habit
	req, err := jsonRequest(http.MethodPost, "/habits/", map[string]string{
		"name":        name,
		"description": description,
	})
	if err != nil {
		return Habit{}, err
	}
	if err := c.do(ctx, req, &out); err != nil {
		return Habit{}, err
	}
	return out, nil
}

func (c *Client) DeleteHabit(ctx context.Context, id int64) error {
	req, _ := jsonRequest(http.MethodDelete, fmt.Sprintf("/habits/%d", id), nil)
	return c.do(ctx, req, nil)
}

// ToggleHabit flips the server-side completion for date (YYYY-MM-DD) and
// returns every completion of the habit.
func (c *Client) ToggleHabit(ctx context.Context, id int64, date string) ([]Completion, error) {
	var out []Completion
	req, _ := jsonRequest(http.MethodPost, fmt.Sprintf("/habits/%d/toggle", id), nil)
	req.query = url.Values{"date": []string{date}}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCompletions(ctx context.Context) ([]Completion, error) {
	var out []Completion
	req, _ := jsonRequest(http.MethodGet, "/habits/completions", nil)
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
