package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	var out []Todo
	req, _ := jsonRequest(http.MethodGet, "/todos/", nil)
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTodo(ctx context.Context, in TodoCreate) (Todo, error) {
	var out Todo
	req, err := jsonRequest(http.MethodPost, "/todos/", in)
	if err != nil {
		return Todo{}, err
	}
	if err := c.do(ctx, req, &out); err != nil {
		return Todo{}, err
	}
	return out, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, in TodoUpdate) (Todo, error) {
	var out Todo
	req, err := jsonRequest(http.MethodPatch, fmt.Sprintf("/todos/%d", id), in)
	if err != nil {
		return Todo{}, err
	}
	if err := c.do(ctx, req, &out); err != nil {
		return Todo{}, err
	}
	return out, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	req, _ := jsonRequest(http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil)
	return c.do(ctx, req, nil)
}
