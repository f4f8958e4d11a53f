package api

import (
	"context"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

// ListModels queries the router's model listing. The result seeds the
// `models` subcommand; chat accepts any id the router hosts.
func (c *Client) ListModels(ctx context.Context) ([]models.Model, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	endpoint := c.modelsURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatusError(resp.StatusCode, endpoint, body)
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() || !data.IsArray() {
		return nil, apierrors.NewParseError("model list missing data array", "")
	}

	var list []models.Model
	data.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id != "" {
			list = append(list, models.Model{Name: id})
		}
		return true
	})

	return list, nil
}
