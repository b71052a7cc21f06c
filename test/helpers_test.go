//go:build integration

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/fitledger/internal/foods"
	"github.com/2beens/fitledger/internal/middleware"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) seedFoods(ctx context.Context) error {
	table, err := foods.LoadTable("../assets/foods.toml")
	if err != nil {
		return err
	}
	repo := foods.NewRepo(s.pgPool)
	for _, item := range table.All() {
		if err := repo.Insert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, body, contentType string) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(middleware.AppTokenHeader, appSecret)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) decode(data []byte, v any) {
	require.NoError(s.T(), json.Unmarshal(data, v))
}
