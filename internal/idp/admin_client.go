// Package idp talks to the identity provider's privileged admin API.
package idp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"wedding/guesthub/internal/config"
	"wedding/guesthub/internal/model"
	"wedding/guesthub/internal/repository"
)

// maxPages bounds pagination against a misbehaving provider.
const maxPages = 1000

type adminUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	UserMetadata struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Mobile    string `json:"mobile"`
	} `json:"user_metadata"`
}

type listUsersResponse struct {
	Users []adminUser `json:"users"`
}

type AdminClient struct {
	baseURL    string
	serviceKey string
	pageSize   int
	httpClient *http.Client
}

// NewAdminClient returns nil when no admin URL is configured, so callers can
// treat the privileged tier as absent.
func NewAdminClient(cfg config.IdentityConfig) *AdminClient {
	if strings.TrimSpace(cfg.AdminURL) == "" {
		return nil
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	return &AdminClient{
		baseURL:    strings.TrimRight(cfg.AdminURL, "/"),
		serviceKey: cfg.ServiceKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *AdminClient) ListAccounts(ctx context.Context) ([]model.AccountIdentity, error) {
	if c == nil || c.serviceKey == "" {
		return nil, repository.ErrListingUnavailable
	}

	var accounts []model.AccountIdentity
	for page := 1; page <= maxPages; page++ {
		users, err := c.listPage(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			accounts = append(accounts, u.identity())
		}
		if len(users) < c.pageSize {
			return accounts, nil
		}
	}
	return accounts, nil
}

func (c *AdminClient) listPage(ctx context.Context, page int) ([]adminUser, error) {
	params := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(c.pageSize)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin/users?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build admin users request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list admin users: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusNotImplemented:
		return nil, fmt.Errorf("%w: provider answered %d", repository.ErrListingUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("list admin users: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read admin users: %w", err)
	}
	var out listUsersResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode admin users: %w", err)
	}
	return out.Users, nil
}

func (u adminUser) identity() model.AccountIdentity {
	mobile := u.Phone
	if mobile == "" {
		mobile = u.UserMetadata.Mobile
	}
	return model.AccountIdentity{
		AccountID: u.ID,
		Email:     u.Email,
		FirstName: u.UserMetadata.FirstName,
		LastName:  u.UserMetadata.LastName,
		Mobile:    mobile,
	}
}

var _ repository.AccountLister = (*AdminClient)(nil)
