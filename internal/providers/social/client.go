package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
)

const ProviderName = "social"

// Active wallet windows accepted by DappRadar
const (
	WindowDay   = "24h"
	WindowMonth = "30d"
)

var (
	ErrNoAPIKey = errors.New("no API key provided")

	// ErrInvalidInvite is returned for a Discord URL without an invite code
	ErrInvalidInvite = errors.New("invalid discord invite url")

	inviteCode = regexp.MustCompile(`discord(?:\.gg|(?:app)?\.com/invite)/([\w-]+)`)
)

// Endpoint is one upstream API with its credential
type Endpoint struct {
	HTTP   adapter.HTTPClient
	URL    string
	APIKey string
}

// Endpoints holds the upstream APIs of the social client
type Endpoints struct {
	DappRadar Endpoint
	Twitter   Endpoint
	// Discord works without a token for public invites
	Discord Endpoint
}

type dappResponse struct {
	Success bool `json:"success"`
	Results struct {
		Metrics struct {
			UAW int64 `json:"uaw"`
		} `json:"metrics"`
	} `json:"results"`
}

type twitterResponse struct {
	Data *struct {
		PublicMetrics struct {
			FollowersCount int64 `json:"followers_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

type inviteResponse struct {
	ApproximateMemberCount int64 `json:"approximate_member_count"`
}

// Client defines the interface for community metric lookups to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/social_client.go -package=mocks -mock_names=Client=MockSocialClient
type Client interface {
	// GetActiveWallets returns the unique active wallets of a dapp over a window
	GetActiveWallets(ctx context.Context, dappID string, window string) (int64, error)

	// GetTwitterFollowers returns the follower count of a Twitter account
	GetTwitterFollowers(ctx context.Context, username string) (int64, error)

	// GetDiscordMembers returns the approximate member count of the server behind an invite
	GetDiscordMembers(ctx context.Context, inviteURL string) (int64, error)
}

// SocialClient implements the social metrics client
type SocialClient struct {
	endpoints Endpoints
}

// NewClient creates a new social metrics client
func NewClient(endpoints Endpoints) Client {
	endpoints.DappRadar.URL = strings.TrimSuffix(endpoints.DappRadar.URL, "/")
	endpoints.Twitter.URL = strings.TrimSuffix(endpoints.Twitter.URL, "/")
	endpoints.Discord.URL = strings.TrimSuffix(endpoints.Discord.URL, "/")
	return &SocialClient{endpoints: endpoints}
}

func get(ctx context.Context, ep Endpoint, path string, q url.Values, headers map[string]string, result interface{}) error {
	if ep.HTTP == nil || ep.URL == "" {
		return fmt.Errorf("%s endpoint not configured", path)
	}
	reqURL := ep.URL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	respBody, err := ep.HTTP.GetBytes(ctx, reqURL, headers)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", ep.URL, err)
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response of %s: %w", ep.URL, err)
	}
	return nil
}

// GetActiveWallets returns the unique active wallets of a dapp over a window
func (c *SocialClient) GetActiveWallets(ctx context.Context, dappID string, window string) (int64, error) {
	ep := c.endpoints.DappRadar
	if ep.APIKey == "" {
		return 0, ErrNoAPIKey
	}

	var resp dappResponse
	err := get(ctx, ep, "/dapps/"+url.PathEscape(dappID), url.Values{"range": {window}},
		map[string]string{"accept": "application/json", "x-api-key": ep.APIKey}, &resp)
	if err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, fmt.Errorf("dappradar reported failure for dapp %s", dappID)
	}
	return resp.Results.Metrics.UAW, nil
}

// GetTwitterFollowers returns the follower count of a Twitter account
func (c *SocialClient) GetTwitterFollowers(ctx context.Context, username string) (int64, error) {
	ep := c.endpoints.Twitter
	if ep.APIKey == "" {
		return 0, ErrNoAPIKey
	}

	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	var resp twitterResponse
	err := get(ctx, ep, "/users/by/username/"+url.PathEscape(username), url.Values{"user.fields": {"public_metrics"}},
		map[string]string{"Authorization": "Bearer " + ep.APIKey}, &resp)
	if err != nil {
		return 0, err
	}
	if resp.Data == nil {
		return 0, fmt.Errorf("twitter user %q not found", username)
	}
	return resp.Data.PublicMetrics.FollowersCount, nil
}

// GetDiscordMembers returns the approximate member count of the server behind an invite
func (c *SocialClient) GetDiscordMembers(ctx context.Context, inviteURL string) (int64, error) {
	code, err := InviteCode(inviteURL)
	if err != nil {
		return 0, err
	}

	ep := c.endpoints.Discord
	var headers map[string]string
	if ep.APIKey != "" {
		headers = map[string]string{"Authorization": "Bot " + ep.APIKey}
	}

	var resp inviteResponse
	if err := get(ctx, ep, "/invites/"+url.PathEscape(code), url.Values{"with_counts": {"true"}}, headers, &resp); err != nil {
		return 0, err
	}
	return resp.ApproximateMemberCount, nil
}

// InviteCode extracts the invite code of a discord.gg or discord.com/invite URL
func InviteCode(inviteURL string) (string, error) {
	m := inviteCode.FindStringSubmatch(inviteURL)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidInvite, inviteURL)
	}
	return m[1], nil
}
