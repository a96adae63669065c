// Package lineapi wraps the LINE Messaging API client used for profile
// lookups and reply delivery.
package lineapi

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/tahs-labs/historiographer/domain"
)

// Client is the LINE Messaging API client.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

// NewClient creates a client authorized with the channel access token.
func NewClient(channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging API client: %w", err)
	}
	return &Client{api: api}, nil
}

// FetchProfile looks up the platform profile for a user. The SDK client
// does not thread a context; the parameter keeps the store.ProfileFetcher
// contract.
func (c *Client) FetchProfile(ctx context.Context, userID string) (*domain.ProfileInfo, error) {
	profile, err := c.api.GetProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &domain.ProfileInfo{
		DisplayName: profile.DisplayName,
		Username:    profile.UserId,
		PictureURL:  profile.PictureUrl,
		Language:    profile.Language,
	}, nil
}

// Reply sends a text reply for the given reply token.
func (c *Client) Reply(replyToken, text string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}
