package line

import (
	"fmt"
	"io"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// BlobClient downloads message content through the Messaging API blob
// endpoint.
type BlobClient struct {
	api *messaging_api.MessagingApiBlobAPI
}

// NewBlobClient creates a blob client for the channel token.
func NewBlobClient(channelToken string) (*BlobClient, error) {
	api, err := messaging_api.NewMessagingApiBlobAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("line: create blob client: %w", err)
	}
	return &BlobClient{api: api}, nil
}

// GetMessageContent fetches the raw bytes of a message payload.
func (c *BlobClient) GetMessageContent(messageID string) ([]byte, error) {
	resp, err := c.api.GetMessageContent(messageID)
	if err != nil {
		return nil, fmt.Errorf("line: download message content: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("line: read message content: %w", err)
	}
	return data, nil
}
