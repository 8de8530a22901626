package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lms/config"

	"github.com/go-resty/resty/v2"
)

// VideoUploadPort abstracts the external video hosting service so
// controllers and tests do not depend on the live API.
type VideoUploadPort interface {
	IsAuthenticated() bool
	Upload(fileName string, data []byte) (string, error)
	Revoke(videoURL string) error
}

// VideoClient is the process-wide video hosting client, set during
// startup. Callers must nil-check it when video hosting is not configured.
var VideoClient VideoUploadPort

type videoClient struct {
	client *resty.Client
}

// NewVideoClient builds a client for the configured video hosting API
func NewVideoClient() VideoUploadPort {
	client := resty.New().
		SetBaseURL(config.AppConfig.VideoApiURL).
		SetAuthToken(config.AppConfig.VideoApiToken)

	return &videoClient{client: client}
}

func (v *videoClient) IsAuthenticated() bool {
	resp, err := v.client.R().Get("/v1/me")
	if err != nil {
		return false
	}
	return resp.StatusCode() == 200
}

func (v *videoClient) Upload(fileName string, data []byte) (string, error) {
	resp, err := v.client.R().
		SetFileReader("file", fileName, bytes.NewReader(data)).
		Post("/v1/videos")
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %v", err)
	}
	if resp.StatusCode() != 201 && resp.StatusCode() != 200 {
		return "", fmt.Errorf("video API error: %s", resp.String())
	}

	var uploadResp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body(), &uploadResp); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %v", err)
	}
	if uploadResp.URL == "" {
		return "", fmt.Errorf("video API returned no URL")
	}
	return uploadResp.URL, nil
}

func (v *videoClient) Revoke(videoURL string) error {
	resp, err := v.client.R().
		SetBody(map[string]string{"url": videoURL}).
		Post("/v1/videos/revoke")
	if err != nil {
		return fmt.Errorf("failed to revoke video: %v", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 204 {
		return fmt.Errorf("video API error: %s", resp.String())
	}
	return nil
}
