package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/technews/internal/utils"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"
	imageModel    = "dall-e-3"
	imageSize     = "1024x1024"
	imageQuality  = "standard"
)

// ErrNoAPIKey is returned when image generation is attempted without a key.
var ErrNoAPIKey = errors.New("openai: no API key configured")

// ImageClient generates illustrations through the OpenAI images API.
type ImageClient struct {
	client  *resty.Client
	apiKey  string
	baseURL string

	mu  sync.Mutex
	rng *rand.Rand
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type imageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func NewImageClient(client *resty.Client, apiKey string) *ImageClient {
	return &ImageClient{
		client:  client,
		apiKey:  apiKey,
		baseURL: openAIBaseURL,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

// WithBaseURL points the client at a different API host.
func (c *ImageClient) WithBaseURL(baseURL string) *ImageClient {
	c.baseURL = baseURL
	return c
}

// WithRand replaces the prompt picker's random source.
func (c *ImageClient) WithRand(rng *rand.Rand) *ImageClient {
	c.rng = rng
	return c
}

// GenerateImage draws a prompt from ImagePrompts and returns the URL of the
// generated image.
func (c *ImageClient) GenerateImage(ctx context.Context) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	c.mu.Lock()
	prompt := PickPrompt(c.rng)
	c.mu.Unlock()

	return c.generate(ctx, prompt)
}

func (c *ImageClient) generate(ctx context.Context, prompt string) (string, error) {
	req := imageRequest{
		Model:   imageModel,
		Prompt:  prompt,
		N:       1,
		Size:    imageSize,
		Quality: imageQuality,
	}

	var resp imageResponse
	raw, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(c.baseURL + "/images/generations")
	if err != nil {
		return "", utils.ClassifyError("openai request", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("openai error (%s): %s", resp.Error.Type, resp.Error.Message)
	}
	if err := utils.CheckStatus("openai", raw); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("openai: no image in response")
	}

	return resp.Data[0].URL, nil
}
