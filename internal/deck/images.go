package deck

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/technews/internal/utils"
)

const maxImageBytes = 10 << 20 // 10MB

// ImageFetcher downloads an image and returns it as JPEG bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPImageFetcher fetches images over HTTP and re-encodes them as JPEG.
type HTTPImageFetcher struct {
	client *resty.Client
}

func NewHTTPImageFetcher(client *resty.Client) *HTTPImageFetcher {
	return &HTTPImageFetcher{client: client}
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "image/jpeg, image/png, image/gif;q=0.8").
		Get(url)
	if err != nil {
		return nil, utils.ClassifyError("fetch image", err)
	}
	if err := utils.CheckStatus("fetch image", resp); err != nil {
		return nil, err
	}
	if resp.Size() > maxImageBytes {
		return nil, fmt.Errorf("fetch image: %d bytes exceeds limit", resp.Size())
	}
	return NormalizeJPEG(resp.Body())
}

// NormalizeJPEG decodes a JPEG, PNG or GIF image and re-encodes it as a
// baseline JPEG, the one format the PDF writer embeds without surprises.
func NormalizeJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
