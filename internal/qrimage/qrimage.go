// Package qrimage converts between QR code images and payload strings.
package qrimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/alovak/qris-playground/qris"
	"github.com/liyue201/goqr"
	qrcode "github.com/skip2/go-qrcode"
)

// Output formats understood by Render.
const (
	FormatPNG      = "png"
	FormatDataURL  = "dataurl"
	FormatTerminal = "terminal"
)

const (
	DefaultSize = 256
	// maxImageBytes caps how much of a remote or uploaded image is read.
	maxImageBytes = 10 << 20
)

// Codec encodes payloads to QR images and recognizes payloads in images.
type Codec struct {
	// Size is the PNG edge in pixels. A negative value is pixels per module.
	Size  int
	Level qrcode.RecoveryLevel
	HTTP  *http.Client
}

func New(size int) *Codec {
	if size == 0 {
		size = DefaultSize
	}
	return &Codec{
		Size:  size,
		Level: qrcode.Medium,
		HTTP:  http.DefaultClient,
	}
}

// Decode reads an image and returns the first QR payload found in it.
func (c *Codec) Decode(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes))
	if err != nil {
		return "", qris.Errorf(err, "failed to read image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", qris.Errorf(err, "invalid image format")
	}
	codes, err := goqr.Recognize(img)
	if err != nil {
		return "", qris.Errorf(err, "failed to decode QR code")
	}
	for _, code := range codes {
		if s := strings.TrimSpace(string(code.Payload)); s != "" {
			return s, nil
		}
	}
	return "", qris.Errorf(nil, "no QR code found in image")
}

// DecodeFile decodes the QR code in the image at path.
func (c *Codec) DecodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", qris.Errorf(err, "failed to open image")
	}
	defer f.Close()
	return c.Decode(f)
}

// DecodeURL fetches an image and decodes the QR code in it.
func (c *Codec) DecodeURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", qris.Errorf(err, "invalid image url")
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", qris.Errorf(err, "failed to fetch image")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", qris.Errorf(nil, "failed to fetch image: status %d", resp.StatusCode)
	}
	return c.Decode(resp.Body)
}

// PNG encodes payload as a PNG image.
func (c *Codec) PNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, qris.Errorf(nil, "nothing to encode")
	}
	png, err := qrcode.Encode(payload, c.Level, c.Size)
	if err != nil {
		return nil, qris.Errorf(err, "failed to generate QR image")
	}
	return png, nil
}

// DataURL returns the PNG image as a data:image/png;base64 URL.
func (c *Codec) DataURL(payload string) (string, error) {
	png, err := c.PNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders payload with half-block glyphs, two modules per line.
func (c *Codec) Terminal(payload string) (string, error) {
	if payload == "" {
		return "", qris.Errorf(nil, "nothing to encode")
	}
	q, err := qrcode.New(payload, c.Level)
	if err != nil {
		return "", qris.Errorf(err, "failed to generate QR code")
	}
	return q.ToSmallString(false), nil
}

// Render encodes payload in format and returns the bytes with their
// content type.
func (c *Codec) Render(payload, format string) ([]byte, string, error) {
	switch format {
	case FormatPNG, "":
		b, err := c.PNG(payload)
		return b, "image/png", err
	case FormatDataURL:
		s, err := c.DataURL(payload)
		return []byte(s), "text/plain; charset=utf-8", err
	case FormatTerminal, "utf8":
		s, err := c.Terminal(payload)
		return []byte(s), "text/plain; charset=utf-8", err
	}
	return nil, "", &qris.ValidationError{Message: fmt.Sprintf("unknown image format %q", format)}
}
