package classify

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"
)

// ErrInvalidImage is returned by PreviewImage when the payload cannot be decoded.
var ErrInvalidImage = errors.New("invalid image data")

// ImageInfo describes the header of a base64 image payload.
type ImageInfo struct {
	Format        string // declared in the data URI
	DecodedFormat string // detected from the image header
	Width         int
	Height        int
	Bytes         int
}

// String renders the info as shown in the preview panel.
func (i ImageInfo) String() string {
	return fmt.Sprintf("%s image %dx%d (%s)", strings.ToUpper(i.DecodedFormat), i.Width, i.Height, FormatBytes(int64(i.Bytes)))
}

// PreviewImage decodes the header of a data:image/...;base64 string.
func PreviewImage(s string) (ImageInfo, error) {
	m := dataImageRe.FindStringSubmatch(s)
	if m == nil {
		return ImageInfo{}, fmt.Errorf("%w: not a base64 image", ErrInvalidImage)
	}
	raw, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(m[2], "="))
		if err != nil {
			return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return ImageInfo{
		Format:        m[1],
		DecodedFormat: format,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Bytes:         len(raw),
	}, nil
}
