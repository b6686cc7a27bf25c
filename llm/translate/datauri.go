package translate

import (
	"encoding/base64"
	"strings"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

const defaultImageMIME = "image/jpeg"

// SplitDataURI 将 "data:<mime>;base64,<data>" 拆为 MIME 与数据。
// 不带前缀的裸 base64 视为 image/jpeg。
func SplitDataURI(uri string) (mime, data string, err error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", "", mediaError("image data is empty")
	}

	if !strings.HasPrefix(uri, "data:") {
		mime, data = defaultImageMIME, uri
	} else {
		header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
		if !ok {
			return "", "", mediaError("data URI has no payload")
		}
		parts := strings.Split(header, ";")
		if len(parts) < 2 || parts[len(parts)-1] != "base64" {
			return "", "", mediaError("data URI is not base64 encoded")
		}
		mime, data = parts[0], payload
		if mime == "" {
			mime = defaultImageMIME
		}
	}

	if data == "" {
		return "", "", mediaError("image data is empty")
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return "", "", mediaError("image data is not valid base64").WithCause(err)
	}
	return mime, data, nil
}

func mediaError(msg string) *types.Error {
	return types.NewConfigurationError(types.ErrMediaEncoding, msg)
}
