package filex

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// MaxImageSize is the largest image accepted as an inline data URL.
const MaxImageSize = 50 * 1024

var ErrNotImage = errors.New("not an image file")

// TooLargeError reports an image over the size limit.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("image is %dKB, limit is %dKB", (e.Size+512)/1024, e.Limit/1024)
}

// ImageDataURL reads the image at path and returns it as a base64 data URL.
// Files of limit bytes or more are rejected with *TooLargeError.
func ImageDataURL(path string, limit int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}
	if fi.Size() >= limit {
		return "", &TooLargeError{Size: fi.Size(), Limit: limit}
	}

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return "", err
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s: %w (%s)", path, ErrNotImage, mime)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
