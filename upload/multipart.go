package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"loan-dashboard/models"
)

// ErrNoFile is returned when the form carries no file under the field.
var ErrNoFile = errors.New("upload: no file selected")

// ReadMultipart reads the first file under field from a browser upload.
// At most limit+1 bytes are read so an oversized file still reports a size
// above the ceiling without being buffered whole.
func ReadMultipart(r *http.Request, field string, limit int64) (models.Upload, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return models.Upload{}, ErrNoFile
		}
		return models.Upload{}, fmt.Errorf("upload: read form: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return models.Upload{}, fmt.Errorf("upload: read %q: %w", hdr.Filename, err)
	}

	size := hdr.Size
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	return models.Upload{
		Name:       hdr.Filename,
		Size:       size,
		Data:       data,
		SelectedAt: time.Now(),
	}, nil
}
