package httpserver

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/kalakriti/backend/internal/service"
)

// openUploads opens every file header. The returned func closes whatever was
// opened and must be called once the uploads are consumed.
func openUploads(headers []*multipart.FileHeader) ([]service.Upload, func(), error) {
	var (
		uploads []service.Upload
		files   []io.Closer
	)
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, service.Upload{
			Filename: fh.Filename,
			Body:     f,
		})
	}
	return uploads, closeAll, nil
}
