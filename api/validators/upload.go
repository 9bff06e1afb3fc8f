package validators

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/weaveai/weaveai-backend/pkg/config"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/tabular"
)

const uploadFormField = "file"

// DecodeUpload reads the multipart dataset upload into a table. The caller is
// expected to have wrapped the body in http.MaxBytesReader; a tripped cap
// surfaces here as a validation error rather than a broken connection.
func DecodeUpload(r *http.Request, cfg config.UploadConfig) (*tabular.Table, error) {
	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "uploaded file is too large").
				WithDetails(map[string]any{"max_bytes": maxBytesErr.Limit})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing file upload").
			WithDetails(map[string]any{"field": uploadFormField})
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extensionAllowed(ext, cfg.AllowedExtensions) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
			WithDetails(map[string]any{
				"extension": ext,
				"allowed":   cfg.AllowedExtensions,
			})
	}

	var table *tabular.Table
	switch ext {
	case ".xlsx":
		table, err = tabular.ReadXLSX(file)
	default:
		table, err = tabular.ReadCSV(file)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable dataset file")
	}
	return table, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return true
		}
	}
	return false
}
