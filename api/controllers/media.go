package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/danielovera/streampass-backend/api/responses"
	mediasvc "github.com/danielovera/streampass-backend/internal/media"
	pkgerrors "github.com/danielovera/streampass-backend/pkg/errors"
	"github.com/danielovera/streampass-backend/pkg/logger"
)

// maxMultipartMemory bounds the in-memory portion of form parsing; larger
// files spill to disk before the size check runs in the service.
const maxMultipartMemory = 8 << 20

// MediaUpload receives a multipart form with a "kind" field and a "file" part
// and stores the payload through the media service.
func MediaUpload(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		kind := mediasvc.Kind(strings.TrimSpace(r.FormValue("kind")))
		if kind == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "kind field is required"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file part is required"))
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload"))
			return
		}

		output, err := svc.Upload(r.Context(), mediasvc.UploadInput{
			Kind:        kind,
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, output)
	}
}
