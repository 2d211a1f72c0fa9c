package media

import (
	"errors"
	"net/http"
)

// multipartOverhead cubre boundaries y headers del form además del archivo.
const multipartOverhead = 1 << 20

// FromRequest lee el campo "file" de un multipart/form-data y lo sube con la política dada.
func (u *Uploader) FromRequest(w http.ResponseWriter, r *http.Request, p Policy) (Stored, error) {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(u.maxBytes + multipartOverhead); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return Stored{}, ErrTooLarge
		}
		return Stored{}, errMissingFile
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return Stored{}, errMissingFile
	}
	defer f.Close()

	return u.Store(r.Context(), hdr.Filename, hdr.Header.Get("Content-Type"), f, p)
}

var errMissingFile = errors.New("multipart field \"file\" is required")

// WriteError traduce errores de subida a status HTTP.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errMissingFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTooLarge):
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, "storage error", http.StatusInternalServerError)
	}
}
