package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/local/printssistant/internal/filetype"
	"github.com/local/printssistant/internal/pdfcheck"
)

const maxMultipartMemory = 32 << 20

// readPDF returns the uploaded PDF. Uploads come as multipart field "file"
// or as a raw application/pdf body.
func (s *Server) readPDF(r *http.Request) ([]byte, error) {
	var src io.Reader = r.Body
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, err
			}
			return nil, badRequest("invalid multipart form")
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, badRequest("missing file")
		}
		defer f.Close()
		src = f
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if filetype.New().DetectBytes(data).Kind != filetype.KindPDF {
		return nil, errNotPDF
	}
	return data, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := r.FormValue(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(key + " must be an integer")
	}
	return n, nil
}

func (s *Server) handlePDFCheck(w http.ResponseWriter, r *http.Request) {
	data, err := s.readPDF(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := s.deps.Catalog.ByID(r.FormValue("job"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	tol := s.deps.SizeTolerance
	if v := r.FormValue("tolerance"); v != "" {
		if tol, err = strconv.ParseFloat(v, 64); err != nil {
			writeError(w, r, badRequest("tolerance must be a number"))
			return
		}
	}
	rep, err := pdfcheck.CheckPages(data, job, tol)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadPDF, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handlePDFPreview(w http.ResponseWriter, r *http.Request) {
	data, err := s.readPDF(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := formInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dpi, err := formInt(r, "dpi", 72)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if dpi > pdfcheck.MaxPreviewDPI {
		writeError(w, r, badRequest(fmt.Sprintf("dpi must be at most %d", pdfcheck.MaxPreviewDPI)))
		return
	}
	q, err := formInt(r, "quality", 80)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mode := pdfcheck.ColorRGB
	if r.FormValue("mode") == string(pdfcheck.ColorGray) {
		mode = pdfcheck.ColorGray
	}

	pv, err := pdfcheck.RenderPreview(data, page, dpi, q, mode)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadPDF, err))
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("X-Page", strconv.Itoa(pv.Page))
	w.Header().Set("X-Image-Width", strconv.Itoa(pv.Width))
	w.Header().Set("X-Image-Height", strconv.Itoa(pv.Height))
	_, _ = w.Write(pv.JPEG)
}
