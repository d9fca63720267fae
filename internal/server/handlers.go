package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"fintrack/bank-import/internal/export"
	"fintrack/bank-import/internal/fxrate"
	"fintrack/bank-import/internal/importer"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/store"

	"github.com/go-chi/chi/v5"
)

const multipartMemory = 8 << 20

type importResponse struct {
	AccountID string            `json:"account_id"`
	Reports   []importer.Report `json:"reports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImport accepts one or more statements as multipart "file" or "files" parts.
// POST /api/accounts/{id}/imports
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if r.ContentLength > s.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart upload")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var headers []*multipart.FileHeader
	for _, field := range []string{"files", "file"} {
		headers = append(headers, r.MultipartForm.File[field]...)
	}
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	files := make([]importer.File, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to read uploaded file",
				logging.Field{Key: logging.FieldFile, Value: fh.Filename})
			writeError(w, http.StatusBadRequest, "unreadable file "+fh.Filename)
			return
		}
		files = append(files, importer.File{Name: fh.Filename, Data: data})
	}

	reports := s.cfg.Importer.ImportFiles(r.Context(), accountID, files)
	writeJSON(w, http.StatusOK, importResponse{AccountID: accountID, Reports: reports})
}

// handleExport streams the account's transactions as CSV.
// GET /api/accounts/{id}/export.csv
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if _, err := s.cfg.Store.Account(r.Context(), accountID); err != nil {
		s.storeError(w, err, "account")
		return
	}
	txs, err := s.cfg.Store.Transactions(r.Context(), accountID)
	if err != nil {
		s.storeError(w, err, "transactions")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", accountID+".csv"))
	if err := export.Write(w, txs); err != nil {
		s.logger.WithError(err).Error("Export failed", logging.Field{Key: logging.FieldAccount, Value: accountID})
	}
}

// GET /api/users/{id}/forecast
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	rep, err := s.cfg.Reports.Forecast(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err, "forecast")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// GET /api/users/{id}/budget-suggestions
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	rep, err := s.cfg.Reports.Suggestions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err, "suggestions")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// GET /api/fx?from=EUR&to=GBP
func (s *Server) handleFX(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	rt, err := s.cfg.Rates.Rate(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, fxrate.ErrInvalidCurrency) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Warn("Exchange rate unavailable",
			logging.Field{Key: logging.FieldCurrency, Value: strings.ToUpper(from + "/" + to)})
		writeError(w, http.StatusBadGateway, "exchange rate unavailable")
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) storeError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	s.logger.WithError(err).Error("Request failed", logging.Field{Key: logging.FieldOperation, Value: what})
	writeError(w, http.StatusInternalServerError, "internal error")
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
