package httpserver

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mediwallet/internal/domain"
)

type testResultCreateRequest struct {
	TestType  string  `json:"test_type"`
	ImagePath string  `json:"image_path"`
	Results   *string `json:"results,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type createdResponse struct {
	ID        int64  `json:"id"`
	ImagePath string `json:"image_path"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// optionalField returns nil for an absent or blank form value.
func optionalField(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// handleListTestResults godoc
// @Summary      List test results
// @Description  All test results, newest first
// @Tags         test-results
// @Produce      json
// @Success      200  {array}   domain.TestResult
// @Failure      503  {object}  map[string]string
// @Router       /test-results [get]
func handleListTestResults(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := b.GetAllTestResults(r.Context())
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(list))
	}
}

// handleCreateTestResult godoc
// @Summary      Create a test result
// @Description  Multipart upload (image, test_type, results, notes) or JSON referencing a stored image
// @Tags         test-results
// @Accept       mpfd,json
// @Produce      json
// @Success      201  {object}  createdResponse
// @Failure      400  {object}  map[string]string
// @Router       /test-results [post]
func handleCreateTestResult(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.NewTestResult

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				badRequest(w, "failed to parse multipart form")
				return
			}
			file, header, err := r.FormFile("image")
			if err != nil {
				badRequest(w, "missing image")
				return
			}
			defer file.Close()

			in.TestType = r.FormValue("test_type")
			in.Results = optionalField(r, "results")
			in.Notes = optionalField(r, "notes")
			if strings.TrimSpace(in.TestType) == "" {
				badRequest(w, "test_type is required")
				return
			}

			id, path, err := b.AddTestResultWithImage(r.Context(), in, domain.ImageSource{Reader: file, Ext: filepath.Ext(header.Filename)})
			if err != nil {
				errs.write(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, createdResponse{ID: id, ImagePath: path})
			return
		}

		var req testResultCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		in = domain.NewTestResult{
			TestType:  req.TestType,
			ImagePath: req.ImagePath,
			Results:   req.Results,
			Notes:     req.Notes,
		}

		id, err := b.AddTestResult(r.Context(), in)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id, ImagePath: in.ImagePath})
	}
}

func handleUploadImage(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			badRequest(w, "failed to parse multipart form")
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			badRequest(w, "missing image")
			return
		}
		defer file.Close()

		path, err := b.SaveImageFrom(r.Context(), file, filepath.Ext(header.Filename))
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"image_path": path})
	}
}

// handleGetTestResult godoc
// @Summary      Get a test result
// @Tags         test-results
// @Produce      json
// @Param        id   path      int  true  "Test result ID"
// @Success      200  {object}  domain.TestResult
// @Failure      404  {object}  map[string]string
// @Router       /test-results/{id} [get]
func handleGetTestResult(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "invalid test result id")
			return
		}
		tr, err := b.GetTestResultByID(r.Context(), id)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		if tr == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "test result not found"})
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

func handleUpdateTestResult(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "invalid test result id")
			return
		}
		var u domain.TestResultUpdate
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if err := b.UpdateTestResult(r.Context(), id, u); err != nil {
			errs.write(w, r, err)
			return
		}
		tr, err := b.GetTestResultByID(r.Context(), id)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		if tr == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "test result not found"})
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}

// Deleting an unknown id succeeds.
func handleDeleteTestResult(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "invalid test result id")
			return
		}
		if err := b.DeleteTestResult(r.Context(), id); err != nil {
			errs.write(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleTestResultImage(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "invalid test result id")
			return
		}
		img, err := b.OpenTestResultImage(r.Context(), id)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		defer img.Content.Close()
		http.ServeContent(w, r, img.Name, img.ModTime, img.Content)
	}
}

// handleAnalyzeTestResult godoc
// @Summary      Analyze a test result image
// @Description  Sends the image to the configured AI provider; save=true stores the text as analyzed_data
// @Tags         test-results
// @Produce      json
// @Param        id    path   int   true   "Test result ID"
// @Param        save  query  bool  false  "Store the analysis"
// @Success      200  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /test-results/{id}/analysis [post]
func handleAnalyzeTestResult(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "invalid test result id")
			return
		}
		save, _ := strconv.ParseBool(r.URL.Query().Get("save"))
		text, err := b.AnalyzeTestResult(r.Context(), id, save)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"analysis": text})
	}
}

func handleStats(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := b.GetDatabaseStats(r.Context())
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
