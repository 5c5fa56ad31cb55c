package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mediwallet/internal/domain"
)

type shareCreateRequest struct {
	RecipientName  string     `json:"recipient_name"`
	RecipientEmail *string    `json:"recipient_email,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	// ExpiresIn is a Go duration such as "24h", used when ExpiresAt is absent.
	ExpiresIn string `json:"expires_in,omitempty"`
}

type shareCreateResponse struct {
	*domain.ShareLink
	URL string `json:"url"`
}

// handleCreateShare godoc
// @Summary      Share a test result
// @Description  Grants a recipient access until expires_at, at most 48 hours from now
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "Test result ID"
// @Param        input body  shareCreateRequest  true  "Recipient and expiry"
// @Success      201  {object}  shareCreateResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /test-results/{id}/shares [post]
func handleCreateShare(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "invalid test result id")
			return
		}
		var req shareCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		var expiresAt time.Time
		switch {
		case req.ExpiresAt != nil:
			expiresAt = *req.ExpiresAt
		case req.ExpiresIn != "":
			d, err := time.ParseDuration(req.ExpiresIn)
			if err != nil {
				badRequest(w, "invalid expires_in")
				return
			}
			expiresAt = time.Now().Add(d)
		default:
			badRequest(w, "expires_at or expires_in is required")
			return
		}

		link, err := b.CreateShare(r.Context(), domain.NewShare{
			TestResultID:   id,
			RecipientName:  req.RecipientName,
			RecipientEmail: req.RecipientEmail,
			ExpiresAt:      expiresAt,
		})
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, shareCreateResponse{ShareLink: link, URL: "/api/shared/" + link.Token})
	}
}

func handleListShares(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "invalid test result id")
			return
		}
		shares, err := b.ListShares(r.Context(), id)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(shares))
	}
}

// handleOpenShare godoc
// @Summary      Open a shared test result
// @Tags         shares
// @Produce      json
// @Param        token  path  string  true  "Share token"
// @Success      200  {object}  domain.SharedTestResult
// @Failure      410  {object}  map[string]string
// @Router       /shared/{token} [get]
func handleOpenShare(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared, err := b.OpenShare(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, shared)
	}
}
