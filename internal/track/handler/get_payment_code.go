package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"eternalpay/internal/domain"

	"github.com/go-chi/chi/v5"
)

type paymentCodeResponse struct {
	BRCode string `json:"brcode"`
}

// GetPaymentCode serves the copyable Pix code. It only succeeds once the
// textual code has arrived; the caller keeps the copy affordance disabled
// until then.
func (h *Handler) GetPaymentCode(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	tracker := h.registry.Track(id)
	code, err := tracker.PaymentCode()
	if err != nil {
		if errors.Is(err, domain.ErrCodeUnavailable) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read payment code")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(paymentCodeResponse{BRCode: code})
}
