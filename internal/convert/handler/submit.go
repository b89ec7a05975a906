package handler

import (
	"errors"
	"net/http"

	"eternalpay/internal/domain"

	"github.com/sirupsen/logrus"
)

type submitResponse struct {
	TransactionID string `json:"transaction_id"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := h.submitter.Submit(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSubmitInFlight):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrNoRates):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			msg := "failed to submit transaction, please try again"
			logrus.WithError(err).WithField("handler", "Submit").Error(msg)
			writeError(w, http.StatusBadGateway, msg)
		}
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{TransactionID: id})
}
