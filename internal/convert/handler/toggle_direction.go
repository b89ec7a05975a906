package handler

import (
	"errors"
	"net/http"

	"eternalpay/internal/convert"
)

func (h *Handler) ToggleDirection(w http.ResponseWriter, r *http.Request) {
	if err := h.converter.ToggleDirection(); err != nil {
		if errors.Is(err, convert.ErrToggleDisabled) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to toggle direction")
		return
	}
	writeJSON(w, http.StatusOK, toConverterResponse(h.converter.View()))
}
