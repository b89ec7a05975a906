package handler

import "net/http"

func (h *Handler) GetConverter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toConverterResponse(h.converter.View()))
}
