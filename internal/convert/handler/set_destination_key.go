package handler

import (
	"encoding/json"
	"net/http"
)

type setDestinationKeyRequest struct {
	Key string `json:"key"`
}

func (h *Handler) SetDestinationKey(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 512)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req setDestinationKeyRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.converter.SetDestinationKey(req.Key)
	writeJSON(w, http.StatusOK, toConverterResponse(h.converter.View()))
}
