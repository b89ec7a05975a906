package handler

import (
	"encoding/json"
	"net/http"
)

const (
	sideSource      = "source"
	sideDestination = "destination"
)

type setAmountRequest struct {
	Side  string `json:"side"`
	Value string `json:"value"`
}

func (h *Handler) SetAmount(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req setAmountRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Side {
	case sideSource:
		h.converter.SetSourceAmount(req.Value)
	case sideDestination:
		h.converter.SetDestinationAmount(req.Value)
	default:
		writeError(w, http.StatusBadRequest, "side must be \"source\" or \"destination\"")
		return
	}

	writeJSON(w, http.StatusOK, toConverterResponse(h.converter.View()))
}
