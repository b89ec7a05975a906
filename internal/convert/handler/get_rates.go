package handler

import "net/http"

type ratesResponse struct {
	Errored bool           `json:"errored"`
	Rates   []rateResponse `json:"rates"`
}

func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	view := toConverterResponse(h.converter.View())
	writeJSON(w, http.StatusOK, ratesResponse{
		Errored: view.RatesErrored,
		Rates:   view.Rates,
	})
}
