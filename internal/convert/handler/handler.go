package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"eternalpay/internal/convert"
	"eternalpay/internal/domain"
)

type Converter interface {
	View() convert.View
	SetSourceAmount(raw string)
	SetDestinationAmount(raw string)
	SetDestinationKey(raw string)
	ToggleDirection() error
}

type Submitter interface {
	Submit(ctx context.Context) (string, error)
}

type Handler struct {
	converter Converter
	submitter Submitter
}

func NewConverterHandler(converter Converter, submitter Submitter) *Handler {
	return &Handler{converter: converter, submitter: submitter}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

type rateResponse struct {
	Pair       string    `json:"pair"`
	Value      string    `json:"value"`
	ObservedAt time.Time `json:"observed_at"`
}

type converterResponse struct {
	Direction           string         `json:"direction"`
	SourceCurrency      string         `json:"source_currency"`
	DestinationCurrency string         `json:"destination_currency"`
	FiatAmount          string         `json:"fiat_amount"`
	CryptoAmount        string         `json:"crypto_amount"`
	FeeRate             string         `json:"fee_rate"`
	Fee                 *string        `json:"fee"`
	Net                 *string        `json:"net"`
	DestinationKey      string         `json:"destination_key"`
	KeyError            string         `json:"key_error,omitempty"`
	BoundsError         string         `json:"bounds_error,omitempty"`
	CanSubmit           bool           `json:"can_submit"`
	SubmitInFlight      bool           `json:"submit_in_flight"`
	RatesErrored        bool           `json:"rates_errored"`
	Rates               []rateResponse `json:"rates"`
}

func toConverterResponse(v convert.View) converterResponse {
	res := converterResponse{
		Direction:           string(v.Direction),
		SourceCurrency:      v.SourceCurrency,
		DestinationCurrency: v.DestinationCurrency,
		FiatAmount:          v.FiatAmount.StringFixed(domain.FiatScale),
		CryptoAmount:        v.CryptoAmount.StringFixed(domain.CryptoScale),
		FeeRate:             v.FeeRate.String(),
		DestinationKey:      v.DestinationKey,
		KeyError:            v.KeyError,
		BoundsError:         v.BoundsError,
		CanSubmit:           v.CanSubmit,
		SubmitInFlight:      v.SubmitInFlight,
		RatesErrored:        v.RatesErrored,
		Rates:               make([]rateResponse, 0, len(v.Rates)),
	}
	if v.Fee != nil {
		fee := v.Fee.StringFixed(domain.FiatScale)
		res.Fee = &fee
	}
	if v.Net != nil {
		net := v.Net.StringFixed(domain.FiatScale)
		res.Net = &net
	}
	for _, r := range v.Rates {
		res.Rates = append(res.Rates, rateResponse{Pair: r.Pair, Value: r.Value.String(), ObservedAt: r.ObservedAt})
	}
	return res
}
