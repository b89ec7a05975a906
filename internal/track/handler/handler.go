package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"eternalpay/internal/domain"
	"eternalpay/internal/track"
)

type Tracks interface {
	Track(id string) *track.Tracker
}

type Handler struct {
	registry Tracks
}

func NewTrackingHandler(registry Tracks) *Handler {
	return &Handler{registry: registry}
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

type stepResponse struct {
	Name   string     `json:"name"`
	Active bool       `json:"active"`
	At     *time.Time `json:"at"`
}

type pixResponse struct {
	QRImageURL string `json:"qr_image_url"`
	BRCode     string `json:"brcode,omitempty"`
	CanCopy    bool   `json:"can_copy"`
	Amount     string `json:"amount"`
}

type transactionResponse struct {
	ID                  string         `json:"id"`
	Observed            bool           `json:"observed"`
	Status              string         `json:"status,omitempty"`
	Message             string         `json:"message,omitempty"`
	Timeline            []stepResponse `json:"timeline,omitempty"`
	Amount              string         `json:"amount,omitempty"`
	ConvertedAmount     string         `json:"converted_amount,omitempty"`
	FeeRate             string         `json:"fee_rate,omitempty"`
	SourceCurrency      string         `json:"source_currency,omitempty"`
	DestinationCurrency string         `json:"destination_currency,omitempty"`
	DestinationKey      string         `json:"destination_key,omitempty"`
	Pix                 *pixResponse   `json:"pix,omitempty"`
}

func toTransactionResponse(v track.View) transactionResponse {
	res := transactionResponse{
		ID:       v.ID,
		Observed: v.Observed,
	}
	if !v.Observed {
		return res
	}

	res.Status = string(v.Status)
	res.Message = v.Message
	res.Amount = v.Amount.StringFixed(domain.FiatScale)
	res.ConvertedAmount = v.ConvertedAmount.StringFixed(domain.CryptoScale)
	res.FeeRate = v.FeeRate.String()
	res.SourceCurrency = v.SourceCurrency
	res.DestinationCurrency = v.DestinationCurrency
	res.DestinationKey = v.DestinationKey

	for _, s := range v.Timeline {
		res.Timeline = append(res.Timeline, stepResponse{Name: s.Name, Active: s.Active, At: s.At})
	}
	if v.Pix != nil {
		res.Pix = &pixResponse{
			QRImageURL: v.Pix.QRImageURL,
			BRCode:     v.Pix.BRCode,
			CanCopy:    v.Pix.HasCode(),
			Amount:     v.Pix.Amount.StringFixed(domain.FiatScale),
		}
	}
	return res
}
