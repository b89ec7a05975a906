package api

import (
	converthandler "eternalpay/internal/convert/handler"
	trackhandler "eternalpay/internal/track/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(converter *converthandler.Handler, tracking *trackhandler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Get("/api/v1/rates", converter.GetRates)
	router.Get("/api/v1/converter", converter.GetConverter)
	router.Put("/api/v1/converter/amount", converter.SetAmount)
	router.Put("/api/v1/converter/destination-key", converter.SetDestinationKey)
	router.Post("/api/v1/converter/direction/toggle", converter.ToggleDirection)
	router.Post("/api/v1/transactions", converter.Submit)
	router.Get("/api/v1/transactions/{id}", tracking.GetTransaction)
	router.Get("/api/v1/transactions/{id}/payment-code", tracking.GetPaymentCode)
	return router
}
