package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	currency "github.com/malusev998/currency-converter"
)

type (
	RatesResponse struct {
		Base  currency.Code             `json:"base"`
		Rates map[currency.Code]float64 `json:"rates"`
	}

	ConversionResponse struct {
		Source    currency.Code   `json:"source"`
		Target    currency.Code   `json:"target"`
		Rate      float64         `json:"rate"`
		Amount    decimal.Decimal `json:"amount"`
		Converted decimal.Decimal `json:"converted"`
	}

	ErrorResponse struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id,omitempty"`
	}

	handler struct {
		conversion currency.Conversion
		logger     log.Logger
	}
)

// NewHandler routes /rates requests to conversion, /metrics is served only
// when gatherer is not nil.
func NewHandler(conversion currency.Conversion, logger log.Logger, gatherer prometheus.Gatherer) http.Handler {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	h := handler{conversion: conversion, logger: logger}

	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, LoggingMiddleware(logger))

	router.HandleFunc("/rates/{source}", h.listRates).Methods(http.MethodGet)
	router.HandleFunc("/rates/{source}/{target}", h.convert).Methods(http.MethodGet)

	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return router
}

func (h handler) listRates(w http.ResponseWriter, r *http.Request) {
	source := currency.ParseCode(mux.Vars(r)["source"])

	rates, err := h.conversion.List(r.Context(), source)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	h.send(w, http.StatusOK, RatesResponse{Base: source, Rates: rates.Map()})
}

func (h handler) convert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	amount := decimal.NewFromInt(1)

	if value := r.URL.Query().Get("amount"); value != "" {
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			h.send(w, http.StatusBadRequest, ErrorResponse{
				Error:     "amount must be a decimal number",
				RequestID: GetRequestID(r.Context()),
			})
			return
		}

		amount = parsed
	}

	converted, err := h.conversion.Convert(r.Context(), currency.ParseCode(vars["source"]), currency.ParseCode(vars["target"]), amount)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	h.send(w, http.StatusOK, ConversionResponse{
		Source:    converted.Source,
		Target:    converted.Target,
		Rate:      converted.Rate,
		Amount:    amount,
		Converted: converted.Amount,
	})
}

func (h handler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	var status int

	switch {
	case errors.Is(err, currency.ErrInvalidSourceCurrency), errors.Is(err, currency.ErrInvalidTargetCurrency):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, currency.ErrUnavailable):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	level.Warn(h.logger).Log("request_id", GetRequestID(r.Context()), "status", status, "err", err)

	h.send(w, status, ErrorResponse{Error: err.Error(), RequestID: GetRequestID(r.Context())})
}

func (h handler) send(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		level.Error(h.logger).Log("msg", "cannot encode response", "err", err)
	}
}
