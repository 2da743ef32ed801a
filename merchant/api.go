package merchant

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/alovak/qris-playground/merchant/models"
	"github.com/alovak/qris-playground/qris"
	"github.com/go-chi/chi/v5"
)

const maxImageUpload = 10 << 20

// API is a HTTP API for the merchant service
type API struct {
	merchant *Service
	now      func() time.Time
}

func NewAPI(merchant *Service) *API {
	return &API{
		merchant: merchant,
		now:      time.Now,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/", a.createPayment)
		r.Get("/", a.listPayments)
		r.Get("/{paymentID}", a.getPayment)
	})
	r.Route("/payloads", func(r chi.Router) {
		r.Post("/validate", a.validatePayload)
		r.Post("/info", a.payloadInfo)
		r.Post("/fields", a.payloadFields)
	})
	r.Route("/qr", func(r chi.Router) {
		r.Post("/decode", a.decodeImage)
		r.Post("/encode", a.encodeImage)
	})
}

type payloadRequest struct {
	Payload string `json:"payload"`
}

type encodeRequest struct {
	Payload string `json:"payload"`
	Format  string `json:"format"`
}

type validateResponse struct {
	Valid    bool   `json:"valid"`
	Checksum string `json:"checksum"`
}

func (a *API) createPayment(w http.ResponseWriter, r *http.Request) {
	create := models.CreatePayment{}
	err := json.NewDecoder(r.Body).Decode(&create)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payment, created, err := a.merchant.CreatePayment(r.Context(), create)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, models.NewPaymentView(payment, a.now()))
}

func (a *API) getPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	payment, err := a.merchant.GetPayment(r.Context(), paymentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewPaymentView(payment, a.now()))
}

func (a *API) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := a.merchant.ListPayments(r.Context(), r.URL.Query().Get("nmid"))
	if err != nil {
		writeError(w, err)
		return
	}

	now := a.now()
	views := make([]models.PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, models.NewPaymentView(p, now))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *API) validatePayload(w http.ResponseWriter, r *http.Request) {
	var req payloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	valid, checksum := a.merchant.Validate(req.Payload)
	writeJSON(w, http.StatusOK, validateResponse{Valid: valid, Checksum: checksum})
}

func (a *API) payloadInfo(w http.ResponseWriter, r *http.Request) {
	var req payloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	info, err := a.merchant.Info(req.Payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *API) payloadFields(w http.ResponseWriter, r *http.Request) {
	var req payloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fields, err := a.merchant.Fields(req.Payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// decodeImage takes the raw image as request body.
func (a *API) decodeImage(w http.ResponseWriter, r *http.Request) {
	payload, err := a.merchant.DecodeImage(io.LimitReader(r.Body, maxImageUpload))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payloadRequest{Payload: payload})
}

func (a *API) encodeImage(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !qris.IsValid(req.Payload) {
		writeError(w, &qris.ValidationError{Message: "invalid payload CRC16"})
		return
	}
	body, contentType, err := a.merchant.Render(req.Payload, req.Format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps codec errors by kind and repository sentinels to
// status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, qris.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, qris.ErrDefault):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
