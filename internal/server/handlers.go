package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/base-14/examples/go/parking-allocator/internal/session"
)

type Handler struct {
	session     *session.Session
	serviceName string
}

func NewHandler(s *session.Session, serviceName string) *Handler {
	return &Handler{
		session:     s,
		serviceName: serviceName,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

func (h *Handler) CreateParkingLot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ParkingLotCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, codeInvalidRequestBody, "Invalid request body")
		return
	}

	lot, err := h.session.Create(ctx, req.Capacity)
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Parking lot created successfully", map[string]any{
		"capacity": lot.Capacity(),
	})
}

func (h *Handler) ParkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot, err := h.session.Lot()
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	var req ParkVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, codeInvalidRequestBody, "Invalid request body")
		return
	}

	ticket, err := lot.Park(ctx, req.Registration, req.Color)
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Vehicle parked successfully", TicketResponse{
		SlotNumber:   ticket.SlotNumber,
		Registration: ticket.RegistrationNumber,
		Color:        ticket.Color,
	})
}

func (h *Handler) LeaveSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot, err := h.session.Lot()
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	var req LeaveSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, codeInvalidRequestBody, "Invalid request body")
		return
	}

	freed, err := lot.Leave(ctx, req.SlotNumber)
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	WriteSuccess(ctx, w, "Slot vacated successfully", FreedSlotResponse{
		SlotNumber:   freed.SlotNumber,
		Floor:        freed.Floor,
		Registration: freed.Vehicle.RegistrationNumber,
		Color:        freed.Vehicle.Color,
	})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot, err := h.session.Lot()
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	capacity := lot.Capacity()
	slots := make([]SlotStatus, capacity)
	for i := range slots {
		slots[i] = SlotStatus{SlotNumber: i + 1}
	}

	occupied := 0
	for slot := range lot.Status(ctx) {
		s := &slots[slot.SlotNumber-1]
		s.Occupied = true
		s.Registration = slot.RegistrationNumber
		s.Color = slot.Color
		occupied++
	}

	WriteSuccess(ctx, w, "Status retrieved successfully", StatusResponse{
		Capacity:  capacity,
		Occupied:  occupied,
		Available: capacity - occupied,
		Slots:     slots,
	})
}

func (h *Handler) FindByRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot, err := h.session.Lot()
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	registration := strings.TrimSpace(chi.URLParam(r, "registration"))
	if registration == "" {
		WriteError(ctx, w, http.StatusBadRequest, codeMissingRequiredField, "Registration number is required")
		return
	}

	vehicle, ok := lot.FindVehicle(ctx, registration)
	if !ok {
		WriteError(ctx, w, http.StatusNotFound, codeVehicleNotFound, "Vehicle not found")
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", FindVehicleResponse{
		SlotNumber:   vehicle.SlotNumber,
		Registration: vehicle.RegistrationNumber,
		Color:        vehicle.Color,
	})
}

func (h *Handler) RegistrationsByColor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot, err := h.session.Lot()
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	color := chi.URLParam(r, "color")
	WriteSuccess(ctx, w, "Registrations retrieved successfully", RegistrationsResponse{
		Color:         color,
		Registrations: lot.RegistrationsByColor(ctx, color),
	})
}

func (h *Handler) SlotNumbersByColor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot, err := h.session.Lot()
	if err != nil {
		writeLotError(ctx, w, err)
		return
	}

	color := chi.URLParam(r, "color")
	WriteSuccess(ctx, w, "Slot numbers retrieved successfully", SlotNumbersResponse{
		Color:       color,
		SlotNumbers: lot.SlotNumbersByColor(ctx, color),
	})
}
