package parking

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/base-14/examples/go/parking-allocator/internal/logging"
	"github.com/base-14/examples/go/parking-allocator/internal/telemetry"
)

type InstrumentedParkingLot struct {
	*ParkingLot
	tracer trace.Tracer

	// Metrics
	parkingOperations metric.Int64Counter
	leavingOperations metric.Int64Counter
	queryOperations   metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	operationDuration metric.Float64Histogram
	totalSlotsGauge   metric.Int64UpDownCounter
}

func NewInstrumentedParkingLot(capacity int, provider *telemetry.Provider) (*InstrumentedParkingLot, error) {
	baseParkingLot, err := NewParkingLot(capacity)
	if err != nil {
		return nil, err
	}
	return Instrument(baseParkingLot, provider)
}

// Instrument wraps an existing lot. The lot's capacity is added to
// parking_lot_total_slots only once every instrument has been created.
func Instrument(baseParkingLot *ParkingLot, provider *telemetry.Provider) (*InstrumentedParkingLot, error) {
	capacity := baseParkingLot.Capacity()
	meter := provider.Meter

	parkingOperations, err := meter.Int64Counter("parking_operations_total",
		metric.WithDescription("Total number of parking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	leavingOperations, err := meter.Int64Counter("leaving_operations_total",
		metric.WithDescription("Total number of leaving operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	queryOperations, err := meter.Int64Counter("query_operations_total",
		metric.WithDescription("Total number of lookups against parked vehicles"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge.Add(context.Background(), int64(capacity))

	return &InstrumentedParkingLot{
		ParkingLot:        baseParkingLot,
		tracer:            provider.Tracer,
		parkingOperations: parkingOperations,
		leavingOperations: leavingOperations,
		queryOperations:   queryOperations,
		occupancyGauge:    occupancyGauge,
		operationDuration: operationDuration,
		totalSlotsGauge:   totalSlotsGauge,
	}, nil
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.type", ErrorKind(err)))
}

func (ipl *InstrumentedParkingLot) Park(ctx context.Context, registrationNumber, color string) (Ticket, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.park",
		trace.WithAttributes(
			attribute.String("vehicle.registration_number", registrationNumber),
			attribute.String("vehicle.color", color),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_available_slot")

	ticket, err := ipl.ParkingLot.Park(registrationNumber, color)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "park"),
	}

	if err != nil {
		failSpan(span, err)
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("error.type", ErrorKind(err)),
		)
		logging.Warn(ctx, "park rejected",
			slog.String("registration_number", registrationNumber),
			slog.String("reason", ErrorKind(err)),
		)
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.Int("allocated_slot_number", ticket.SlotNumber))
		span.AddEvent("slot_allocated", trace.WithAttributes(
			attribute.Int("slot_number", ticket.SlotNumber),
		))
		ipl.occupancyGauge.Add(ctx, 1)
		logging.Info(ctx, "vehicle parked",
			slog.Int("slot_number", ticket.SlotNumber),
			slog.String("registration_number", ticket.RegistrationNumber),
			slog.String("color", ticket.Color),
		)
	}

	ipl.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return ticket, err
}

func (ipl *InstrumentedParkingLot) Leave(ctx context.Context, slotNumber int) (FreedSlot, error) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot.leave",
		trace.WithAttributes(
			attribute.Int("slot_number", slotNumber),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("releasing_slot")

	freed, err := ipl.ParkingLot.Leave(slotNumber)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "leave"),
	}

	if err != nil {
		failSpan(span, err)
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("error.type", ErrorKind(err)),
		)
		logging.Warn(ctx, "leave rejected",
			slog.Int("slot_number", slotNumber),
			slog.String("reason", ErrorKind(err)),
		)
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(
			attribute.String("vehicle.registration_number", freed.Vehicle.RegistrationNumber),
			attribute.String("vehicle.color", freed.Vehicle.Color),
		)
		span.AddEvent("slot_released")
		ipl.occupancyGauge.Add(ctx, -1)
		logging.Info(ctx, "slot released",
			slog.Int("slot_number", freed.SlotNumber),
			slog.String("registration_number", freed.Vehicle.RegistrationNumber),
		)
	}

	ipl.leavingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return freed, err
}

// query wraps a read-only lookup in a span and records it under operation.
func (ipl *InstrumentedParkingLot) query(ctx context.Context, operation string, attrs []attribute.KeyValue, fn func(trace.Span) bool) {
	ctx, span := ipl.tracer.Start(ctx, "parking_lot."+operation, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	found := fn(span)
	duration := time.Since(start).Seconds()

	status := "found"
	if !found {
		status = "not_found"
		span.AddEvent("no_match")
	}

	labels := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("status", status),
	}
	ipl.queryOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))
}

func (ipl *InstrumentedParkingLot) RegistrationsByColor(ctx context.Context, color string) []string {
	var registrations []string
	ipl.query(ctx, "registrations_by_color",
		[]attribute.KeyValue{attribute.String("vehicle.color", color)},
		func(span trace.Span) bool {
			registrations = ipl.ParkingLot.RegistrationsByColor(color)
			span.SetAttributes(attribute.Int("match_count", len(registrations)))
			return len(registrations) > 0
		})
	return registrations
}

func (ipl *InstrumentedParkingLot) SlotNumbersByColor(ctx context.Context, color string) []int {
	var slotNumbers []int
	ipl.query(ctx, "slot_numbers_by_color",
		[]attribute.KeyValue{attribute.String("vehicle.color", color)},
		func(span trace.Span) bool {
			slotNumbers = ipl.ParkingLot.SlotNumbersByColor(color)
			span.SetAttributes(attribute.Int("match_count", len(slotNumbers)))
			return len(slotNumbers) > 0
		})
	return slotNumbers
}

func (ipl *InstrumentedParkingLot) SlotByRegistration(ctx context.Context, registrationNumber string) (int, bool) {
	var (
		slotNumber int
		ok         bool
	)
	ipl.query(ctx, "get_slot_by_registration",
		[]attribute.KeyValue{attribute.String("vehicle.registration_number", registrationNumber)},
		func(span trace.Span) bool {
			slotNumber, ok = ipl.ParkingLot.SlotByRegistration(registrationNumber)
			if ok {
				span.SetAttributes(attribute.Int("found_slot_number", slotNumber))
			}
			return ok
		})
	return slotNumber, ok
}

func (ipl *InstrumentedParkingLot) FindVehicle(ctx context.Context, registrationNumber string) (OccupiedSlot, bool) {
	var (
		slot OccupiedSlot
		ok   bool
	)
	ipl.query(ctx, "find_vehicle",
		[]attribute.KeyValue{attribute.String("vehicle.registration_number", registrationNumber)},
		func(span trace.Span) bool {
			slot, ok = ipl.ParkingLot.FindVehicle(registrationNumber)
			if ok {
				span.SetAttributes(attribute.Int("found_slot_number", slot.SlotNumber))
			}
			return ok
		})
	return slot, ok
}

// Status records a single snapshot under one span; ranging over the returned
// sequence again replays that snapshot.
func (ipl *InstrumentedParkingLot) Status(ctx context.Context) iter.Seq[OccupiedSlot] {
	var snapshot []OccupiedSlot
	ipl.query(ctx, "get_status", nil, func(span trace.Span) bool {
		snapshot = ipl.ParkingLot.Snapshot()
		span.SetAttributes(
			attribute.Int("occupied_slots_count", len(snapshot)),
			attribute.Int("total_capacity", ipl.Capacity()),
		)
		return true
	})
	return func(yield func(OccupiedSlot) bool) {
		for _, slot := range snapshot {
			if !yield(slot) {
				return
			}
		}
	}
}
