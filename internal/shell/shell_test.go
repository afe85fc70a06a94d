package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/base-14/examples/go/parking-allocator/internal/session"
	"github.com/base-14/examples/go/parking-allocator/internal/telemetry"
)

func run(t *testing.T, s *session.Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	sh := New(s, strings.NewReader(input), &out, tracenoop.NewTracerProvider().Tracer("test"))
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func newSession() *session.Session {
	return session.New(&telemetry.Provider{
		Tracer: tracenoop.NewTracerProvider().Tracer("test"),
		Meter:  noop.NewMeterProvider().Meter("test"),
	}, nil)
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestShellFullScenario(t *testing.T) {
	input := lines(
		"create_parking_lot 6",
		"park KA-01-HH-1234 White",
		"park KA-01-HH-9999 White",
		"park KA-01-BB-0001 Black",
		"park KA-01-HH-7777 Red",
		"park KA-01-HH-2701 Blue",
		"park KA-01-HH-3141 Black",
		"leave 4",
		"status",
		"park KA-01-P-333 White",
		"park DL-12-AA-9999 White",
		"registration_numbers_for_cars_with_colour White",
		"slot_numbers_for_cars_with_colour white",
		"slot_number_for_registration_number KA-01-HH-3141",
		"slot_number_for_registration_number MH-04-AY-1111",
	)

	want := lines(
		"Created a parking lot with 6 slots",
		"Allocated slot number: 1",
		"Allocated slot number: 2",
		"Allocated slot number: 3",
		"Allocated slot number: 4",
		"Allocated slot number: 5",
		"Allocated slot number: 6",
		"Slot number 4 is free",
		"Slot No.    Registration No    Colour",
		"1           KA-01-HH-1234      White",
		"2           KA-01-HH-9999      White",
		"3           KA-01-BB-0001      Black",
		"5           KA-01-HH-2701      Blue",
		"6           KA-01-HH-3141      Black",
		"Allocated slot number: 4",
		"Sorry, parking lot is full",
		"KA-01-HH-1234, KA-01-HH-9999, KA-01-P-333",
		"1, 2, 4",
		"6",
		"Not found",
	)

	assert.Equal(t, want, run(t, newSession(), input))
}

func TestShellRequiresLot(t *testing.T) {
	out := run(t, newSession(), lines(
		"park KA-01-HH-1234 White",
		"leave 1",
		"status",
		"slot_number_for_registration_number KA-01-HH-1234",
	))

	assert.Equal(t, strings.Repeat(msgNotCreated+"\n", 4), out)
}

func TestShellRejectsSecondCreate(t *testing.T) {
	out := run(t, newSession(), lines(
		"create_parking_lot 2",
		"create_parking_lot 5",
		"park KA-01-HH-1234 White",
		"park KA-01-HH-9999 White",
		"park KA-01-HH-7777 White",
	))

	assert.Equal(t, lines(
		"Created a parking lot with 2 slots",
		msgAlreadyExists,
		"Allocated slot number: 1",
		"Allocated slot number: 2",
		msgLotFull,
	), out)
}

func TestShellFailures(t *testing.T) {
	out := run(t, newSession(), lines(
		"create_parking_lot 0",
		"create_parking_lot abc",
		"create_parking_lot 3",
		"park KA-01-HH-1234 White",
		"park ka-01-hh-1234 Black",
		"leave 2",
		"leave 10",
		"leave two",
		"park KA-01-HH-1234",
		"fly away",
		"status",
	))

	assert.Equal(t, lines(
		"Invalid capacity",
		"Invalid capacity",
		"Created a parking lot with 3 slots",
		"Allocated slot number: 1",
		msgDuplicate,
		"Slot number 2 is not occupied yet",
		"Slot number 10 not found",
		"slotNumber must be an integer",
		"Usage: park <registration_number> <color>",
		"Unknown command: fly",
		"Slot No.    Registration No    Colour",
		"1           KA-01-HH-1234      White",
	), out)
}

func TestShellEmptyStatusAndQueries(t *testing.T) {
	out := run(t, newSession(), lines(
		"create_parking_lot 2",
		"status",
		"registration_numbers_for_cars_with_colour White",
		"slot_numbers_for_cars_with_colour White",
	))

	assert.Equal(t, lines(
		"Created a parking lot with 2 slots",
		"Parking lot is empty",
		msgNotFound,
		msgNotFound,
	), out)
}

func TestShellExitStopsProcessing(t *testing.T) {
	out := run(t, newSession(), lines(
		"create_parking_lot 1",
		"exit",
		"park KA-01-HH-1234 White",
	))

	assert.Equal(t, lines("Created a parking lot with 1 slots"), out)
}

func TestShellHelp(t *testing.T) {
	out := run(t, newSession(), "help\n")

	for _, c := range commands {
		assert.Contains(t, out, c.usage)
	}
}

func TestShellSharesSession(t *testing.T) {
	s := newSession()
	run(t, s, lines("create_parking_lot 2", "park KA-01-HH-1234 White"))

	lot, err := s.Lot()
	require.NoError(t, err)
	slot, ok := lot.SlotByRegistration(context.Background(), "KA-01-HH-1234")
	assert.True(t, ok)
	assert.Equal(t, 1, slot)
}

func TestShellStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	sh := New(newSession(), strings.NewReader("create_parking_lot 1\n"), &out, tracenoop.NewTracerProvider().Tracer("test"))

	assert.ErrorIs(t, sh.Run(ctx), context.Canceled)
	assert.Empty(t, out.String())
}
