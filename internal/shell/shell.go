package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/base-14/examples/go/parking-allocator/internal/parking"
	"github.com/base-14/examples/go/parking-allocator/internal/session"
)

const (
	msgNotFound      = "Not found"
	msgLotFull       = "Sorry, parking lot is full"
	msgDuplicate     = "Sorry, vehicle is already parked"
	msgNotCreated    = "Parking lot not created"
	msgAlreadyExists = "Parking lot already created"
)

type command struct {
	name  string
	usage string
	args  int
}

var commands = []command{
	{"create_parking_lot", "create_parking_lot <capacity>", 1},
	{"park", "park <registration_number> <color>", 2},
	{"leave", "leave <slot_number>", 1},
	{"status", "status", 0},
	{"registration_numbers_for_cars_with_colour", "registration_numbers_for_cars_with_colour <color>", 1},
	{"slot_numbers_for_cars_with_colour", "slot_numbers_for_cars_with_colour <color>", 1},
	{"slot_number_for_registration_number", "slot_number_for_registration_number <registration_number>", 1},
	{"help", "help", 0},
	{"exit", "exit", 0},
}

// Shell reads one command per line and writes plain-text results. It never
// touches lot state except through the session's lot.
type Shell struct {
	session *session.Session
	scanner *bufio.Scanner
	out     io.Writer
	tracer  trace.Tracer
}

func New(s *session.Session, in io.Reader, out io.Writer, tracer trace.Tracer) *Shell {
	return &Shell{
		session: s,
		scanner: bufio.NewScanner(in),
		out:     out,
		tracer:  tracer,
	}
}

// Run processes input until EOF, an exit command, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")
	defer span.AddEvent("shell_ended")

	for s.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := s.tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))
		exit := s.processCommand(cmdCtx, input)
		cmdSpan.End()

		if exit {
			return nil
		}
	}
	return s.scanner.Err()
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (s *Shell) processCommand(ctx context.Context, input string) bool {
	span := trace.SpanFromContext(ctx)

	parts := strings.Fields(input)
	cmd, ok := lookup(parts[0])
	if !ok {
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", parts[0]),
		))
		s.printf("Unknown command: %s\n", parts[0])
		return false
	}
	span.SetAttributes(attribute.String("command.name", cmd.name))

	args := parts[1:]
	if len(args) != cmd.args {
		span.AddEvent("invalid_arguments")
		s.printf("Usage: %s\n", cmd.usage)
		return false
	}

	switch cmd.name {
	case "create_parking_lot":
		s.handleCreateParkingLot(ctx, args[0])
	case "park":
		s.handlePark(ctx, args[0], args[1])
	case "leave":
		s.handleLeave(ctx, args[0])
	case "status":
		s.handleStatus(ctx)
	case "registration_numbers_for_cars_with_colour":
		s.handleRegistrationNumbersForColour(ctx, args[0])
	case "slot_numbers_for_cars_with_colour":
		s.handleSlotNumbersForColour(ctx, args[0])
	case "slot_number_for_registration_number":
		s.handleSlotNumberForRegistrationNumber(ctx, args[0])
	case "help":
		s.handleHelp()
	case "exit":
		return true
	}
	return false
}

// lot returns the session's lot, printing the not-created message when there
// is none.
func (s *Shell) lot(ctx context.Context) (*parking.InstrumentedParkingLot, bool) {
	lot, err := s.session.Lot()
	if err != nil {
		trace.SpanFromContext(ctx).AddEvent("parking_lot_not_created")
		s.println(msgNotCreated)
		return nil, false
	}
	return lot, true
}

func (s *Shell) handleCreateParkingLot(ctx context.Context, arg string) {
	ctx, span := s.tracer.Start(ctx, "shell.create_parking_lot")
	defer span.End()

	capacity, err := strconv.Atoi(arg)
	if err != nil {
		span.RecordError(fmt.Errorf("invalid capacity: %s", arg))
		s.println("Invalid capacity")
		return
	}
	span.SetAttributes(attribute.Int("parking_lot.capacity", capacity))

	lot, err := s.session.Create(ctx, capacity)
	switch {
	case errors.Is(err, session.ErrAlreadyCreated):
		span.AddEvent("parking_lot_already_created")
		s.println(msgAlreadyExists)
	case errors.Is(err, parking.ErrInvalidCapacity):
		span.RecordError(err)
		s.println("Invalid capacity")
	case err != nil:
		span.RecordError(err)
		s.printf("Error creating parking lot: %s\n", err)
	default:
		span.AddEvent("parking_lot_created")
		s.printf("Created a parking lot with %d slots\n", lot.Capacity())
	}
}

func (s *Shell) handlePark(ctx context.Context, registrationNumber, color string) {
	ctx, span := s.tracer.Start(ctx, "shell.park_command")
	defer span.End()

	lot, ok := s.lot(ctx)
	if !ok {
		return
	}

	ticket, err := lot.Park(ctx, registrationNumber, color)
	switch {
	case errors.Is(err, parking.ErrLotFull):
		span.AddEvent("parking_failed")
		s.println(msgLotFull)
	case errors.Is(err, parking.ErrDuplicateVehicle):
		span.AddEvent("parking_failed")
		s.println(msgDuplicate)
	case err != nil:
		span.AddEvent("parking_failed")
		s.printf("Error: %s\n", err)
	default:
		span.AddEvent("parking_successful", trace.WithAttributes(
			attribute.Int("allocated_slot", ticket.SlotNumber),
		))
		s.printf("Allocated slot number: %d\n", ticket.SlotNumber)
	}
}

func (s *Shell) handleLeave(ctx context.Context, arg string) {
	ctx, span := s.tracer.Start(ctx, "shell.leave_command")
	defer span.End()

	lot, ok := s.lot(ctx)
	if !ok {
		return
	}

	slotNumber, err := strconv.Atoi(arg)
	if err != nil {
		span.RecordError(fmt.Errorf("invalid slot number: %s", arg))
		s.println("slotNumber must be an integer")
		return
	}

	freed, err := lot.Leave(ctx, slotNumber)
	switch {
	case errors.Is(err, parking.ErrSlotOutOfRange):
		span.AddEvent("leave_failed")
		s.printf("Slot number %d not found\n", slotNumber)
	case errors.Is(err, parking.ErrSlotNotOccupied):
		span.AddEvent("leave_failed")
		s.printf("Slot number %d is not occupied yet\n", slotNumber)
	case err != nil:
		span.AddEvent("leave_failed")
		s.printf("Error: %s\n", err)
	default:
		span.AddEvent("leave_successful")
		s.printf("Slot number %d is free\n", freed.SlotNumber)
	}
}

func (s *Shell) handleStatus(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "shell.status_command")
	defer span.End()

	lot, ok := s.lot(ctx)
	if !ok {
		return
	}

	w := newStatusWriter(s.out)
	for slot := range lot.Status(ctx) {
		w.row(slot)
	}
	w.flush()
}

func (s *Shell) handleRegistrationNumbersForColour(ctx context.Context, color string) {
	ctx, span := s.tracer.Start(ctx, "shell.registrations_by_color")
	defer span.End()

	lot, ok := s.lot(ctx)
	if !ok {
		return
	}

	registrations := lot.RegistrationsByColor(ctx, color)
	if len(registrations) == 0 {
		s.println(msgNotFound)
		return
	}
	s.println(strings.Join(registrations, ", "))
}

func (s *Shell) handleSlotNumbersForColour(ctx context.Context, color string) {
	ctx, span := s.tracer.Start(ctx, "shell.slot_numbers_by_color")
	defer span.End()

	lot, ok := s.lot(ctx)
	if !ok {
		return
	}

	slotNumbers := lot.SlotNumbersByColor(ctx, color)
	if len(slotNumbers) == 0 {
		s.println(msgNotFound)
		return
	}

	formatted := make([]string, len(slotNumbers))
	for i, n := range slotNumbers {
		formatted[i] = strconv.Itoa(n)
	}
	s.println(strings.Join(formatted, ", "))
}

func (s *Shell) handleSlotNumberForRegistrationNumber(ctx context.Context, registrationNumber string) {
	ctx, span := s.tracer.Start(ctx, "shell.find_slot_by_registration")
	defer span.End()

	lot, ok := s.lot(ctx)
	if !ok {
		return
	}

	slotNumber, found := lot.SlotByRegistration(ctx, registrationNumber)
	if !found {
		span.AddEvent("vehicle_not_found")
		s.println(msgNotFound)
		return
	}
	s.println(slotNumber)
}

func (s *Shell) handleHelp() {
	for _, c := range commands {
		s.println(c.usage)
	}
}
