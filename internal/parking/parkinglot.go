package parking

import (
	"container/heap"
	"fmt"
	"iter"
	"sync"
)

// Ticket confirms a successful Park. The lot does not keep it.
type Ticket struct {
	SlotNumber         int
	RegistrationNumber string
	Color              string
}

// FreedSlot describes the slot released by Leave and the vehicle that left it.
type FreedSlot struct {
	SlotNumber int
	Floor      int
	Vehicle    Vehicle
}

type OccupiedSlot struct {
	SlotNumber         int
	RegistrationNumber string
	Color              string
}

// ParkingLot allocates the nearest free slot to arriving vehicles. Every slot
// number in 1..capacity is either in available or in occupied, never both.
type ParkingLot struct {
	mu        sync.RWMutex
	capacity  int
	slots     []*Slot
	available availableSlots
	occupied  map[int]*Slot
	// registration key -> slot number
	byRegistration map[string]int
}

func NewParkingLot(capacity int) (*ParkingLot, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d, must be greater than 0", ErrInvalidCapacity, capacity)
	}

	slots := make([]*Slot, capacity)
	available := make(availableSlots, capacity)
	for i := 0; i < capacity; i++ {
		slots[i] = NewSlot(i + 1)
		available[i] = i + 1
	}
	heap.Init(&available)

	return &ParkingLot{
		capacity:       capacity,
		slots:          slots,
		available:      available,
		occupied:       make(map[int]*Slot, capacity),
		byRegistration: make(map[string]int, capacity),
	}, nil
}

func (pl *ParkingLot) Capacity() int {
	return pl.capacity
}

func (pl *ParkingLot) AvailableCount() int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return pl.available.Len()
}

func (pl *ParkingLot) OccupiedCount() int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return len(pl.occupied)
}

// Counts reads occupied and available under one lock, so the two always sum
// to the capacity.
func (pl *ParkingLot) Counts() (occupied, available int) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return len(pl.occupied), pl.available.Len()
}

func (pl *ParkingLot) Park(registrationNumber, color string) (Ticket, error) {
	vehicle, err := NewVehicle(registrationNumber, color)
	if err != nil {
		return Ticket{}, err
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()

	if pl.available.Len() == 0 {
		return Ticket{}, ErrLotFull
	}

	if slotNumber, ok := pl.byRegistration[vehicle.registrationKey()]; ok {
		return Ticket{}, fmt.Errorf("%w: %s is in slot %d", ErrDuplicateVehicle, vehicle.RegistrationNumber, slotNumber)
	}

	slot := pl.slots[heap.Pop(&pl.available).(int)-1]
	slot.Park(vehicle)
	pl.occupied[slot.Number] = slot
	pl.byRegistration[vehicle.registrationKey()] = slot.Number

	return Ticket{
		SlotNumber:         slot.Number,
		RegistrationNumber: vehicle.RegistrationNumber,
		Color:              vehicle.Color,
	}, nil
}

func (pl *ParkingLot) Leave(slotNumber int) (FreedSlot, error) {
	if slotNumber < 1 || slotNumber > pl.capacity {
		return FreedSlot{}, fmt.Errorf("%w: %d, lot has %d slots", ErrSlotOutOfRange, slotNumber, pl.capacity)
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()

	slot, ok := pl.occupied[slotNumber]
	if !ok {
		return FreedSlot{}, fmt.Errorf("%w: %d", ErrSlotNotOccupied, slotNumber)
	}

	vehicle := slot.Leave()
	delete(pl.occupied, slotNumber)
	delete(pl.byRegistration, vehicle.registrationKey())
	heap.Push(&pl.available, slotNumber)

	return FreedSlot{
		SlotNumber: slot.Number,
		Floor:      slot.Floor,
		Vehicle:    *vehicle,
	}, nil
}

func (pl *ParkingLot) RegistrationsByColor(color string) []string {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	registrations := []string{}
	for _, slot := range pl.occupiedInOrder() {
		if slot.Vehicle.colorKey() == key(color) {
			registrations = append(registrations, slot.Vehicle.RegistrationNumber)
		}
	}
	return registrations
}

func (pl *ParkingLot) SlotNumbersByColor(color string) []int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	slotNumbers := []int{}
	for _, slot := range pl.occupiedInOrder() {
		if slot.Vehicle.colorKey() == key(color) {
			slotNumbers = append(slotNumbers, slot.Number)
		}
	}
	return slotNumbers
}

// SlotByRegistration reports the slot holding registrationNumber, if any.
func (pl *ParkingLot) SlotByRegistration(registrationNumber string) (int, bool) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	slotNumber, ok := pl.byRegistration[key(registrationNumber)]
	return slotNumber, ok
}

// FindVehicle returns the occupied slot holding registrationNumber, read
// under a single lock.
func (pl *ParkingLot) FindVehicle(registrationNumber string) (OccupiedSlot, bool) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	slotNumber, ok := pl.byRegistration[key(registrationNumber)]
	if !ok {
		return OccupiedSlot{}, false
	}
	slot := pl.occupied[slotNumber]
	return OccupiedSlot{
		SlotNumber:         slot.Number,
		RegistrationNumber: slot.Vehicle.RegistrationNumber,
		Color:              slot.Vehicle.Color,
	}, true
}

// Snapshot copies the occupied slots in slot number order.
func (pl *ParkingLot) Snapshot() []OccupiedSlot {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	snapshot := make([]OccupiedSlot, 0, len(pl.occupied))
	for _, slot := range pl.occupiedInOrder() {
		snapshot = append(snapshot, OccupiedSlot{
			SlotNumber:         slot.Number,
			RegistrationNumber: slot.Vehicle.RegistrationNumber,
			Color:              slot.Vehicle.Color,
		})
	}
	return snapshot
}

// Status yields the occupied slots as of the start of each iteration. The
// sequence can be ranged over any number of times.
func (pl *ParkingLot) Status() iter.Seq[OccupiedSlot] {
	return func(yield func(OccupiedSlot) bool) {
		for _, slot := range pl.Snapshot() {
			if !yield(slot) {
				return
			}
		}
	}
}

// occupiedInOrder must be called with mu held.
func (pl *ParkingLot) occupiedInOrder() []*Slot {
	occupied := make([]*Slot, 0, len(pl.occupied))
	for _, slot := range pl.slots {
		if slot.IsOccupied {
			occupied = append(occupied, slot)
		}
	}
	return occupied
}
