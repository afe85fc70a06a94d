package parking

const defaultFloor = 1

type Slot struct {
	Number     int
	Floor      int
	IsOccupied bool
	Vehicle    *Vehicle
}

func NewSlot(number int) *Slot {
	return &Slot{
		Number: number,
		Floor:  defaultFloor,
	}
}

func (s *Slot) Park(vehicle *Vehicle) {
	s.Vehicle = vehicle
	s.IsOccupied = true
}

func (s *Slot) Leave() *Vehicle {
	vehicle := s.Vehicle
	s.Vehicle = nil
	s.IsOccupied = false
	return vehicle
}

// availableSlots is a min-heap of free slot numbers. The root is always the
// nearest free slot.
type availableSlots []int

func (h availableSlots) Len() int           { return len(h) }
func (h availableSlots) Less(i, j int) bool { return h[i] < h[j] }
func (h availableSlots) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *availableSlots) Push(x any) {
	*h = append(*h, x.(int))
}

func (h *availableSlots) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
