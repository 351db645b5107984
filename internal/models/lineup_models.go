package models

// SlotRequirement is one entry of an ordered slot requirement map.
type SlotRequirement struct {
	Slot  Position `json:"slot"`
	Count int      `json:"count"`
}

// SlotRequirements keeps insertion order; slots are filled in this order.
type SlotRequirements []SlotRequirement

func (s SlotRequirements) Count(slot Position) int {
	for _, r := range s {
		if r.Slot == slot {
			return r.Count
		}
	}
	return 0
}

func (s SlotRequirements) Starters() int {
	n := 0
	for _, r := range s {
		n += r.Count
	}
	return n
}

type SlotAssignment struct {
	Slot    Position `json:"slot"`
	Players []Player `json:"players"`
}

// Lineup maps each required slot to the players chosen for it, in
// requirement order.
type Lineup []SlotAssignment

func (l Lineup) Slot(slot Position) []Player {
	for _, a := range l {
		if a.Slot == slot {
			return a.Players
		}
	}
	return nil
}

func (l Lineup) Starters() []Player {
	var out []Player
	for _, a := range l {
		out = append(out, a.Players...)
	}
	return out
}

// Total sums the weekly projection of every starter.
func (l Lineup) Total() float64 {
	total := 0.0
	for _, p := range l.Starters() {
		total += p.Projected
	}
	return total
}

func (l Lineup) TotalROS() float64 {
	total := 0.0
	for _, p := range l.Starters() {
		total += p.ROS
	}
	return total
}
