package calendar

import "fieldfuze-scheduler/models"

// Palette is the fixed set of technician colors. Roster positions wrap modulo
// its length, so technicians 16 apart share a color.
var Palette = [...]string{
	"#3B82F6", // blue
	"#10B981", // emerald
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#14B8A6", // teal
	"#F97316", // orange
	"#6366F1", // indigo
	"#84CC16", // lime
	"#06B6D4", // cyan
	"#D946EF", // fuchsia
	"#0EA5E9", // sky
	"#A855F7", // purple
	"#22C55E", // green
	"#64748B", // slate
}

// UnassignedTechnician returns the synthetic roster entry for appointments
// without a technician.
func UnassignedTechnician() models.Technician {
	return models.Technician{ID: nil, Name: models.UnassignedTechnicianName}
}

// AssignColors appends the Unassigned entry to the roster and colors every
// entry by its position. The input slice is not modified.
func AssignColors(technicians []models.Technician) []models.Technician {
	colored := make([]models.Technician, 0, len(technicians)+1)
	colored = append(colored, technicians...)
	colored = append(colored, UnassignedTechnician())

	for i := range colored {
		colored[i].Color = Palette[i%len(Palette)]
	}
	return colored
}

// colorMap indexes an AssignColors result by technician id. The first entry
// for a duplicated id wins.
type colorMap struct {
	byID       map[int64]string
	unassigned string
}

func newColorMap(technicians []models.Technician) colorMap {
	colored := AssignColors(technicians)
	cm := colorMap{
		byID:       make(map[int64]string, len(colored)),
		unassigned: colored[len(colored)-1].Color,
	}
	for _, t := range colored {
		if t.ID == nil {
			continue
		}
		if _, ok := cm.byID[*t.ID]; !ok {
			cm.byID[*t.ID] = t.Color
		}
	}
	return cm
}

func (cm colorMap) lookup(id *int64) string {
	if id == nil {
		return cm.unassigned
	}
	if color, ok := cm.byID[*id]; ok {
		return color
	}
	return cm.unassigned
}
