package get_availability

import (
	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// generateDaySlots строит слоты рабочего дня с фиксированным шагом
// и отмечает занятые с учётом буферных зон после существующих обязательств
//
// Слот длительностью durationMinutes должен целиком помещаться в рабочие часы:
// последний слот дня начинается не позже end - durationMinutes
//
// Буфер продлевает СУЩЕСТВУЮЩЕЕ обязательство после его окончания,
// поэтому отсекается слот сразу после обязательства, но не слот,
// заканчивающийся ровно к его началу
func generateDaySlots(
	schedule domain.DaySchedule,
	commitments []domain.Commitment,
	durationMinutes int,
	bufferMinutes int,
) []Slot {
	if !schedule.Available {
		return []Slot{}
	}

	startMin := schedule.Start.Minutes()
	endMin := schedule.End.Minutes()

	slots := make([]Slot, 0)

	for slotStart := startMin; slotStart+durationMinutes <= endMin; slotStart += domain.SlotStrideMinutes {
		free := !domain.HasBufferedConflict(slotStart, durationMinutes, commitments, bufferMinutes)

		slots = append(slots, Slot{
			StartTime: timeslot.FromMinutes(slotStart),
			Available: free,
		})
	}

	return slots
}

// hasFreeSlot проверяет, что в дне есть хотя бы один свободный слот
func hasFreeSlot(slots []Slot) bool {
	for _, s := range slots {
		if s.Available {
			return true
		}
	}
	return false
}
