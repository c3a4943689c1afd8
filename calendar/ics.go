package calendar

import (
	"fieldfuze-scheduler/models"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ProductID identifies the exported feed.
const ProductID = "-//FieldFuze//Scheduler//EN"

// BuildICS renders events as a PUBLISH iCalendar document. Occurrences of a
// recurring appointment get distinct UIDs derived from their start.
func BuildICS(events []models.Event, generatedAt time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for _, ev := range events {
		uid := fmt.Sprintf("appointment-%d-%d@fieldfuze", ev.Resource.AppointmentID, ev.Start.Unix())

		vevent := cal.AddEvent(uid)
		vevent.SetDtStampTime(generatedAt)
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		vevent.SetSummary(ev.Title)
		if names := technicianNames(ev.Resource.Technicians); names != "" {
			vevent.SetDescription("Technicians: " + names)
		}
		vevent.SetProperty(ics.ComponentPropertyStatus, icsStatus(ev.Resource.Status))
		vevent.SetProperty(ics.ComponentProperty("COLOR"), ev.Resource.Color)
		vevent.SetProperty(ics.ComponentProperty("X-FIELDFUZE-JOB-ID"), strconv.FormatInt(ev.Resource.JobID, 10))
		vevent.SetProperty(ics.ComponentProperty("X-FIELDFUZE-STATUS"), string(ev.Resource.Status))
	}

	return cal.Serialize()
}

func icsStatus(status models.AppointmentStatus) string {
	switch status {
	case models.AppointmentStatusCancelled:
		return "CANCELLED"
	case models.AppointmentStatusOnHold:
		return "TENTATIVE"
	default:
		return "CONFIRMED"
	}
}

func technicianNames(technicians []models.Technician) string {
	names := make([]string, 0, len(technicians))
	for _, t := range technicians {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return strings.Join(names, ", ")
}
