package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const timeLayout = "15:04"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Issue describes one offending field of one input record
type Issue struct {
	Record  string `json:"record"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (issue Issue) String() string {
	if issue.Field == "" {
		return fmt.Sprintf("%v: %v", issue.Record, issue.Message)
	}
	return fmt.Sprintf("%v.%v: %v", issue.Record, issue.Field, issue.Message)
}

// ValidationError aggregates every issue found in the input tables
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("input validation failed with %d issue(s): %v", len(err.Issues), strings.Join(
		lo.Map(err.Issues, func(issue Issue, _ int) string { return issue.String() }), "; ",
	))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(record, field, format string, args ...any) {
	collector.issues = append(collector.issues, Issue{Record: record, Field: field, Message: fmt.Sprintf(format, args...)})
}

// addStruct runs the struct-tag rules on a single record and records every failing field
func (collector *issueCollector) addStruct(record string, value any) {
	err := validate.Struct(value)
	if err == nil {
		return
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		collector.add(record, "", "%v", err)
		return
	}
	for _, fieldError := range fieldErrors {
		param := fieldError.Param()
		if param != "" {
			param = "=" + param
		}
		collector.add(record, fieldError.Field(), "failed rule %q (value: %v)", fieldError.Tag()+param, fieldError.Value())
	}
}

func recordName(kind string, position int, key string) string {
	if key == "" {
		return fmt.Sprintf("%v #%d", kind, position)
	}
	return fmt.Sprintf("%v %q", kind, key)
}

func validateRawInput(rawInput RawModelInput) error {
	collector := &issueCollector{}

	//** Table cardinality
	if len(rawInput.Courses) == 0 {
		collector.add("courses", "", "at least one course is required")
	}
	if len(rawInput.Rooms) == 0 {
		collector.add("rooms", "", "at least one room is required")
	}
	if len(rawInput.Slots) == 0 {
		collector.add("slots", "", "at least one slot is required")
	}

	//** Faculty
	facultyIds := make(map[string]bool)
	for i, faculty := range rawInput.Faculty {
		record := recordName("faculty", i, faculty.Id)
		collector.addStruct(record, faculty)
		if faculty.Id != "" && facultyIds[faculty.Id] {
			collector.add(record, "Id", "duplicate faculty id")
		}
		facultyIds[faculty.Id] = true
	}

	//** Rooms
	roomIds := make(map[string]bool)
	for i, room := range rawInput.Rooms {
		record := recordName("room", i, room.Id)
		collector.addStruct(record, room)
		if room.Id != "" && roomIds[room.Id] {
			collector.add(record, "Id", "duplicate room id")
		}
		roomIds[room.Id] = true
	}

	//** Courses
	courseCodes := make(map[string]bool)
	for i, course := range rawInput.Courses {
		record := recordName("course", i, course.Code)
		collector.addStruct(record, course)
		if course.Code != "" && courseCodes[course.Code] {
			collector.add(record, "Code", "duplicate course code")
		}
		courseCodes[course.Code] = true

		if course.Faculty != "" && !facultyIds[course.Faculty] {
			collector.add(record, "Faculty", "unknown faculty %q", course.Faculty)
		}
		if !lo.SomeBy(lo.Values(course.Sessions), func(count int) bool { return count > 0 }) {
			collector.add(record, "Sessions", "at least one class type must require a session")
		}
		for _, classType := range ClassTypes {
			if course.Sessions[classType] > 0 && strings.TrimSpace(course.RoomTypes[classType]) == "" {
				collector.add(record, "RoomTypes", "missing room type for %v sessions", classType)
			}
		}
	}

	//** Slots
	slotIds := make(map[string]bool)
	positions := make(map[[2]string]bool)
	slotsPerDay := make(map[string][]Slot)
	days := make([]string, 0)
	for i, slot := range rawInput.Slots {
		record := recordName("slot", i, slot.Id)
		collector.addStruct(record, slot)
		if slot.Id != "" && slotIds[slot.Id] {
			collector.add(record, "Id", "duplicate slot id")
		}
		slotIds[slot.Id] = true

		position := [2]string{slot.Day, fmt.Sprint(slot.Index)}
		if positions[position] {
			collector.add(record, "Index", "another slot already uses index %d on %v", slot.Index, slot.Day)
		}
		positions[position] = true

		if _, ok := slotsPerDay[slot.Day]; !ok {
			days = append(days, slot.Day)
		}
		slotsPerDay[slot.Day] = append(slotsPerDay[slot.Day], slot)
	}
	for _, day := range days {
		validateDay(collector, day, slotsPerDay[day])
	}

	if len(collector.issues) > 0 {
		return &ValidationError{Issues: collector.issues}
	}
	return nil
}

// validateDay checks that the day's slots have contiguous indices and are ordered in time
func validateDay(collector *issueCollector, day string, slots []Slot) {
	slots = slices.Clone(slots)
	slices.SortStableFunc(slots, func(a, b Slot) int { return a.Index - b.Index })

	var previousEnd time.Time
	hasPrevious := false
	for k, slot := range slots {
		record := recordName("slot", k, slot.Id)
		if k > 0 && slot.Index != slots[k-1].Index+1 && slot.Index != slots[k-1].Index {
			collector.add(record, "Index", "indices on %v are not contiguous: %d follows %d", day, slot.Index, slots[k-1].Index)
		}

		start, startErr := time.Parse(timeLayout, slot.Start)
		end, endErr := time.Parse(timeLayout, slot.End)
		if startErr != nil || endErr != nil {
			hasPrevious = false
			continue // Already reported by the datetime rule
		}
		if !start.Before(end) {
			collector.add(record, "End", "slot must end after it starts (%v-%v)", slot.Start, slot.End)
		}
		if hasPrevious && start.Before(previousEnd) {
			collector.add(record, "Start", "slot starts at %v before the previous slot on %v ends", slot.Start, day)
		}
		previousEnd, hasPrevious = end, true
	}
}
