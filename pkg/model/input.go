package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type ClassType string

const (
	Lecture   ClassType = "lecture"
	Tutorial  ClassType = "tutorial"
	Practical ClassType = "practical"
)

// ClassTypes lists every class type in enumeration order. Sessions are always generated in this order.
var ClassTypes = []ClassType{Lecture, Tutorial, Practical}

type SlotType string

const (
	ClassSlot   SlotType = "Class"
	BreakSlot   SlotType = "Break"
	LunchSlot   SlotType = "Lunch"
	HolidaySlot SlotType = "Holiday"
)

type Course struct {
	Code      string               `validate:"required"`
	Faculty   string               `validate:"required"`
	Group     string               `validate:"required"`
	Students  int                  `validate:"gte=1"`
	Sessions  map[ClassType]int    `validate:"required,dive,keys,oneof=lecture tutorial practical,endkeys,gte=0"`
	RoomTypes map[ClassType]string `validate:"dive,keys,oneof=lecture tutorial practical,endkeys"`
}

// TotalSessions returns the number of sessions the course requires per week across all class types
func (course Course) TotalSessions() int {
	return lo.Sum(lo.Values(course.Sessions))
}

type Faculty struct {
	Id      string `validate:"required"`
	Name    string
	Courses []string `validate:"dive,required"` // Empty means the faculty may teach every course it is assigned to
}

type Room struct {
	Id       string `validate:"required"`
	Type     string `validate:"required"`
	Capacity int    `validate:"gte=1"`
}

type Slot struct {
	Id    string   `validate:"required"`
	Day   string   `validate:"required"`
	Index int      `validate:"gte=0"`
	Start string   `validate:"required,datetime=15:04"`
	End   string   `validate:"required,datetime=15:04"`
	Type  SlotType `validate:"oneof=Class Break Lunch Holiday"`
}

type RawModelInput struct {
	Courses []Course
	Faculty []Faculty
	Rooms   []Room
	Slots   []Slot
}

type ModelInput struct {
	Courses []Course
	Faculty []Faculty
	Rooms   []Room
	Slots   []Slot

	CourseFaculty []int            // Course index -> assigned faculty index
	FacultyIndex  map[string]int   // Faculty id -> faculty index
	RoomIndex     map[string]int   // Room id -> room index
	SlotIndex     map[string]int   // Slot id -> slot index
	RoomsByType   map[string][]int // Room type -> indices of the rooms of that type
	Groups        []string         // Distinct student groups in order of first appearance
	GroupIndex    map[string]int   // Student group -> group index
	Days          []string         // Distinct days in order of first appearance in the slot table
	HolidayDays   map[string]bool  // Days containing a holiday slot, none of whose slots can be assigned
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %w", err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var rawInput RawModelInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return ProcessRawInput(rawInput)
}

// ProcessRawInput validates the raw tables and derives the lookups the engine relies on. Every offending record is
// reported through a single *ValidationError.
func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	if err := validateRawInput(rawInput); err != nil {
		return ModelInput{}, err
	}

	input := ModelInput{
		Courses:      rawInput.Courses,
		Faculty:      rawInput.Faculty,
		Rooms:        rawInput.Rooms,
		Slots:        rawInput.Slots,
		FacultyIndex: make(map[string]int, len(rawInput.Faculty)),
		RoomIndex:    make(map[string]int, len(rawInput.Rooms)),
		SlotIndex:    make(map[string]int, len(rawInput.Slots)),
		RoomsByType:  make(map[string][]int),
		GroupIndex:   make(map[string]int),
		HolidayDays:  make(map[string]bool),
	}

	for i, faculty := range input.Faculty {
		input.FacultyIndex[faculty.Id] = i
	}
	for i, room := range input.Rooms {
		input.RoomIndex[room.Id] = i
		input.RoomsByType[room.Type] = append(input.RoomsByType[room.Type], i)
	}
	for i, slot := range input.Slots {
		input.SlotIndex[slot.Id] = i
		if !slices.Contains(input.Days, slot.Day) {
			input.Days = append(input.Days, slot.Day)
		}
		if slot.Type == HolidaySlot {
			input.HolidayDays[slot.Day] = true
		}
	}

	input.CourseFaculty = make([]int, len(input.Courses))
	for i, course := range input.Courses {
		input.CourseFaculty[i] = input.FacultyIndex[course.Faculty]
		if _, ok := input.GroupIndex[course.Group]; !ok {
			input.GroupIndex[course.Group] = len(input.Groups)
			input.Groups = append(input.Groups, course.Group)
		}
	}

	return input, nil
}

// CanTeach checks whether the faculty may teach the course. Faculty without an explicit course list may teach exactly
// the courses assigned to them
func (input ModelInput) CanTeach(faculty, course int) bool {
	courses := input.Faculty[faculty].Courses
	code := input.Courses[course].Code
	if len(courses) == 0 {
		return input.CourseFaculty[course] == faculty
	}
	return lo.SomeBy(courses, func(candidate string) bool {
		return strings.EqualFold(strings.TrimSpace(candidate), code)
	})
}

// Qualified checks whether the course's assigned faculty can teach it
func (input ModelInput) Qualified(course int) bool {
	return input.CanTeach(input.CourseFaculty[course], course)
}

// Assignable checks whether a session may be placed on the slot: it must be Class-typed and its day must not be a holiday
func (input ModelInput) Assignable(slot int) bool {
	return input.Slots[slot].Type == ClassSlot && !input.HolidayDays[input.Slots[slot].Day]
}

// FacultyName returns the faculty's display name, falling back to its id
func (input ModelInput) FacultyName(faculty int) string {
	if name := input.Faculty[faculty].Name; name != "" {
		return name
	}
	return input.Faculty[faculty].Id
}
