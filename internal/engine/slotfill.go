package engine

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/listoapp/listo/internal/models"
	"github.com/listoapp/listo/internal/textsim"
)

// Required-field keys reported in PendingTask.MissingFields.
const (
	FieldDueDate = "dateToPerform"
	// FieldAssignedTo is modeled but the rule enforcing it is dormant:
	// extraction frequently omits the assignee and demanding one made the
	// assistant too chatty.
	FieldAssignedTo = "assignedTo"
)

// State is the slot-filling conversation state.
type State int

const (
	// StateIdle means no pending task is awaiting completion.
	StateIdle State = iota
	// StateAwaitingField means a partial task is parked until the user
	// supplies a missing required field.
	StateAwaitingField
)

func (s State) String() string {
	if s == StateAwaitingField {
		return "awaiting_field"
	}
	return "idle"
}

// maxDateResponseLength bounds how long a message can be and still count as
// a bare date answer; anything longer is treated as a fresh request.
const maxDateResponseLength = 50

// dateVocabulary is the fixed set of relative/absolute date and time
// indicator tokens, Spanish and English. Matched against normalized words.
var dateVocabulary = map[string]struct{}{
	"hoy": {}, "manana": {}, "pasado": {}, "tarde": {}, "noche": {},
	"mediodia": {}, "semana": {}, "proximo": {}, "proxima": {},
	"lunes": {}, "martes": {}, "miercoles": {}, "jueves": {}, "viernes": {},
	"sabado": {}, "domingo": {},
	"enero": {}, "febrero": {}, "marzo": {}, "abril": {}, "mayo": {},
	"junio": {}, "julio": {}, "agosto": {}, "septiembre": {}, "octubre": {},
	"noviembre": {}, "diciembre": {},
	"today": {}, "tomorrow": {}, "tonight": {}, "week": {}, "next": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
	"am": {}, "pm": {},
}

// datePatterns are the date-shaped forms recognized in a follow-up message.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),   // DD/MM/YYYY
	regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{2,4}\b`),   // DD-MM-YYYY
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),         // YYYY-MM-DD
	regexp.MustCompile(`(?i)\b\d{1,2}\s+de\s+[a-z]+\b`), // D de <month>
	regexp.MustCompile(`\b\d{1,2}:\d{2}\b`),             // HH:MM
}

// LooksLikeDateResponse reports whether a message reads as a bare answer to
// "when?": short, and either containing a date/time indicator word or
// matching a date-shaped pattern. Pattern matching runs on the normalized
// text so accents and stray punctuation don't hide a date.
func LooksLikeDateResponse(message string) bool {
	if utf8.RuneCountInString(message) >= maxDateResponseLength {
		return false
	}
	normalized := textsim.Normalize(message)
	if normalized == "" {
		return false
	}

	for _, word := range strings.Fields(normalized) {
		if _, ok := dateVocabulary[word]; ok {
			return true
		}
	}
	for _, re := range datePatterns {
		if re.MatchString(message) || re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// MissingRequiredFields returns the required fields absent from extracted
// task fields, in a stable order. Tasks and projects require a due date;
// habits have no required date. The assignedTo rule is intentionally
// dormant (see FieldAssignedTo).
func MissingRequiredFields(f models.TaskFields) []string {
	var missing []string
	switch {
	case f.ItemType.Equal(models.ItemTypeTask), f.ItemType.Equal(models.ItemTypeProject):
		if strings.TrimSpace(f.DueDate) == "" {
			missing = append(missing, FieldDueDate)
		}
	}
	return missing
}

// SlotFilling is the two-state conversation machine holding at most one
// pending task (single-slot conversational memory, not a queue).
type SlotFilling struct {
	pending *models.PendingTask
}

// NewSlotFilling returns a controller in the Idle state.
func NewSlotFilling() *SlotFilling {
	return &SlotFilling{}
}

// State returns the current conversation state.
func (s *SlotFilling) State() State {
	if s.pending != nil {
		return StateAwaitingField
	}
	return StateIdle
}

// Pending returns the parked task, or nil when idle.
func (s *SlotFilling) Pending() *models.PendingTask {
	return s.pending
}

// Park stores a partial task awaiting the given missing fields, replacing
// any previous pending task (single slot).
func (s *SlotFilling) Park(fields models.TaskFields, missing []string, originalMessage string) {
	s.pending = &models.PendingTask{
		Fields:          fields,
		MissingFields:   missing,
		OriginalMessage: originalMessage,
		CreatedAt:       time.Now(),
	}
}

// Complete consumes the pending task, filling its due date with the
// supplied answer. Returns false when there is nothing pending.
func (s *SlotFilling) Complete(dateText string) (models.TaskFields, bool) {
	if s.pending == nil {
		return models.TaskFields{}, false
	}
	fields := s.pending.Fields
	fields.DueDate = strings.TrimSpace(dateText)
	s.pending = nil
	return fields, true
}

// Cancel discards the pending task without creating anything. Returns
// whether there was something to cancel.
func (s *SlotFilling) Cancel() bool {
	if s.pending == nil {
		return false
	}
	s.pending = nil
	return true
}
