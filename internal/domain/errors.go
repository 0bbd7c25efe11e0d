package domain

import "errors"

// Domain errors. Every rule-layer failure is one of these, wrapped or not.
var (
	ErrNotInstructor           = errors.New("not an instructor")
	ErrInvalidTimeFormat       = errors.New("wrong time format")
	ErrInvalidOnlineValue      = errors.New("online should be 'true' or 'false'")
	ErrUserNotFound            = errors.New("user not found")
	ErrSeminarNotFound         = errors.New("seminar not found")
	ErrNotCharger              = errors.New("you are not in charge of this seminar")
	ErrCapacityTooSmall        = errors.New("capacity too small")
	ErrInvalidRole             = errors.New("role should be 'instructor' or 'participant'")
	ErrRoleNotSuitable         = errors.New("role not suitable")
	ErrAlreadyFull             = errors.New("seminar already full")
	ErrAlreadyEntered          = errors.New("already in seminar")
	ErrNotAccepted             = errors.New("cannot participate")
	ErrAlreadyCharging         = errors.New("already in charge of a seminar")
	ErrAlreadyParticipant      = errors.New("already a participant")
	ErrOperatingSystemNotFound = errors.New("operating system not found")
	ErrSurveyResponseNotFound  = errors.New("survey response not found")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrNotInstructor, "NOT_INSTRUCTOR"},
	{ErrInvalidTimeFormat, "INVALID_TIME_FORMAT"},
	{ErrInvalidOnlineValue, "INVALID_ONLINE_VALUE"},
	{ErrUserNotFound, "USER_NOT_FOUND"},
	{ErrSeminarNotFound, "SEMINAR_NOT_FOUND"},
	{ErrNotCharger, "NOT_CHARGER"},
	{ErrCapacityTooSmall, "CAPACITY_TOO_SMALL"},
	{ErrInvalidRole, "INVALID_ROLE"},
	{ErrRoleNotSuitable, "ROLE_NOT_SUITABLE"},
	{ErrAlreadyFull, "ALREADY_FULL"},
	{ErrAlreadyEntered, "ALREADY_ENTERED"},
	{ErrNotAccepted, "NOT_ACCEPTED"},
	{ErrAlreadyCharging, "ALREADY_CHARGING"},
	{ErrAlreadyParticipant, "ALREADY_PARTICIPANT"},
	{ErrOperatingSystemNotFound, "OS_NOT_FOUND"},
	{ErrSurveyResponseNotFound, "SURVEY_RESPONSE_NOT_FOUND"},
}

// Code returns the machine-readable code of a domain error, or "" when err
// is not one.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
