package util

import (
	"regexp"
	"time"
)

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func ValidatePassword(password string) bool {
	return len(password) >= 8
}

// ParseDateOfBirth accepts the wire format used by the sign-up form.
func ParseDateOfBirth(dob string) (time.Time, error) {
	return time.Parse("2006-01-02", dob)
}

// AgeAt computes full elapsed years between birthDate and now. Plain
// year subtraction overcounts by one for anyone who has not had their
// birthday yet in the current year, so the month/day is checked too.
func AgeAt(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
