package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

const employeeCodePrefix = "EMP-"

// NewEmployeeCode returns a sortable display identifier such as
// EMP-01J9ZKQ4S3N6W8X2Y5B7C0D1EF.
func NewEmployeeCode(now time.Time) (string, error) {
	code, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate employee code: %w", err)
	}
	return employeeCodePrefix + code.String(), nil
}
