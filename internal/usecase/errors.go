package usecase

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/garrywilliams/cake/pkg/errors"
)

// Workflow errors surfaced to API clients. The messages are part of the
// gateway's contract and are returned verbatim in the error body.
var (
	// ErrMissingImageURL is returned when a create payload has no imageUrl.
	ErrMissingImageURL = apperrors.NewAppError(apperrors.ErrInvalidArgument,
		"Please provide an imageUrl.", nil)

	// ErrInvalidImage is returned when the detector rejects the request or
	// cannot be reached.
	ErrInvalidImage = apperrors.NewAppError(apperrors.ErrInvalidArgument,
		"Invalid cake image. Please try again with a different image.", nil)

	// ErrNotCake is returned when the detector sees no cake in the image.
	ErrNotCake = apperrors.NewAppError(apperrors.ErrInvalidArgument,
		"Couldn't see the cake. Please try again with a different image.", nil)

	// ErrCreateFailed is returned when the catalog refuses the new cake.
	ErrCreateFailed = apperrors.NewAppError(apperrors.ErrInvalidArgument,
		"We couldn't add your cake. Please try again.", nil)

	// ErrUpdateFailed is returned when the catalog refuses the update.
	ErrUpdateFailed = apperrors.NewAppError(apperrors.ErrInvalidArgument,
		"Could not update the cake. Please try again.", nil)

	// ErrCatalogUnavailable is returned when the catalog cannot be reached at
	// all; catalog error statuses themselves pass through untouched.
	ErrCatalogUnavailable = apperrors.NewAppError(apperrors.ErrInvalidArgument,
		"We couldn't reach the bakery. Please try again.", nil)
)

// ValidationError reports structural payload validation failures before any
// collaborator is contacted. Fields maps each invalid field to a message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid cake payload: %s", strings.Join(names, ", "))
}
