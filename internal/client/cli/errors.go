package cli

import (
	"errors"

	"github.com/dmitrijs2005/gophforum/internal/client/client"
	"github.com/dmitrijs2005/gophforum/internal/common"
)

// Describe turns an error into a message fit for the terminal.
func Describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrUnauthorized):
		return "not logged in or session expired, run 'gophforum login'"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, common.ErrValidation):
		return "missing required fields"
	default:
		return err.Error()
	}
}
