package usecase

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ErlanBelekov/yamdb-auth/internal/domain"
)

var validate = validator.New()

// normalizeIdentity trims and lower-cases an email address so that the same
// mailbox always maps to the same code entry and user row.
func normalizeIdentity(emailAddr string) (string, error) {
	identity := strings.ToLower(strings.TrimSpace(emailAddr))
	if err := validate.Var(identity, "required,email,max=254"); err != nil {
		return "", domain.ErrInvalidIdentity
	}
	return identity, nil
}

func validateUsername(username string) error {
	if strings.EqualFold(username, domain.ReservedUsername) {
		return domain.ErrReservedUsername
	}
	if strings.ContainsAny(username, " \t\n") {
		return domain.ErrInvalidUsername
	}
	if err := validate.Var(username, "required,max=150,printascii"); err != nil {
		return domain.ErrInvalidUsername
	}
	return nil
}
