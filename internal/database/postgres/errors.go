package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FractureX/fracturex-module-database/internal/errs"
	"github.com/FractureX/fracturex-module-database/internal/response"
)

// PostgreSQL SQLSTATE error codes
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrUniqueViolation = "23505"
)

// Detail lines emitted by the server for a unique violation, per locale.
var uniqueViolationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Key \((.*?)\)=\((.*?)\) already exists`),
	regexp.MustCompile(`Ya existe la llave \((.*?)\)=\((.*?)\)`),
}

// mapError converts a pgx error into the module's *errs.Error. The message is
// the caller-facing "There was an error: ..." text.
func mapError(err error) *errs.Error {
	if err == nil {
		return nil
	}

	kind := errs.ErrKindQueryFailed
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = errs.ErrKindTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		kind = errs.ErrKindUniqueViolation
	}

	return errs.Wrap(kind, response.ErrorPrefix+formatError(err), err)
}

// formatError returns the native error text, except for unique violations
// whose text names the offending values: those become one
// "<value> already exists" line per value.
func formatError(err error) string {
	text := err.Error()

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgErrUniqueViolation {
		return text
	}

	if msg := formatUniqueViolation(text + "\n" + pgErr.Detail); msg != "" {
		return msg
	}
	return text
}

// formatUniqueViolation rewrites every "Key (a, b)=(x, y) already exists"
// match found in text. It returns "" when nothing matches.
func formatUniqueViolation(text string) string {
	var lines []string
	for _, re := range uniqueViolationPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			columns := strings.Split(m[1], ", ")
			values := strings.Split(m[2], ", ")
			for i := range values {
				if i >= len(columns) {
					break
				}
				lines = append(lines, values[i]+" already exists")
			}
		}
	}
	return strings.Join(lines, "\n")
}
