package validation

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/models"
)

var (
	// GitHub author qualifier: a login, a bot account (dependabot[bot]) or
	// an app (app/dependabot)
	githubLoginPattern = regexp.MustCompile(`^(?:app/)?[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}(?:\[bot\])?$`)

	// GitHub search range bound: *, a date, or an ISO 8601 date-time with
	// optional fractional seconds and zone
	searchBoundPattern = regexp.MustCompile(`^(\*|\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})?)?)$`)
)

// Validator provides validation methods
type Validator struct{}

// New creates a new validator instance
func New() *Validator {
	return &Validator{}
}

// ValidateWorkLogRequest validates the arguments of a work log request
func (v *Validator) ValidateWorkLogRequest(dirs []string, after string) *errors.AppError {
	if len(dirs) == 0 {
		return errors.ValidationError("'dirs' must name at least one directory")
	}

	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			return errors.ValidationError("'dirs' must not contain empty paths")
		}
	}

	if strings.TrimSpace(after) == "" {
		return errors.ValidationError("'after' field is required")
	}

	return nil
}

// ValidateActivityRequest validates a GitHub activity request
func (v *Validator) ValidateActivityRequest(author, after, before string) *errors.AppError {
	if !githubLoginPattern.MatchString(author) {
		return errors.ValidationError("Invalid GitHub login: " + author)
	}

	if !searchBoundPattern.MatchString(after) {
		return errors.ValidationError("Invalid 'after' date (expected YYYY-MM-DD or *): " + after)
	}

	if !searchBoundPattern.MatchString(before) {
		return errors.ValidationError("Invalid 'before' date (expected YYYY-MM-DD or *): " + before)
	}

	return nil
}

// ValidateDraftRequest validates a draft email request
func (v *Validator) ValidateDraftRequest(req *models.DraftRequest) *errors.AppError {
	if req == nil {
		return errors.InvalidRequest("Request body is required")
	}

	if len(req.To) == 0 {
		return errors.ValidationError("'to' must name at least one recipient")
	}

	for _, to := range req.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return errors.ValidationError("Invalid recipient address: " + to)
		}
	}

	if strings.ContainsAny(req.Subject, "\r\n") {
		return errors.ValidationError("'subject' must be a single line")
	}

	return nil
}
