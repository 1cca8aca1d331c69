package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"jobboard/internal/common"
)

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath parses the path segment at the given index as a UUID.
// Index 1 of "/jobs/{id}" is the job id.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index < 0 || index >= len(parts) {
		return "", common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	parsed, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}
