// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeCharacterNotFound   Code = "CHARACTER_NOT_FOUND"
	CodeClockNotFound       Code = "CLOCK_NOT_FOUND"
	CodeSceneNotFound       Code = "SCENE_NOT_FOUND"
	CodeAbilityNotFound     Code = "ABILITY_NOT_FOUND"
	CodeSaveNotFound        Code = "SAVE_NOT_FOUND"
	CodeTemplateNotFound    Code = "TEMPLATE_NOT_FOUND"
	CodeMonsterNotFound     Code = "MONSTER_NOT_FOUND"
	CodeEnvironmentNotFound Code = "ENVIRONMENT_NOT_FOUND"
	CodeMoveNotFound        Code = "MOVE_NOT_FOUND"

	// Validation errors
	CodeNameRequired    Code = "NAME_REQUIRED"
	CodeInvalidSegments Code = "INVALID_SEGMENTS"
	CodeInvalidDiceSpec Code = "INVALID_DICE_SPEC"
	CodeInvalidDocument Code = "INVALID_DOCUMENT"
	CodeInvalidAction   Code = "INVALID_ACTION"
	CodeInvalidFilter   Code = "INVALID_FILTER"
	CodeUnknownSection  Code = "UNKNOWN_SECTION"
	CodeUnknownFormat   Code = "UNKNOWN_FORMAT"

	// Resource errors
	CodeInsufficientFear Code = "INSUFFICIENT_FEAR"
	CodeInsufficientHope Code = "INSUFFICIENT_HOPE"

	// Flow errors
	CodeImportDeclined Code = "IMPORT_DECLINED"
	CodeUnauthorized   Code = "UNAUTHORIZED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// BadRequest - validation failures, bad input
	case CodeNameRequired,
		CodeInvalidSegments,
		CodeInvalidDiceSpec,
		CodeInvalidDocument,
		CodeInvalidAction,
		CodeInvalidFilter,
		CodeUnknownSection,
		CodeUnknownFormat:
		return http.StatusBadRequest

	// Conflict - state doesn't allow operation
	case CodeInsufficientFear,
		CodeInsufficientHope,
		CodeImportDeclined:
		return http.StatusConflict

	// NotFound - resource doesn't exist
	case CodeCharacterNotFound,
		CodeClockNotFound,
		CodeSceneNotFound,
		CodeAbilityNotFound,
		CodeSaveNotFound,
		CodeTemplateNotFound,
		CodeMonsterNotFound,
		CodeEnvironmentNotFound,
		CodeMoveNotFound:
		return http.StatusNotFound

	case CodeUnauthorized:
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}
