package domain

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/voidlight/internal/platform/errors"
)

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.New(apperrors.CodeNameRequired, "name is required")
	}
	return name, nil
}

func characterNotFound(k Kind, id ID) error {
	return apperrors.WithMetadata(apperrors.CodeCharacterNotFound, "character not found", map[string]string{
		"Kind": string(k),
		"ID":   id.String(),
	})
}

func clockNotFound(id ID) error {
	return apperrors.WithMetadata(apperrors.CodeClockNotFound, "clock not found", map[string]string{"ID": id.String()})
}

func sceneNotFound(id ID) error {
	return apperrors.WithMetadata(apperrors.CodeSceneNotFound, "scene not found", map[string]string{"ID": id.String()})
}

func abilityNotFound(index int) error {
	return apperrors.WithMetadata(apperrors.CodeAbilityNotFound, "ability not found", map[string]string{"Index": strconv.Itoa(index)})
}

func insufficientFear(have, need int) error {
	return apperrors.WithMetadata(apperrors.CodeInsufficientFear, "not enough fear", map[string]string{
		"Have": strconv.Itoa(have),
		"Need": strconv.Itoa(need),
	})
}

func insufficientHope(have, need int) error {
	return apperrors.WithMetadata(apperrors.CodeInsufficientHope, "not enough hope", map[string]string{
		"Have": strconv.Itoa(have),
		"Need": strconv.Itoa(need),
	})
}

func invalidAction(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidAction, reason, map[string]string{"Reason": reason})
}
