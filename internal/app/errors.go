package app

import (
	"errors"

	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
)

var ErrNotFound = ports.ErrNotFound

var ErrConflict = ports.ErrConflict

// ErrRunInProgress: un run est déjà en cours (mode serve).
var ErrRunInProgress = errors.New("run already in progress")

// ErrNoDisabler: ALLOW_AUTO_DISABLE demandé sans dépôt/token configurés.
var ErrNoDisabler = errors.New("auto-disable requested but no workflow disabler configured")

type CodedError = ports.CodedError
