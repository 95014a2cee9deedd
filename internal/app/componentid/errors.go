package componentid

import (
	"errors"
	"fmt"
)

var (
	// ErrMintConstraint: error de programación al crear un ID (nombre vacío, demasiado largo...).
	ErrMintConstraint = errors.New("componentid: mint constraint violated")
	// ErrDecode: custom_id mal formado. Esperable con componentes viejos o manipulados.
	ErrDecode = errors.New("componentid: decode failure")
)

type MintError struct {
	Command string
	Reason  string
}

func (e *MintError) Error() string {
	return fmt.Sprintf("componentid: cannot mint for %q: %s", e.Command, e.Reason)
}

func (e *MintError) Unwrap() error { return ErrMintConstraint }

type DecodeError struct {
	Input  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("componentid: cannot decode %q: %s", e.Input, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }
