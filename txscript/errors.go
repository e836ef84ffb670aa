package txscript

import "errors"

var (
	// ErrInvalidKeyLength indicates key material of the wrong size for the
	// requested script type.
	ErrInvalidKeyLength = errors.New("txscript: invalid key length")

	// ErrUnknownScriptType indicates a script type with no template.
	ErrUnknownScriptType = errors.New("txscript: unknown script type")

	// ErrEmptySignature indicates an unlocking script was requested with no
	// signature bytes.
	ErrEmptySignature = errors.New("txscript: empty signature")
)
