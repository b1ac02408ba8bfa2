package protocol

import "errors"

// Decode and framing error sentinels. Handlers check these with errors.Is;
// the connection is marked dead whenever one of them surfaces since framing
// is unrecoverably lost.
var (
	ErrShortRead      = errors.New("protocol: short read")
	ErrUnknownType    = errors.New("protocol: unknown var type tag")
	ErrLengthMismatch = errors.New("protocol: serialized length does not match bytes consumed")
	ErrTooLarge       = errors.New("protocol: packet exceeds 65535 bytes")
	ErrStringHasNUL   = errors.New("protocol: string var contains a NUL byte")
)
