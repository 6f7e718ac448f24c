package vcproj

import "fmt"

// GUIDOverflowError is returned when incrementing the last group of a GUID
// would need more digits than the group has.
type GUIDOverflowError struct {
	GUID string
}

func (e *GUIDOverflowError) Error() string {
	return fmt.Sprintf("cannot allocate a GUID after %s: last group overflows", e.GUID)
}

type InvalidGUIDError struct {
	GUID   string
	Reason string
}

func (e *InvalidGUIDError) Error() string {
	return fmt.Sprintf("invalid GUID '%s': %s", e.GUID, e.Reason)
}

type MissingSourceDirError struct {
	Path string
}

func (e *MissingSourceDirError) Error() string {
	return fmt.Sprintf("tool source directory %s does not exist", e.Path)
}

type UnknownGUIDModeError struct {
	Mode string
}

func (e *UnknownGUIDModeError) Error() string {
	return fmt.Sprintf("unknown GUID mode '%s'", e.Mode)
}
