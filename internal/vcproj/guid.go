package vcproj

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pdfedit/wintools/internal/config"
)

// DefaultSeed is the first GUID handed out when no project exists yet.
const DefaultSeed = "F4B0B7E4-A405-4EB1-A74F-0765181FE3BC"

// Allocator hands out project GUIDs that do not collide with any known GUID.
type Allocator interface {
	Next() (string, error)
}

// NewAllocator returns the allocator for mode, aware of the known GUIDs.
func NewAllocator(mode, seed string, known []string) (Allocator, error) {
	switch mode {
	case config.GUIDModeSequential, "":
		return NewSequentialAllocator(seed, known), nil
	case config.GUIDModeRandom:
		return NewRandomAllocator(known), nil
	default:
		return nil, &UnknownGUIDModeError{Mode: mode}
	}
}

// SequentialAllocator increments the last group of the greatest known GUID,
// keeping the group's width.
type SequentialAllocator struct {
	seed  string
	known []string
}

func NewSequentialAllocator(seed string, known []string) *SequentialAllocator {
	if seed == "" {
		seed = DefaultSeed
	}
	return &SequentialAllocator{seed: strings.ToUpper(seed), known: normalise(known)}
}

func (a *SequentialAllocator) Next() (string, error) {
	if len(a.known) == 0 {
		a.known = append(a.known, a.seed)
		return a.seed, nil
	}

	greatest := a.known[len(a.known)-1]
	next, err := increment(greatest)
	if err != nil {
		return "", err
	}
	a.add(next)
	return next, nil
}

func (a *SequentialAllocator) add(guid string) {
	if i, found := slices.BinarySearch(a.known, guid); !found {
		a.known = slices.Insert(a.known, i, guid)
	}
}

func increment(guid string) (string, error) {
	groups := strings.Split(guid, "-")
	last := groups[len(groups)-1]
	if len(last) == 0 || len(last) > 16 {
		return "", &InvalidGUIDError{GUID: guid, Reason: "last group must have 1 to 16 hex digits"}
	}
	n, err := strconv.ParseUint(last, 16, 64)
	if err != nil {
		return "", &InvalidGUIDError{GUID: guid, Reason: "last group is not hexadecimal"}
	}
	if n == ^uint64(0) {
		return "", &GUIDOverflowError{GUID: guid}
	}
	bumped := fmt.Sprintf("%0*X", len(last), n+1)
	if len(bumped) > len(last) {
		return "", &GUIDOverflowError{GUID: guid}
	}
	groups[len(groups)-1] = bumped
	return strings.Join(groups, "-"), nil
}

// RandomAllocator hands out fresh version 4 UUIDs.
type RandomAllocator struct {
	known   map[string]bool
	newUUID func() uuid.UUID
}

func NewRandomAllocator(known []string) *RandomAllocator {
	a := &RandomAllocator{known: map[string]bool{}, newUUID: uuid.New}
	for _, g := range normalise(known) {
		a.known[g] = true
	}
	return a
}

func (a *RandomAllocator) Next() (string, error) {
	for {
		g := strings.ToUpper(a.newUUID().String())
		if !a.known[g] {
			a.known[g] = true
			return g, nil
		}
	}
}

// normalise upper-cases, sorts and de-duplicates GUIDs.
func normalise(guids []string) []string {
	out := make([]string, 0, len(guids))
	for _, g := range guids {
		out = append(out, strings.ToUpper(g))
	}
	slices.Sort(out)
	return slices.Compact(out)
}
