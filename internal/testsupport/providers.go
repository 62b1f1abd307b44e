package testsupport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"astrogen/internal/world"
)

// Sample sec-format records used across package tests.
const (
	LineTraltha    = "Traltha       2834 B590630-6    De He Ni An        410 Im F5 V           "
	LineHammermium = "Hammermium    2936 A5525AB-B    Ni Po Da        A  535 Im M3 V           "
	LineTrin       = "Trin          3235 A894A96-F  A Hi In Cp Ht        101 Im G0 V           "
	LineChamois    = "Chamois       3139 B544642-5  S Ag Ni Lt           723 Im F9 V           "
)

// Blob joins lines with CRLF the way TravellerMap serves them.
func Blob(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

// FakeProvider is an in-memory metadata, subsector, and sector-list provider.
// It is safe for concurrent use.
type FakeProvider struct {
	Metadata    []world.SubsectorMetadata
	Blobs       map[int]string
	Errors      map[int]error
	Delays      map[int]time.Duration
	MetadataErr error
	Sectors     []string
	SectorsErr  error

	mu             sync.Mutex
	metadataCalls  int
	subsectorCalls []int
	inFlight       int
	maxInFlight    int
}

// Subsectors returns the configured metadata.
func (f *FakeProvider) Subsectors(ctx context.Context, sector string) ([]world.SubsectorMetadata, error) {
	f.mu.Lock()
	f.metadataCalls++
	f.mu.Unlock()
	if f.MetadataErr != nil {
		return nil, f.MetadataErr
	}
	return append([]world.SubsectorMetadata(nil), f.Metadata...), nil
}

// Subsector returns the blob for index after its configured delay.
func (f *FakeProvider) Subsector(ctx context.Context, sector string, index int) (string, error) {
	f.mu.Lock()
	f.subsectorCalls = append(f.subsectorCalls, index)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if d := f.Delays[index]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := f.Errors[index]; err != nil {
		return "", err
	}
	blob, ok := f.Blobs[index]
	if !ok {
		return "", fmt.Errorf("no fixture for subsector %d", index)
	}
	return blob, nil
}

// SectorNames returns the configured sector list.
func (f *FakeProvider) SectorNames(context.Context) ([]string, error) {
	if f.SectorsErr != nil {
		return nil, f.SectorsErr
	}
	return append([]string(nil), f.Sectors...), nil
}

// MetadataCalls reports how often Subsectors was called.
func (f *FakeProvider) MetadataCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metadataCalls
}

// SubsectorCalls returns the subsector indices requested, in call order.
func (f *FakeProvider) SubsectorCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.subsectorCalls...)
}

// MaxInFlight reports the highest number of concurrent Subsector calls seen.
func (f *FakeProvider) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// ErrUpstreamDown is a canned provider failure.
var ErrUpstreamDown = errors.New("upstream unavailable")

// NewSpinwardFake returns a provider with three small subsectors.
func NewSpinwardFake() *FakeProvider {
	return &FakeProvider{
		Metadata: []world.SubsectorMetadata{
			{Name: "Aramis", Index: 14},
			{Name: "Regina", Index: 2},
			{Name: "Lunion", Index: 6},
		},
		Blobs: map[int]string{
			14: Blob(LineTraltha, "Oops", LineHammermium),
			2:  Blob(LineTrin),
			6:  Blob(LineChamois),
		},
		Sectors: []string{"Spinward Marches", "Deneb", "Trojan Reach"},
	}
}
