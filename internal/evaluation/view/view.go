// internal/evaluation/view/view.go
package view

import (
	"fmt"
	"sync"

	"partner-evaluator/pkg/registry"
)

// StarCount is the number of glyphs in a star rating.
const StarCount = 5

// Region is the content of one display region.
type Region struct {
	ID      string
	Kind    registry.Kind
	Section string
	Label   string

	// Rendered is false until a render pass writes the region.
	Rendered bool
	// Text holds a scalar value or the label of a score bar.
	Text string
	// Width is the score bar width in percent.
	Width float64
	// Items holds tag chips or list entries in display order.
	Items []string
	// Stars holds one flag per glyph, true when filled.
	Stars []bool
}

// Reset returns the region to its unrendered state.
func (r *Region) Reset() {
	r.Rendered = false
	r.Text = ""
	r.Width = 0
	r.Items = nil
	r.Stars = nil
}

// FilledStars counts filled glyphs.
func (r Region) FilledStars() int {
	n := 0
	for _, filled := range r.Stars {
		if filled {
			n++
		}
	}
	return n
}

func (r Region) clone() Region {
	c := r
	if r.Items != nil {
		c.Items = append([]string{}, r.Items...)
	}
	if r.Stars != nil {
		c.Stars = append([]bool{}, r.Stars...)
	}
	return c
}

// ViewModel is the display surface: one region per registry entry plus the
// result container, the error region, the loading indicator and the trigger.
type ViewModel struct {
	mu       sync.RWMutex
	registry *registry.RegionRegistry
	regions  map[string]Region

	resultVisible  bool
	errorVisible   bool
	errorMessage   string
	loadingVisible bool
	triggerEnabled bool
}

// New builds an empty surface. A nil registry selects the built-in one.
func New(reg *registry.RegionRegistry) *ViewModel {
	if reg == nil {
		reg = registry.Default()
	}
	vm := &ViewModel{
		registry:       reg,
		regions:        make(map[string]Region, len(reg.Regions)),
		triggerEnabled: true,
	}
	for _, r := range reg.Regions {
		vm.regions[r.ID] = Region{ID: r.ID, Kind: r.Kind, Section: r.Section, Label: r.Label}
	}
	return vm
}

func (vm *ViewModel) Registry() *registry.RegionRegistry {
	return vm.registry
}

// BeginLoading shows the loading indicator and disables the trigger.
func (vm *ViewModel) BeginLoading() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.loadingVisible = true
	vm.triggerEnabled = false
}

// EndLoading hides the loading indicator and re-enables the trigger.
func (vm *ViewModel) EndLoading() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.loadingVisible = false
	vm.triggerEnabled = true
}

// ShowError displays msg in the error region and hides the result.
func (vm *ViewModel) ShowError(msg string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.errorVisible = true
	vm.errorMessage = msg
	vm.resultVisible = false
}

func (vm *ViewModel) HideError() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.errorVisible = false
	vm.errorMessage = ""
}

func (vm *ViewModel) HideResult() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.resultVisible = false
}

// NewDraft copies the current regions into a draft that a render pass can
// write to without touching the surface.
func (vm *ViewModel) NewDraft() *Draft {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	d := &Draft{regions: make(map[string]*Region, len(vm.regions))}
	for id, r := range vm.regions {
		c := r.clone()
		d.regions[id] = &c
	}
	return d
}

// Commit replaces every region with the draft content and shows the result.
func (vm *ViewModel) Commit(d *Draft) error {
	if d == nil {
		return fmt.Errorf("nil draft")
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()

	for id := range vm.regions {
		if _, ok := d.regions[id]; !ok {
			return fmt.Errorf("draft is missing region %q", id)
		}
	}
	for id, r := range d.regions {
		vm.regions[id] = r.clone()
	}
	vm.resultVisible = true
	return nil
}

// Snapshot returns an immutable copy of the surface.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	s := Snapshot{
		Sections:       append([]registry.Section{}, vm.registry.Sections...),
		Regions:        make([]Region, 0, len(vm.registry.Regions)),
		ResultVisible:  vm.resultVisible,
		ErrorVisible:   vm.errorVisible,
		ErrorMessage:   vm.errorMessage,
		LoadingVisible: vm.loadingVisible,
		TriggerEnabled: vm.triggerEnabled,
	}
	for _, r := range vm.registry.Regions {
		s.Regions = append(s.Regions, vm.regions[r.ID].clone())
	}
	return s
}

// Draft is a private copy of the regions owned by one render pass.
type Draft struct {
	regions map[string]*Region
}

// Region returns the draft copy of a region for writing.
func (d *Draft) Region(id string) (*Region, error) {
	r, ok := d.regions[id]
	if !ok {
		return nil, fmt.Errorf("unknown region %q", id)
	}
	return r, nil
}

// ResetAll returns every region of the draft to its unrendered state.
func (d *Draft) ResetAll() {
	for _, r := range d.regions {
		r.Reset()
	}
}

// Snapshot is a point-in-time copy of the surface.
type Snapshot struct {
	Sections []registry.Section
	Regions  []Region

	ResultVisible  bool
	ErrorVisible   bool
	ErrorMessage   string
	LoadingVisible bool
	TriggerEnabled bool
}

// Region returns the region with the given ID, or a zero Region.
func (s Snapshot) Region(id string) Region {
	for _, r := range s.Regions {
		if r.ID == id {
			return r
		}
	}
	return Region{}
}

// RegionsIn returns the regions of a section in display order.
func (s Snapshot) RegionsIn(section string) []Region {
	var out []Region
	for _, r := range s.Regions {
		if r.Section == section {
			out = append(out, r)
		}
	}
	return out
}

// Rendered reports whether any region of section has been written.
func (s Snapshot) Rendered(section string) bool {
	for _, r := range s.RegionsIn(section) {
		if r.Rendered {
			return true
		}
	}
	return false
}
