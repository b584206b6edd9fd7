package gpuselect

import (
	"github.com/cockroachdb/errors"
)

type fakeQueue struct {
	family, index int
}

type fakeLogical struct {
	queues    map[[2]int]*fakeQueue
	destroyed bool
}

func (d *fakeLogical) Queue(family, index int) Queue {
	key := [2]int{family, index}
	if q, ok := d.queues[key]; ok {
		return q
	}
	q := &fakeQueue{family: family, index: index}
	d.queues[key] = q
	return q
}

func (d *fakeLogical) Destroy() { d.destroyed = true }

type fakeDevice struct {
	props      *DeviceProperties
	propsErr   error
	families   []QueueFlags
	present    map[int]bool
	presentErr map[int]error
	extensions []string
	extErr     error
	features   map[Feature]bool
	createErr  error

	created []DeviceCreateInfo
	logical *fakeLogical
}

func newDevice(name string, typ DeviceType, maxDim uint32, families ...QueueFlags) *fakeDevice {
	return &fakeDevice{
		props:    &DeviceProperties{Name: name, Type: typ, MaxImageDimension2D: maxDim},
		families: families,
		present:  map[int]bool{},
	}
}

func (d *fakeDevice) presents(families ...int) *fakeDevice {
	for _, f := range families {
		d.present[f] = true
	}
	return d
}

func (d *fakeDevice) withExtensions(names ...string) *fakeDevice {
	d.extensions = names
	return d
}

func (d *fakeDevice) Properties() (*DeviceProperties, error) {
	if d.propsErr != nil {
		return nil, d.propsErr
	}
	return d.props, nil
}

func (d *fakeDevice) QueueFamilies() []QueueFamily {
	families := make([]QueueFamily, len(d.families))
	for i, flags := range d.families {
		families[i] = QueueFamily{Index: i, Flags: flags, QueueCount: 1}
	}
	return families
}

func (d *fakeDevice) Extensions() (map[string]struct{}, error) {
	if d.extErr != nil {
		return nil, d.extErr
	}
	set := make(map[string]struct{}, len(d.extensions))
	for _, name := range d.extensions {
		set[name] = struct{}{}
	}
	return set, nil
}

func (d *fakeDevice) Features() map[Feature]bool { return d.features }

func (d *fakeDevice) CreateDevice(info DeviceCreateInfo) (LogicalDevice, error) {
	d.created = append(d.created, info)
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.logical = &fakeLogical{queues: map[[2]int]*fakeQueue{}}
	return d.logical, nil
}

type fakeSurface struct {
	queries int
}

func (s *fakeSurface) SupportsPresentation(device PhysicalDevice, family int) (bool, error) {
	s.queries++
	d, ok := device.(*fakeDevice)
	if !ok {
		return false, errors.New("foreign device")
	}
	if err := d.presentErr[family]; err != nil {
		return false, err
	}
	return d.present[family], nil
}

func intPtr(i int) *int { return &i }
