package gpuselect

// Requirements are the hard and soft demands an application places on a
// rendering device.
type Requirements struct {
	// Extensions must all be supported or the device is rejected.
	Extensions []string
	// OptionalExtensions are enabled when the device supports them.
	OptionalExtensions []string
	// Features must all be supported or the device is rejected.
	Features []Feature
}

func (r Requirements) enabledExtensions(report *CapabilityReport) []string {
	names := make([]string, 0, len(r.Extensions)+len(report.OptionalExtensions))
	seen := make(map[string]struct{}, cap(names))
	for _, list := range [][]string{r.Extensions, report.OptionalExtensions} {
		for _, name := range list {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
