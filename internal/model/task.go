package model

import "fmt"

// Device is the emulation profile requested from the performance API.
// The value is sent verbatim as the "strategy" query parameter.
type Device string

const (
	// DeviceMobile emulates a mid-range phone on a throttled network.
	DeviceMobile Device = "mobile"

	// DeviceDesktop emulates a desktop browser on a wired connection.
	DeviceDesktop Device = "desktop"
)

// AllDevices is the fixed device set every URL is assessed against.
// The order is used when expanding tasks.
var AllDevices = []Device{DeviceMobile, DeviceDesktop}

// String returns the device label.
func (d Device) String() string {
	return string(d)
}

// Valid reports whether d is one of the supported devices.
func (d Device) Valid() bool {
	return d == DeviceMobile || d == DeviceDesktop
}

// ParseDevice converts a label into a Device.
func ParseDevice(s string) (Device, error) {
	d := Device(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown device %q: must be %q or %q", s, DeviceMobile, DeviceDesktop)
	}
	return d, nil
}

// ProbeTask is one unit of work: a single URL assessed on a single device.
// It is a value type and never changes after BuildTasks creates it.
type ProbeTask struct {
	// URL is the page to assess, exactly as supplied by the caller.
	URL string `json:"url"`

	// Device is the emulation profile.
	Device Device `json:"device"`
}

// String returns "url [device]" for logs.
func (t ProbeTask) String() string {
	return t.URL + " [" + string(t.Device) + "]"
}

// BuildTasks returns the cross product of urls and devices, URL-major.
// Callers are expected to deduplicate urls first; (url, device) pairs are then
// unique by construction.
func BuildTasks(urls []string, devices []Device) []ProbeTask {
	tasks := make([]ProbeTask, 0, len(urls)*len(devices))
	for _, u := range urls {
		for _, d := range devices {
			tasks = append(tasks, ProbeTask{URL: u, Device: d})
		}
	}
	return tasks
}
