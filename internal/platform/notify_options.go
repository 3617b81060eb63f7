// Package platform wraps the host notification center.
package platform

// AppName is the application name shown by notification centers.
const AppName = "BlurPatch"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image the notification may show.
	IconPath string
}
