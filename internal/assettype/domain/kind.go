package domain

import "strings"

// ExtensionKind is the closed set of extension tables an asset can own.
// Types whose name is not one of the fixed names carry base fields only.
type ExtensionKind string

const (
	KindNone          ExtensionKind = ""
	KindWorkstation   ExtensionKind = "workstation"
	KindNetworkDevice ExtensionKind = "network_device"
	KindServer        ExtensionKind = "server"
	KindMobileDevice  ExtensionKind = "mobile_device"
	KindPrinter       ExtensionKind = "printer"
)

// KindFromTypeName maps a type name to its extension kind, case-insensitively.
// Unrecognized names map to KindNone rather than an error.
func KindFromTypeName(name string) ExtensionKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(KindWorkstation):
		return KindWorkstation
	case string(KindNetworkDevice):
		return KindNetworkDevice
	case string(KindServer):
		return KindServer
	case string(KindMobileDevice):
		return KindMobileDevice
	case string(KindPrinter):
		return KindPrinter
	default:
		return KindNone
	}
}
