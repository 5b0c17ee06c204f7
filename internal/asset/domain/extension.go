package domain

import (
	"github.com/bwmarrin/snowflake"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
)

// Extension is the closed union of type-specific asset payloads. At most one
// payload is non-nil, and it always matches Kind.
type Extension struct {
	Kind          assettypedomain.ExtensionKind `json:"-"`
	Workstation   *WorkstationAsset             `json:"workstation,omitempty"`
	NetworkDevice *NetworkDeviceAsset           `json:"network_device,omitempty"`
	Server        *ServerAsset                  `json:"server,omitempty"`
	MobileDevice  *MobileDeviceAsset            `json:"mobile_device,omitempty"`
	Printer       *PrinterAsset                 `json:"printer,omitempty"`
}

// IsZero reports whether no payload is present.
func (e Extension) IsZero() bool {
	return e.Workstation == nil &&
		e.NetworkDevice == nil &&
		e.Server == nil &&
		e.MobileDevice == nil &&
		e.Printer == nil
}

// Stamp writes the owning asset and tenant onto whichever payload is present.
func (e Extension) Stamp(tenantID, assetID snowflake.ID) Extension {
	if e.Workstation != nil {
		e.Workstation.TenantID, e.Workstation.AssetID = tenantID, assetID
	}
	if e.NetworkDevice != nil {
		e.NetworkDevice.TenantID, e.NetworkDevice.AssetID = tenantID, assetID
	}
	if e.Server != nil {
		e.Server.TenantID, e.Server.AssetID = tenantID, assetID
	}
	if e.MobileDevice != nil {
		e.MobileDevice.TenantID, e.MobileDevice.AssetID = tenantID, assetID
	}
	if e.Printer != nil {
		e.Printer.TenantID, e.Printer.AssetID = tenantID, assetID
	}
	return e
}

// ForKind keeps only the payload matching kind; payloads supplied for any
// other kind are discarded.
func (e Extension) ForKind(kind assettypedomain.ExtensionKind) Extension {
	out := Extension{Kind: kind}
	switch kind {
	case assettypedomain.KindWorkstation:
		out.Workstation = e.Workstation
	case assettypedomain.KindNetworkDevice:
		out.NetworkDevice = e.NetworkDevice
	case assettypedomain.KindServer:
		out.Server = e.Server
	case assettypedomain.KindMobileDevice:
		out.MobileDevice = e.MobileDevice
	case assettypedomain.KindPrinter:
		out.Printer = e.Printer
	}
	return out
}
