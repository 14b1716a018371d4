package hostlink

import (
	"context"
	"fmt"

	"github.com/google/gousb"
)

// AdapterKind categorizes host link adapter families.
type AdapterKind string

const (
	AdapterKindFTDI    AdapterKind = "ftdi-bridge"
	AdapterKindNewAE   AdapterKind = "newae"
	AdapterKindSim     AdapterKind = "simulator"
	AdapterKindUnknown AdapterKind = "unknown"
)

// AdapterInfo describes a detected host link adapter.
type AdapterInfo struct {
	Kind        AdapterKind
	Description string
	VendorID    uint16
	ProductID   uint16
	Serial      string
}

// Label returns a user-friendly description for the adapter.
func (a AdapterInfo) Label() string {
	if a.Description != "" {
		return a.Description
	}
	if a.Kind != "" {
		return fmt.Sprintf("%s (%04X:%04X)", string(a.Kind), a.VendorID, a.ProductID)
	}
	return fmt.Sprintf("Adapter %04X:%04X", a.VendorID, a.ProductID)
}

// DiscoverAdapters enumerates connected USB devices that match known
// register-bridge VID/PID pairs. It always returns at least the simulator
// entry so the tool can be exercised without hardware connected.
func DiscoverAdapters(ctx context.Context) ([]AdapterInfo, error) {
	var results []AdapterInfo
	usb := gousb.NewContext()
	defer usb.Close()

	_, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		if info, ok := classifyUSBDevice(desc); ok {
			results = append(results, info)
		}
		return false
	})
	if err != nil && err != gousb.ErrorAccess {
		return results, err
	}

	results = append(results, AdapterInfo{
		Kind:        AdapterKindSim,
		Description: "Simulator (no hardware)",
	})

	return results, nil
}

func classifyUSBDevice(desc *gousb.DeviceDesc) (AdapterInfo, bool) {
	for _, known := range knownAdapters {
		if uint16(desc.Vendor) == known.VendorID && uint16(desc.Product) == known.ProductID {
			return AdapterInfo{
				Kind:        known.Kind,
				Description: known.Description,
				VendorID:    known.VendorID,
				ProductID:   known.ProductID,
			}, true
		}
	}
	return AdapterInfo{}, false
}

type knownUSBDevice struct {
	VendorID    uint16
	ProductID   uint16
	Kind        AdapterKind
	Description string
}

var knownAdapters = []knownUSBDevice{
	{VendorID: 0x0403, ProductID: 0x6010, Kind: AdapterKindFTDI, Description: "FTDI FT2232H register bridge"},
	{VendorID: 0x0403, ProductID: 0x6014, Kind: AdapterKindFTDI, Description: "FTDI FT232H register bridge"},
	{VendorID: 0x2b3e, ProductID: 0xace2, Kind: AdapterKindNewAE, Description: "NewAE capture/target bridge"},
}
