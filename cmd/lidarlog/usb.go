package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lidarlog/adapter"
)

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "list HID devices",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var knownAdapters = map[string][2]uint16{
	"MCP2221": {adapter.VendorID, adapter.ProductID},
}

var usbLsCmd = cli.Command{
	Name: "ls",
	Action: func(c *cli.Context) error {
		listDevices(c.App.Writer, hid.Enumerate(0, 0))
		return nil
	},
}

var usbDetectCmd = cli.Command{
	Name: "detect",
	Action: func(c *cli.Context) error {
		detectAdapters(c.App.Writer, hid.Enumerate(0, 0))
		return nil
	},
}

func listDevices(out io.Writer, devices []hid.DeviceInfo) {
	w := tabwriter.NewWriter(out, 24, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")
	for _, dev := range devices {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
			dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
	}
	_ = w.Flush()
}

func detectAdapters(out io.Writer, devices []hid.DeviceInfo) {
	w := tabwriter.NewWriter(out, 24, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(w, "VENDOR\tPRODUCT\tDEVICE\n")
	for _, dev := range devices {
		for name, codes := range knownAdapters {
			if codes[0] == dev.VendorID && codes[1] == dev.ProductID {
				_, _ = fmt.Fprintf(w, "%#x\t%#x\t%s\n", dev.VendorID, dev.ProductID, name)
			}
		}
	}
	_ = w.Flush()
}
