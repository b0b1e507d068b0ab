// Package host is the uploader side of the line protocol.
//
// A Client wraps the transport to one device (typically a serial port)
// and offers one method per request, each bounded by a timeout:
//
//	client := host.NewClient(port)
//	info, err := client.BootloaderInfo(ctx)
//
// An Uploader runs the whole update sequence with progress reporting:
//
//	lines, err := hexrecord.ReadLines(file)
//	up := host.NewUploader(client,
//	    host.WithTarget("NucleoF446RE", "1.0"),
//	    host.WithLaunch(true),
//	)
//	err = up.Upload(ctx, lines)
//
// Errors sent by the device arrive as *protocol.DeviceError; use its
// Message method for a human-readable text. No request is retried.
package host
