package host

import "time"

// Upload phases reported in Progress.Phase.
const (
	PhaseConnecting = "connecting"
	PhaseErasing    = "erasing"
	PhaseWriting    = "writing"
	PhaseLaunching  = "launching"
	PhaseComplete   = "complete"
)

// Progress contains information about the upload progress.
// Passed to ProgressCallback during Upload.
type Progress struct {
	// Phase describes the current operation phase:
	//   "connecting" - Reading bootloader information
	//   "erasing"    - Erasing firmware sectors
	//   "writing"    - Writing hex records
	//   "launching"  - Starting the new firmware
	//   "complete"   - Operation completed successfully
	Phase string

	// CurrentSector is the number of sectors erased so far
	CurrentSector int

	// TotalSectors is the number of firmware sectors
	TotalSectors int

	// CurrentRecord is the number of records written so far
	CurrentRecord int

	// TotalRecords is the number of records in the image
	TotalRecords int

	// Percentage is the overall completion (0.0 to 100.0). Erasing covers
	// the first half, writing the second.
	Percentage float64

	// Message is a short human-readable status line
	Message string

	// ElapsedTime is the time elapsed since the upload started
	ElapsedTime time.Duration
}

// ProgressCallback is called during Upload to report progress.
// Implementations should return quickly to avoid blocking the upload.
//
// Example:
//
//	up := host.NewUploader(client,
//	    host.WithProgressCallback(func(p host.Progress) {
//	        fmt.Printf("[%s] %.1f%% %s\n", p.Phase, p.Percentage, p.Message)
//	    }),
//	)
type ProgressCallback func(Progress)
