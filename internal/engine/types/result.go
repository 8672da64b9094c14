package types

// Result is the outcome of downloading one URL, returned after the
// Transfer Core (or a failed Probe) settles.
type Result struct {
	URL            string  `json:"url"`
	Filename       string  `json:"filename"`
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	AverageMBps    float64 `json:"average_mbps"`
	BytesWritten   int64   `json:"bytes_written"`
}
