package strategy

// epochCapture is the capture value Hazard hands back from
// FinishCaptureReaders: the generation being retired, plus a spin counter
// Pause advances so it can back off from Gosched to a short sleep instead
// of spinning forever on a slow reader.
type epochCapture struct {
	gen   uint64
	spins int
}
