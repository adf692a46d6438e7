package constant

const (
	// Diarization speaker search bounds handed to the model on every upload.
	// Fixed policy: the API does not let callers tune these.
	DiarizationMinSpeakers = 1
	DiarizationMaxSpeakers = 10
)

// Module tags for structured logging.
const (
	ModuleAudio  = "AUDIO"
	ModuleChat   = "CHAT"
	ModuleEvents = "EVENTS"
)
