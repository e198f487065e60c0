package transcribe

// Config captures runtime settings for WhisperX invocations that do not vary
// between inputs.
type Config struct {
	// UVXBinary is the uvx executable used to launch WhisperX.
	UVXBinary string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
}

// WhisperX invocation constants.
const (
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
	UVXCommand        = "uvx"
)

// Task selects between same-language transcription and translation to English.
type Task string

const (
	TaskTranscribe Task = "transcribe"
	TaskTranslate  Task = "translate"
)

// Valid reports whether t is a task WhisperX understands.
func (t Task) Valid() bool {
	return t == TaskTranscribe || t == TaskTranslate
}

// Options carries the per-run recognition parameters. It is passed by value
// into every Transcribe call.
type Options struct {
	Model string
	// Language is an ISO 639-1 code, or empty for model-side detection.
	Language string
	Task     Task
	// SuppressWarnings silences Python warnings in the WhisperX child process.
	// It never touches this process's environment.
	SuppressWarnings bool
}
