package dto

import "audio-insight-be/pkg/transport"

type ProcessAudioResponse struct {
	SessionId string          `json:"session_id"`
	Filename  string          `json:"filename"`
	Results   transport.Value `json:"results"`
	// Cached is always false: the fingerprint is computed as a side
	// artifact, it never short-circuits processing.
	Cached bool `json:"cached"`
}

type DeleteSessionResponse struct {
	Message string `json:"message"`
}
