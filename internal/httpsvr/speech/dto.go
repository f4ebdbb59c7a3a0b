package speech

// SynthesizeRequestBody is the POST /api/tts/:provider body. Voice and
// model are optional overrides; provider defaults apply when absent.
// The elevenlabs route historically used voice_id/model_id, so both key
// spellings are accepted.
type SynthesizeRequestBody struct {
	Text    string `json:"text"`
	Voice   string `json:"voice"`
	VoiceID string `json:"voice_id"`
	Model   string `json:"model"`
	ModelID string `json:"model_id"`
}

// VoiceOverride resolves the effective voice override.
func (b *SynthesizeRequestBody) VoiceOverride() string {
	if b.Voice != "" {
		return b.Voice
	}
	return b.VoiceID
}

// ModelOverride resolves the effective model override.
func (b *SynthesizeRequestBody) ModelOverride() string {
	if b.Model != "" {
		return b.Model
	}
	return b.ModelID
}

// ProvidersResponse lists the registered provider ids.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
	Default   string   `json:"default"`
}
