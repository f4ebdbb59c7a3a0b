package speech

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"timeline-speech-server/internal/httpsvr/webapi"
	platformerrors "timeline-speech-server/internal/platform/errors"
)

// handleSynthesize serves POST /api/tts/:provider. On success the response
// body is the audio itself, with Content-Type from the provider and
// Content-Length set from the actual byte count.
func (s *Service) handleSynthesize(c *gin.Context) {
	requestID := uuid.NewString()
	providerName := c.Param("provider")

	if _, ok := s.gateway.Provider(providerName); !ok {
		webapi.RespondError(c, http.StatusNotFound, "unknown provider: "+providerName, nil)
		return
	}

	var body SynthesizeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		webapi.RespondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	audio, err := s.gateway.Synthesize(c.Request.Context(),
		providerName, body.Text, body.VoiceOverride(), body.ModelOverride())
	if err != nil {
		status := platformerrors.HTTPStatus(err)
		// The typed error message is operator-facing; the client gets a
		// category, never credentials or internals.
		s.logger.ErrorTag("HTTP", "synthesis %s failed (%s): %v", requestID, providerName, err)
		webapi.RespondError(c, status, clientMessage(err), nil)
		return
	}

	s.logger.InfoTag("HTTP", "synthesis %s ok (%s): %d bytes", requestID, providerName, audio.Length())

	c.Header("Content-Length", strconv.Itoa(audio.Length()))
	c.Data(http.StatusOK, audio.ContentType, audio.Data)
}

func (s *Service) handleProviders(c *gin.Context) {
	webapi.RespondSuccess(c, http.StatusOK, ProvidersResponse{
		Providers: s.gateway.Providers(),
		Default:   s.defaultProvider,
	}, "")
}

// clientMessage maps the error taxonomy to what the end user may see.
func clientMessage(err error) string {
	switch {
	case platformerrors.IsKind(err, platformerrors.KindValidation):
		return "text is required"
	case platformerrors.IsKind(err, platformerrors.KindConfig):
		return "speech provider is not configured"
	case platformerrors.IsKind(err, platformerrors.KindNoAudio):
		return "no audio produced"
	case platformerrors.IsKind(err, platformerrors.KindProvider):
		return "speech provider error"
	default:
		return "internal server error"
	}
}
