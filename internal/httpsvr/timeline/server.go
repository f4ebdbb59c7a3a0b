package timeline

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeline-speech-server/internal/httpsvr/webapi"
	"timeline-speech-server/internal/platform/logging"
)

type Service struct {
	store  *Store
	logger *logging.Logger
}

func NewService(store *Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Start registers the timeline routes on the shared API group.
func (s *Service) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	group := apiGroup.Group("/timeline")
	group.GET("", s.handleList)
	group.GET("/:id", s.handleGet)

	s.logger.InfoTag("Timeline", "timeline routes registered, %d records", s.store.Len())
	return nil
}

func (s *Service) handleList(c *gin.Context) {
	webapi.RespondSuccess(c, http.StatusOK, gin.H{"records": s.store.All()}, "")
}

func (s *Service) handleGet(c *gin.Context) {
	id := c.Param("id")

	record, ok := s.store.Get(id)
	if !ok {
		webapi.RespondError(c, http.StatusNotFound, "unknown timeline record: "+id, nil)
		return
	}

	webapi.RespondSuccess(c, http.StatusOK, record, "")
}
