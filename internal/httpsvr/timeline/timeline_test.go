package timeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformerrors "timeline-speech-server/internal/platform/errors"
	platformtesting "timeline-speech-server/internal/platform/testing"
)

func testRecords() []Record {
	return []Record{
		{
			ID:          "1881-dogum",
			Date:        "1881",
			Title:       "Doğum",
			Description: "Selanik'te doğdu.",
			Images:      []string{"images/selanik.jpg"},
			Source:      "arşiv",
		},
		{
			ID:          "1919-samsun",
			Date:        "19 Mayıs 1919",
			Title:       "Samsun'a çıkış",
			Description: "Millî Mücadele başladı.",
			Sounds:      []string{"sounds/nutuk.mp3"},
		},
	}
}

func TestLoadStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "1881-dogum", "date": "1881", "title": "Doğum"},
		{"id": "1919-samsun", "date": "1919", "title": "Samsun"}
	]`), 0o644))

	store, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	record, ok := store.Get("1919-samsun")
	require.True(t, ok)
	assert.Equal(t, "Samsun", record.Title)
}

func TestLoadStore_MissingFile(t *testing.T) {
	_, err := LoadStore(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindConfig))
}

func TestLoadStore_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := LoadStore(path)
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindConfig))
}

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := NewService(NewStore(testRecords()), platformtesting.SetupTestLogger(t))

	engine := gin.New()
	apiGroup := engine.Group("/api")
	require.NoError(t, service.Start(context.Background(), engine, apiGroup))
	return engine
}

func TestHandleList(t *testing.T) {
	engine := setupEngine(t)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/timeline", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "1881-dogum")
	assert.Contains(t, recorder.Body.String(), "1919-samsun")
}

func TestHandleGet(t *testing.T) {
	engine := setupEngine(t)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/timeline/1881-dogum", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Selanik")
}

func TestHandleGet_Unknown(t *testing.T) {
	engine := setupEngine(t)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/timeline/2000-yok", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
