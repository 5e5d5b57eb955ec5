package artifact

import (
	"errors"
	"net/http"
	"os"

	"unmute/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler serves one audio artifact by id with byte-range support and
// permissive cross-origin headers. Browsers disagree about which audio
// MIME types they will decode, so a `format` query parameter can force
// the advertised type without re-encoding the payload.
func (s *Store) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "artifact id required"})
			return
		}

		path, mimeType, err := s.open(id)
		if errors.Is(err, ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "audio not found"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audio unavailable"})
			return
		}

		if forced := mimeForFormat(c.Query("format")); forced != "" {
			mimeType = forced
		}

		f, err := os.Open(path)
		if err != nil {
			logger.FromGin(c).Warn("artifact open failed", "id", id, "err", err)
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "audio not found"})
			return
		}
		defer f.Close()

		st, err := f.Stat()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audio unavailable"})
			return
		}

		h := c.Writer.Header()
		h.Set("Content-Type", mimeType)
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Cache-Control", "no-store")

		// ServeContent handles Range requests and conditional headers.
		http.ServeContent(c.Writer, c.Request, st.Name(), st.ModTime(), f)
	}
}

func mimeForFormat(format string) string {
	switch format {
	case "wav":
		return "audio/wav"
	case "mp3", "mpeg":
		return "audio/mpeg"
	case "ogg":
		return "audio/ogg"
	default:
		return ""
	}
}
