package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/idelchi/unveil/pkg/keystream"
	"github.com/idelchi/unveil/pkg/xordecode"
)

// multipartOverhead is the allowance for form fields and boundaries on top of the video size.
const multipartOverhead = 1 << 20

var (
	errNoVideo     = errors.New("missing video file")
	errNoKeystream = errors.New("missing keystream: send a keystream field or keystream_file upload")
	errTooLarge    = errors.New("upload too large")
)

// decrypt handles POST /api/decrypt.
//
// Form fields:
//   - video           encrypted file (required)
//   - keystream       hex text
//   - keystream_file  exported keystream file, hex text or JSON document
//   - strict          reject output without the container marker
func (s *Server) decrypt(c *gin.Context) {
	start := time.Now()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUpload+multipartOverhead)

	header, err := c.FormFile("video")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.abortTooLarge(c)

			return
		}

		abort(c, http.StatusBadRequest, errNoVideo)

		return
	}

	if header.Size > s.opts.MaxUpload {
		s.abortTooLarge(c)

		return
	}

	ks, err := s.requestKeystream(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)

		return
	}

	encrypted, err := readUpload(header)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)

		return
	}

	result := xordecode.Decrypt(encrypted, ks)

	strict, _ := strconv.ParseBool(c.PostForm("strict")) //nolint:errcheck // absent or malformed means false

	if strict && !result.Verdict.Valid {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":  fmt.Sprintf("marker %q not found in the first %d bytes, check the keystream", xordecode.Marker, xordecode.Window),
			"header": fmt.Sprintf("%x", xordecode.Header(result.Data)),
		})

		return
	}

	c.Header(HeaderContainerValid, strconv.FormatBool(result.Verdict.Valid))
	c.Header(HeaderMarkerOffset, strconv.Itoa(result.Verdict.Offset))
	c.Header(HeaderPrefix, strconv.Itoa(result.Prefix))
	c.Header(HeaderDuration, strconv.FormatInt(time.Since(start).Milliseconds(), 10))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": "decrypted_" + filepath.Base(header.Filename),
	}))

	c.Data(http.StatusOK, "video/mp4", result.Data)
}

// requestKeystream picks the keystream field, then the keystream_file upload, then the preloaded keystream.
func (s *Server) requestKeystream(c *gin.Context) (keystream.Keystream, error) {
	if text := c.PostForm("keystream"); text != "" {
		ks, err := keystream.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("keystream: %w", err)
		}

		return ks, nil
	}

	if header, err := c.FormFile("keystream_file"); err == nil {
		data, err := readUpload(header)
		if err != nil {
			return nil, err
		}

		ks, err := keystream.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("keystream_file: %w", err)
		}

		return ks, nil
	}

	if s.opts.Keystream != nil {
		return s.opts.Keystream, nil
	}

	return nil, errNoKeystream
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %q: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload %q: %w", header.Filename, err)
	}

	return data, nil
}

func (s *Server) abortTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": errTooLarge.Error(),
		"limit": humanize.IBytes(uint64(max(0, s.opts.MaxUpload))), //nolint:gosec // clamped
	})
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
