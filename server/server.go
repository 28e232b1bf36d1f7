// Package server exposes the embedder over HTTP: upload a workbook and an
// image archive, receive the workbook with images embedded.
package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/javajack/xlembed"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Headers set on a successful /embed response.
const (
	HeaderNotices = "X-Embed-Notices"
	HeaderPlaced  = "X-Embed-Placed"
)

// DefaultMaxUploadBytes bounds each uploaded file.
const DefaultMaxUploadBytes = 64 << 20

// multipartOverhead is the body allowance on top of the two files.
const multipartOverhead = 64 << 10

// Server handles embed requests with a fixed set of embedder options.
type Server struct {
	// MaxUploadBytes bounds each uploaded file. Requests larger than two
	// such files are rejected before the body is read.
	MaxUploadBytes int64

	opts []xlembed.Option
	log  zerolog.Logger
}

// New creates a Server. The logger is also passed to every embed run.
func New(log zerolog.Logger, opts ...xlembed.Option) *Server {
	return &Server{
		MaxUploadBytes: DefaultMaxUploadBytes,
		opts:           append(append([]xlembed.Option{}, opts...), xlembed.WithLogger(log)),
		log:            log,
	}
}

// Echo builds the router.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLog)
	e.Use(middleware.BodyLimit(strconv.FormatInt(2*s.MaxUploadBytes+multipartOverhead, 10)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/embed", s.handleEmbed)
	e.POST("/embed/report", s.handleReport)
	return e
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ReportResponse is the body of /embed/report.
type ReportResponse struct {
	Sheet      string              `json:"sheet"`
	Rows       int                 `json:"rows"`
	Placements []xlembed.Placement `json:"placements"`
	Notices    []xlembed.Notice    `json:"notices"`
}

func (s *Server) handleEmbed(c echo.Context) error {
	name, res, err := s.run(c)
	if err != nil {
		return s.fail(c, err)
	}
	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", xlembed.OutputName(name)))
	h.Set(HeaderNotices, strconv.Itoa(len(res.Notices)))
	h.Set(HeaderPlaced, strconv.Itoa(len(res.Placements)))
	return c.Blob(http.StatusOK, xlsxContentType, res.Output)
}

func (s *Server) handleReport(c echo.Context) error {
	_, res, err := s.run(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ReportResponse{
		Sheet:      res.Sheet,
		Rows:       res.Rows,
		Placements: nonNil(res.Placements),
		Notices:    nonNil(res.Notices),
	})
}

// errUpload marks a missing or unreadable upload field.
var errUpload = errors.New("upload")

func (s *Server) run(c echo.Context) (string, *xlembed.Result, error) {
	wbHeader, workbook, err := s.readUpload(c, "workbook")
	if err != nil {
		return "", nil, err
	}
	_, archive, err := s.readUpload(c, "archive")
	if err != nil {
		return "", nil, err
	}
	res, err := xlembed.Embed(c.Request().Context(), workbook, archive, s.opts...)
	if err != nil {
		return "", nil, err
	}
	return wbHeader.Filename, res, nil
}

func (s *Server) readUpload(c echo.Context, field string) (*multipart.FileHeader, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: field %q: %v", errUpload, field, err)
	}
	if fh.Size > s.MaxUploadBytes {
		return nil, nil, fmt.Errorf("%w: field %q exceeds %d bytes", errUpload, field, s.MaxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %q: %v", errUpload, field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.MaxUploadBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %q: %v", errUpload, field, err)
	}
	return fh, data, nil
}

func (s *Server) fail(c echo.Context, err error) error {
	if errors.Is(err, errUpload) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "upload"})
	}
	kind := xlembed.Kind(err)
	status := http.StatusInternalServerError
	switch kind {
	case "archive", "schema", "workbook":
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Info().
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", c.Response().Status).
			Dur("took", time.Since(start)).
			Msg("request")
		return nil
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
