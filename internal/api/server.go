// Package api exposes the screening service over HTTP.
package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"edakit/adapters/excel"
	"edakit/app"
	"edakit/domain/core"
	"edakit/domain/dataset"
	"edakit/internal"
	"edakit/internal/errors"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// Server routes HTTP requests to the screening service
type Server struct {
	router  *gin.Engine
	service *app.ScreeningService
	logger  *internal.Logger
}

// NewServer creates the router with every route registered
func NewServer(service *app.ScreeningService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.Nop()
	}
	s := &Server{router: gin.New(), service: service, logger: logger}
	s.router.Use(gin.Recovery(), s.requestID(), s.accessLog())

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/v1")
	v1.POST("/recommend", s.handleRecommend)
	v1.POST("/scan", s.handleScan)
	v1.POST("/impute", s.handleImpute)
	v1.GET("/ratio", s.handleRatio)
	return s
}

// Handler returns the http.Handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseRequestID(c.GetHeader(requestIDHeader))
		if err != nil {
			id = core.RequestID(core.NewID())
		}
		c.Set("requestID", id.String())
		c.Header(requestIDHeader, id.String())
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.With("request_id", c.GetString("requestID")).Debug("%s %s %d in %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request %s failed: %v", c.GetString("requestID"), err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"code":       errors.GetCode(err),
		"request_id": c.GetString("requestID"),
	})
}

// tableRequest carries a dataset as JSON. A null cell is missing.
type tableRequest struct {
	Columns []string     `json:"columns" binding:"required"`
	Rows    [][]*float64 `json:"rows" binding:"required"`
	Target  string       `json:"target"`
	Verbose bool         `json:"verbose"`
}

func (r *tableRequest) table() (*dataset.Table, error) {
	t := &dataset.Table{Columns: r.Columns, Rows: make([][]float64, len(r.Rows))}
	for i, cells := range r.Rows {
		if len(cells) != len(r.Columns) {
			return nil, core.NewDimensionError("row "+strconv.Itoa(i+1)+" width", len(r.Columns), len(cells))
		}
		row := make([]float64, len(cells))
		for j, v := range cells {
			row[j] = math.NaN()
			if v != nil {
				row[j] = *v
			}
		}
		t.Rows[i] = row
	}
	return t, nil
}

// prepare reads the dataset from a CSV body (target in the query string) or
// from a JSON tableRequest.
func (s *Server) prepare(c *gin.Context) (*app.Prepared, bool, error) {
	if strings.HasPrefix(c.ContentType(), "text/csv") {
		target := c.Query("target")
		if target == "" {
			return nil, false, errors.InvalidInput("target query parameter is required")
		}
		raw, err := excel.ReadCSV(c.Request.Body)
		if err != nil {
			return nil, false, errors.WithCode(errors.CodeInvalidInput, err)
		}
		table, dataErrs, err := dataset.FromRaw(raw, target)
		if err != nil {
			return nil, false, err
		}
		p, err := s.service.Prepare(table, target)
		if err != nil {
			return nil, false, err
		}
		p.DataErrors = dataErrs
		verbose, _ := strconv.ParseBool(c.Query("verbose"))
		return p, verbose, nil
	}

	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, false, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if req.Target == "" {
		return nil, false, errors.InvalidInput("target is required")
	}
	table, err := req.table()
	if err != nil {
		return nil, false, err
	}
	p, err := s.service.Prepare(table, req.Target)
	if err != nil {
		return nil, false, err
	}
	return p, req.Verbose, nil
}

func (s *Server) handleRecommend(c *gin.Context) {
	p, verbose, err := s.prepare(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	rep, err := s.service.Recommend(c.Request.Context(), p, verbose)
	if err != nil {
		s.fail(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(rep.Markdown()))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", rep.HTML())
	default:
		c.JSON(http.StatusOK, rep)
	}
}

func (s *Server) handleScan(c *gin.Context) {
	p, _, err := s.prepare(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.service.Scan(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type imputeRequest struct {
	tableRequest
	DropThreshold *float64 `json:"drop_threshold"`
}

func (s *Server) handleImpute(c *gin.Context) {
	var req imputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	table, err := req.table()
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := s.service.Impute(table, req.DropThreshold)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRatio(c *gin.Context) {
	n, err := strconv.Atoi(c.Query("n"))
	if err != nil {
		s.fail(c, errors.InvalidInput("n must be an integer"))
		return
	}
	f, err := strconv.Atoi(c.Query("f"))
	if err != nil {
		s.fail(c, errors.InvalidInput("f must be an integer"))
		return
	}
	score, err := s.service.Ratio(n, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": n, "features": f, "score": score})
}
