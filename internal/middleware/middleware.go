package middleware

import (
	"net/http"
	"strconv"

	"github.com/ndadi/PersonaRAG/internal/handlers"
	"github.com/ndadi/PersonaRAG/internal/metrics"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var ChatHandler = Wrap(handlers.ChatHandler)
var IngestHandler = Wrap(handlers.IngestHandler)
var UploadHandler = Wrap(handlers.UploadHandler)
var FileHandler = Wrap(handlers.FileHandler)
var HistoryHandler = Wrap(handlers.HistoryHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")

	re = injectTrace(re)
	re = rateLimiter(re)
	return re
}
