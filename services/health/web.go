package health

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/reevit/reevit-go/lib/mycontext"
	"github.com/reevit/reevit-go/lib/myhttp"
	"github.com/reevit/reevit-go/lib/mylog"
)

// Pinger is anything that can tell whether it is able to serve requests.
type Pinger interface {
	Ping(c context.Context) error
}

type Status struct {
	Status string `json:"status"`
}

type webService struct {
	logger  mylog.Logger
	pingers []Pinger
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(pingers ...Pinger) *webService {
	return &webService{
		logger:  mylog.New("health"),
		pingers: pingers,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/_ah/warmup", s.healthPage()).Methods("GET")
	router.HandleFunc("/healthz", s.healthPage()).Methods("GET")

	return nil
}

func (s *webService) healthPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		for _, p := range s.pingers {
			err := p.Ping(c)
			if err != nil {
				writer.WriteError(c, w, "unhealthy", err)
				return
			}
		}

		writer.Write(c, w, http.StatusOK, Status{Status: "ok"})
	}
}
