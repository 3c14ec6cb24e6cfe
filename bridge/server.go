package bridge

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the gorilla/mux router for the deposit/withdraw façade,
// grounded on cmd/xchainserver/server/routes.go's route registration style.
func (f *Facade) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)
	r.Use(jsonHeaders)

	r.HandleFunc("/deposit", f.Deposit).Methods(http.MethodPost)
	r.HandleFunc("/withdraw", f.Withdraw).Methods(http.MethodGet)
	return r
}
