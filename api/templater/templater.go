package templater

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// StartTemplaterService runs the template population HTTP service. It is
// stateless: its only inputs arrive in the upload itself.
func StartTemplaterService() {
	router := mux.NewRouter()
	router.HandleFunc("/templater/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Templater Service is active"))
	}).Methods("GET")
	router.Handle("/templater/scan", ScanHandler()).Methods("POST")
	router.Handle("/templater/populate", PopulateHandler()).Methods("POST")

	port := os.Getenv("TEMPLATER_PORT")
	if port == "" {
		port = "7243"
	}
	log.Println("Templater Service started on :" + port)
	err := http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Templater Service failed: %v", err)
	}
}
