package codify

import (
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StartCodifyService runs the codification HTTP service. It owns the Fast
// Pass endpoint plus alias dictionary and review endpoints, all backed by
// the shared pgx pool.
func StartCodifyService(pool *pgxpool.Pool) {
	store := NewAliasStore(pool)

	mux := http.NewServeMux()
	mux.HandleFunc("/codify/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Codify Service is active"))
	})
	mux.Handle("/codify/fastpass", FastPassHandler(store))
	mux.Handle("/codify/aliases", AliasDictionaryHandler(store))
	mux.Handle("/codify/aliases/bulk", BulkUpsertAliasesHandler(store))
	mux.Handle("/codify/aliases/delete", DeleteAliasHandler(store))
	mux.Handle("/codify/items", ListItemsHandler(store))
	mux.Handle("/codify/items/confirm", ConfirmItemsHandler(store))
	mux.Handle("/codify/items/reject", RejectItemsHandler(store))

	port := os.Getenv("CODIFY_PORT")
	if port == "" {
		port = "7143"
	}
	log.Println("Codify Service started on :" + port)
	err := http.ListenAndServe(":"+port, mux)
	if err != nil {
		log.Fatalf("Codify Service failed: %v", err)
	}
}
